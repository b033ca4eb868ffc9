package eventstream

import (
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/reel/pkg/llm"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeStreamCompleted is emitted once a proxied stream has finished.
	EventTypeStreamCompleted = "reel.stream.completed"
)

// StreamCompletedEvent is a transport-neutral event payload carrying the
// terminal accounting of one proxied stream.
type StreamCompletedEvent struct {
	SchemaVersion int         `json:"schema_version"`
	EventType     string      `json:"event_type"`
	EventID       string      `json:"event_id"`
	EmittedAt     time.Time   `json:"emitted_at"`
	Source        EventSource `json:"source"`
	RequestMeta   RequestMeta `json:"request_meta"`
	Finish        llm.Finish  `json:"finish"`
}

// EventSource identifies where the stream originated.
type EventSource struct {
	Provider         string `json:"provider"`
	UpstreamProvider string `json:"upstream_provider,omitempty"`
	Model            string `json:"model,omitempty"`
}

// RequestMeta captures request lifecycle metadata for the event.
type RequestMeta struct {
	Path        string    `json:"path,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	DurationMs  int64     `json:"duration_ms"`
	HTTPStatus  int       `json:"http_status"`
}

// NewStreamCompletedEvent builds the event for a finished stream.
func NewStreamCompletedEvent(source EventSource, meta RequestMeta, finish llm.Finish) *StreamCompletedEvent {
	if meta.DurationMs == 0 && !meta.StartedAt.IsZero() && !meta.CompletedAt.IsZero() {
		meta.DurationMs = meta.CompletedAt.Sub(meta.StartedAt).Milliseconds()
	}

	return &StreamCompletedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeStreamCompleted,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source:        source,
		RequestMeta:   meta,
		Finish:        finish,
	}
}

// Key returns the partitioning key of the event: the upstream response id
// when known, the event id otherwise.
func (e *StreamCompletedEvent) Key() string {
	if id := e.Finish.ProviderMetadata.ResponseID; id != "" {
		return id
	}
	return e.EventID
}
