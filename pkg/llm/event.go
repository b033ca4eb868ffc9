package llm

import "time"

// EventType discriminates an Event.
type EventType string

const (
	EventStreamStart EventType = "stream-start"

	EventTextStart EventType = "text-start"
	EventTextDelta EventType = "text-delta"
	EventTextEnd   EventType = "text-end"

	EventReasoningStart EventType = "reasoning-start"
	EventReasoningDelta EventType = "reasoning-delta"
	EventReasoningEnd   EventType = "reasoning-end"

	EventToolInputStart EventType = "tool-input-start"
	EventToolInputDelta EventType = "tool-input-delta"
	EventToolInputEnd   EventType = "tool-input-end"
	EventToolCall       EventType = "tool-call"

	EventSource           EventType = "source"
	EventResponseMetadata EventType = "response-metadata"
	EventFinish           EventType = "finish"
	EventError            EventType = "error"

	// EventRaw carries a verbatim copy of an upstream data frame. Only
	// emitted when raw chunk diagnostics are requested.
	EventRaw EventType = "raw"
)

// Event is one typed output event of a streaming call.
// The Type field determines which other fields are populated.
type Event struct {
	Type EventType `json:"type"`

	// ID identifies the channel (text, reasoning), tool call or source the
	// event belongs to.
	ID string `json:"id,omitempty"`

	// Delta is the incremental payload of *-delta events.
	Delta string `json:"delta,omitempty"`

	// Tool invocation (type="tool-input-start", "tool-call")
	ToolName string `json:"tool_name,omitempty"`
	Input    string `json:"input,omitempty"`

	// Warnings (type="stream-start")
	Warnings []string `json:"warnings,omitempty"`

	Source   *Source           `json:"source,omitempty"`
	Metadata *ResponseMetadata `json:"metadata,omitempty"`
	Finish   *Finish           `json:"finish,omitempty"`
	Error    *ErrorInfo        `json:"error,omitempty"`

	// Raw is the verbatim upstream payload (type="raw"). It is not
	// necessarily valid JSON.
	Raw string `json:"raw,omitempty"`
}

// Source is a citation surfaced by the model.
type Source struct {
	SourceType string `json:"source_type"` // "url"
	URL        string `json:"url"`
	Title      string `json:"title,omitempty"`
}

// ResponseMetadata identifies the upstream response.
type ResponseMetadata struct {
	ID        string     `json:"id,omitempty"`
	ModelID   string     `json:"model_id,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Finish is the terminal accounting of a stream.
type Finish struct {
	Reason           FinishReason     `json:"reason"`
	RawReason        string           `json:"raw_reason,omitempty"`
	Usage            Usage            `json:"usage"`
	ProviderMetadata ProviderMetadata `json:"provider_metadata"`
}

// ErrorInfo describes the failure carried by an error event.
type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`

	// Err is the underlying Go error for transport failures.
	Err error `json:"-"`
}

func (e *ErrorInfo) Error() string {
	return e.Message
}

func (e *ErrorInfo) Unwrap() error {
	return e.Err
}

// IsTerminal reports whether the event is the finish event.
func (e Event) IsTerminal() bool {
	return e.Type == EventFinish
}
