package eventstream

import "context"

// Publisher publishes completed-stream events to an event stream backend.
type Publisher interface {
	PublishStreamCompleted(ctx context.Context, event *StreamCompletedEvent) error
	Close() error
}
