package eventstream

import "context"

// Publisher publishes progress events to an event stream backend.
type Publisher interface {
	PublishProgress(ctx context.Context, event *ProgressRecordedEvent) error
	Close() error
}
