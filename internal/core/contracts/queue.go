package contracts

import (
	"context"
)

// NotificationQueue is the ingest side of the dispatch pipeline. External
// producers (message creation, listing events) append notification events;
// the gateway consumes them through a consumer group so a restart does not
// lose queued events.
type NotificationQueue interface {
	// Publish appends a notification event to the ingest stream.
	Publish(ctx context.Context, payload []byte) error
	// Subscribe reads the stream through the consumer group and hands each
	// entry to the handler. Runs until the context is cancelled.
	Subscribe(ctx context.Context, group string, handler func(ctx context.Context, messageID string, data []byte) error) error
	// Acknowledge marks a stream entry as processed for the group.
	Acknowledge(ctx context.Context, group, messageID string) error
	// Delete removes a processed entry from the stream.
	Delete(ctx context.Context, messageID string) error
}
