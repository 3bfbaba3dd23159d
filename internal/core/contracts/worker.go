package contracts

import "context"

// AsyncWorker consumes the notification ingest stream and feeds the
// dispatcher. One worker per process is enough; the consumer group keeps
// multiple processes from double-dispatching the same event.
type AsyncWorker interface {
	// Run starts the consumer loop and blocks until ctx is cancelled.
	Run(ctx context.Context) error
	// ProcessEvent decodes one stream entry, dispatches it, then
	// acknowledges and deletes the entry.
	ProcessEvent(ctx context.Context, messageID string, raw []byte) error
}
