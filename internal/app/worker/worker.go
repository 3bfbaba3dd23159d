package worker

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Goniek94/BackendRespo-sub005/internal/core/contracts"
	"github.com/Goniek94/BackendRespo-sub005/internal/core/domain"
	"github.com/Goniek94/BackendRespo-sub005/internal/core/services"
)

// NotificationWorker consumes the ingest stream and feeds each event to the
// dispatcher. Producers that live in other processes (message creation,
// listing events) reach the dispatcher through this path; in-process code
// calls Dispatcher.Notify directly.
type NotificationWorker struct {
	log        *slog.Logger
	queue      contracts.NotificationQueue
	dispatcher *services.Dispatcher
	group      string
}

func NewNotificationWorker(
	log *slog.Logger,
	queue contracts.NotificationQueue,
	dispatcher *services.Dispatcher,
	group string,
) contracts.AsyncWorker {
	return &NotificationWorker{
		log:        log,
		queue:      queue,
		dispatcher: dispatcher,
		group:      group,
	}
}

func (w *NotificationWorker) Run(ctx context.Context) error {
	w.log.InfoContext(ctx, "worker - run - consuming notification stream", "group", w.group)
	return w.queue.Subscribe(ctx, w.group, w.ProcessEvent)
}

// ProcessEvent decodes one stream entry and dispatches it. Undecodable
// entries are acknowledged anyway so they do not wedge the group. A
// suppressed notification still counts as processed.
func (w *NotificationWorker) ProcessEvent(ctx context.Context, messageID string, raw []byte) error {
	var event domain.NotificationEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		w.log.Error("worker - process event - malformed event", "message_id", messageID, "err", err)
		w.finish(ctx, messageID)
		return err
	}
	delivered := w.dispatcher.Notify(ctx, event.RecipientID, event.SenderID, event.Payload)
	w.log.InfoContext(ctx, "worker - process event - dispatched",
		"message_id", messageID,
		"recipient_id", event.RecipientID,
		"delivered", delivered,
	)
	w.finish(ctx, messageID)
	return nil
}

func (w *NotificationWorker) finish(ctx context.Context, messageID string) {
	if err := w.queue.Acknowledge(ctx, w.group, messageID); err != nil {
		w.log.Error("worker - process event - acknowledge failed", "message_id", messageID, "err", err)
		return
	}
	// Keeps the stream memory-bounded; the entry is already ACKed, so a
	// failure here is harmless.
	if err := w.queue.Delete(ctx, messageID); err != nil {
		w.log.Error("worker - process event - delete failed", "message_id", messageID, "err", err)
	}
}
