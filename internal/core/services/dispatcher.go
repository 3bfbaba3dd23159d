package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Goniek94/BackendRespo-sub005/internal/core/contracts"
	"github.com/Goniek94/BackendRespo-sub005/internal/core/domain"
	"github.com/Goniek94/BackendRespo-sub005/pkg/logging"
)

var tracer = otel.Tracer("realtime-core")

// Dispatcher is the single entry point the rest of the application calls to
// trigger a push. It couples the suppression policy to transport delivery;
// everything else in the subsystem is policy-only or transport-only.
type Dispatcher struct {
	window   *SuppressionWindow
	registry contracts.Registry
	store    domain.NotificationStore // nil when the gateway runs without a database
	log      *slog.Logger
	now      func() time.Time
}

func NewDispatcher(
	log *slog.Logger,
	window *SuppressionWindow,
	registry contracts.Registry,
	store domain.NotificationStore,
) *Dispatcher {
	return &Dispatcher{
		window:   window,
		registry: registry,
		store:    store,
		log:      log,
		now:      time.Now,
	}
}

// Notify evaluates the suppression window and, when delivery is due, fans
// the payload out to every live connection of the recipient. Suppressed
// events return without side effects. The returned flag reports whether a
// broadcast happened; delivery itself stays best effort with no visible
// failure mode.
func (d *Dispatcher) Notify(ctx context.Context, recipientID, senderID string, payload json.RawMessage) bool {
	ctx, span := tracer.Start(ctx, "Dispatcher.Notify", trace.WithAttributes(
		attribute.String("recipient_id", recipientID),
		attribute.String("sender_id", senderID),
	))
	defer span.End()
	if recipientID == "" {
		return false
	}
	if !d.window.ShouldDeliver(recipientID, senderID, d.now()) {
		span.SetAttributes(attribute.Bool("suppressed", true))
		return false
	}
	event := domain.ServerEvent{
		Type: domain.TypeNewNotification,
		Data: payload,
	}
	d.registry.Broadcast(ctx, recipientID, event)
	d.log.InfoContext(ctx, "dispatcher - notify - delivered",
		logging.Recipient(recipientID),
		logging.Sender(senderID),
		"connections", d.registry.ConnectionCount(recipientID),
	)
	if d.store != nil {
		n := &domain.Notification{
			ID:          uuid.NewString(),
			RecipientID: recipientID,
			SenderID:    senderID,
			Payload:     payload,
			CreatedAt:   d.now(),
		}
		if err := d.store.Save(ctx, n); err != nil {
			span.RecordError(err)
			d.log.ErrorContext(ctx, "dispatcher - notify - save notification failed",
				logging.Recipient(recipientID), logging.Sender(senderID), logging.Err(err))
		}
	}
	return true
}
