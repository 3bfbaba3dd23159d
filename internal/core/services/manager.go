package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Goniek94/BackendRespo-sub005/internal/core/contracts"
	"github.com/Goniek94/BackendRespo-sub005/internal/core/domain"
	"github.com/Goniek94/BackendRespo-sub005/pkg/logging"
)

// SessionManager orchestrates a connection's lifetime after the handshake:
// registry bookkeeping, the presence mirror, and routing of client-sent
// events. The WebSocket handler stays transport-only.
type SessionManager struct {
	registry contracts.Registry
	presence *PresenceTracker
	window   *SuppressionWindow
	mirror   contracts.PresenceMirror // nil when the gateway runs without Redis
	store    domain.NotificationStore // nil when the gateway runs without a database
	log      *slog.Logger
}

func NewSessionManager(
	log *slog.Logger,
	registry contracts.Registry,
	presence *PresenceTracker,
	window *SuppressionWindow,
	mirror contracts.PresenceMirror,
	store domain.NotificationStore,
) *SessionManager {
	return &SessionManager{
		registry: registry,
		presence: presence,
		window:   window,
		mirror:   mirror,
		store:    store,
		log:      log,
	}
}

// HandleConnect registers the authenticated client, mirrors the user online
// and confirms the session with a connection_success event on this
// connection only (other devices of the same user are not told).
func (m *SessionManager) HandleConnect(ctx context.Context, c contracts.Client) {
	ctx, span := tracer.Start(ctx, "SessionManager.HandleConnect", trace.WithAttributes(
		attribute.String("user_id", c.UserID()),
		attribute.String("connection_id", c.ID()),
	))
	defer span.End()
	m.registry.Register(c)
	if m.mirror != nil {
		if err := m.mirror.SetOnline(ctx, c.UserID()); err != nil {
			span.RecordError(err)
			m.log.ErrorContext(ctx, "session - handle connect - presence mirror failed",
				"user_id", c.UserID(), "err", err)
		}
	}
	success := domain.ConnectionSuccess{
		Message: "connected",
		UserID:  c.UserID(),
	}
	if m.store != nil {
		// Initial badge count, so the client renders it without a REST
		// round-trip. Best effort like the rest of the connect path.
		n, err := m.store.UnreadCount(ctx, c.UserID())
		if err != nil {
			m.log.WarnContext(ctx, "session - handle connect - unread count failed",
				logging.User(c.UserID()), logging.Err(err))
		} else {
			success.UnreadCount = n
		}
	}
	m.sendToClient(ctx, c, domain.ServerEvent{
		Type: domain.TypeConnectionSuccess,
		Data: success,
	})
	m.log.InfoContext(ctx, "session - handle connect - client registered",
		"user_id", c.UserID(),
		"connection_id", c.ID(),
		"connections", m.registry.ConnectionCount(c.UserID()),
	)
}

// HandleDisconnect removes the connection and, when it was the user's last
// one, clears their viewing state and mirrors them offline.
func (m *SessionManager) HandleDisconnect(ctx context.Context, c contracts.Client) {
	ctx, span := tracer.Start(ctx, "SessionManager.HandleDisconnect", trace.WithAttributes(
		attribute.String("user_id", c.UserID()),
		attribute.String("connection_id", c.ID()),
	))
	defer span.End()
	m.registry.Unregister(c.ID())
	if m.registry.IsOnline(c.UserID()) {
		return
	}
	m.presence.LeaveAll(c.UserID())
	if m.mirror != nil {
		if err := m.mirror.SetOffline(ctx, c.UserID()); err != nil {
			span.RecordError(err)
			m.log.ErrorContext(ctx, "session - handle disconnect - presence mirror failed",
				"user_id", c.UserID(), "err", err)
		}
	}
	m.log.InfoContext(ctx, "session - handle disconnect - user offline", "user_id", c.UserID())
}

// HandleClientEvent routes one client frame. Any failure is logged with
// full context and swallowed; the connection stays usable for the next
// event.
func (m *SessionManager) HandleClientEvent(ctx context.Context, c contracts.Client, raw []byte) {
	var event domain.ClientEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		m.log.ErrorContext(ctx, "session - handle event - malformed frame",
			"user_id", c.UserID(), "connection_id", c.ID(), "err", err)
		return
	}
	switch event.Type {
	case domain.TypeEnterConversation:
		m.handleConversation(ctx, c, event, true)
	case domain.TypeLeaveConversation:
		m.handleConversation(ctx, c, event, false)
	case domain.TypeMarkNotificationRead:
		m.handleMarkRead(ctx, c, event)
	default:
		m.log.WarnContext(ctx, "session - handle event - unknown type",
			"user_id", c.UserID(), "type", event.Type)
	}
}

func (m *SessionManager) handleConversation(ctx context.Context, c contracts.Client, event domain.ClientEvent, enter bool) {
	var payload domain.ConversationPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil || payload.ParticipantID == "" {
		m.log.ErrorContext(ctx, "session - handle event - bad conversation payload",
			"user_id", c.UserID(), "type", event.Type, "err", err)
		return
	}
	if enter {
		m.presence.EnterConversation(c.UserID(), payload.ParticipantID)
	} else {
		m.presence.LeaveConversation(c.UserID(), payload.ParticipantID)
	}
	m.log.InfoContext(ctx, "session - handle event - viewing updated",
		"user_id", c.UserID(),
		"participant_id", payload.ParticipantID,
		"viewing", enter,
	)
}

func (m *SessionManager) handleMarkRead(ctx context.Context, c contracts.Client, event domain.ClientEvent) {
	var payload domain.MarkReadPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil || payload.NotificationID == "" {
		m.log.ErrorContext(ctx, "session - handle event - bad mark read payload",
			"user_id", c.UserID(), "err", err)
		return
	}
	if m.store != nil {
		if err := m.store.MarkRead(ctx, payload.NotificationID, c.UserID()); err != nil {
			m.log.ErrorContext(ctx, "session - handle event - mark read failed",
				logging.User(c.UserID()), logging.NotificationID(payload.NotificationID), logging.Err(err))
			return
		}
	}
	// Reading the conversation re-opens the pair's window so the next new
	// message notifies immediately.
	if payload.SenderID != "" {
		m.window.Reset(c.UserID(), payload.SenderID)
	}
	m.sendToClient(ctx, c, domain.ServerEvent{
		Type: domain.TypeNotificationMarkedRead,
		Data: domain.MarkedRead{NotificationID: payload.NotificationID},
	})
}

func (m *SessionManager) sendToClient(ctx context.Context, c contracts.Client, event domain.ServerEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		m.log.ErrorContext(ctx, "session - send - marshal failed", "type", event.Type, "err", err)
		return
	}
	if err := c.Send(ctx, data); err != nil {
		m.log.WarnContext(ctx, "session - send - dropped",
			"user_id", c.UserID(), "connection_id", c.ID(), "type", event.Type)
	}
}
