package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Goniek94/BackendRespo-sub005/internal/app/server/ws"
	"github.com/Goniek94/BackendRespo-sub005/internal/core/domain"
	"github.com/Goniek94/BackendRespo-sub005/internal/core/services"
	"github.com/Goniek94/BackendRespo-sub005/internal/platform/logger"
	"github.com/Goniek94/BackendRespo-sub005/pkg/logging"
)

// WSHandler owns the upgrade path: authenticate the handshake, hand the
// connection to the session manager, run the read loop. All policy lives
// behind the manager.
type WSHandler struct {
	auth       *services.HandshakeAuthenticator
	manager    *services.SessionManager
	sendBuffer int
}

func NewWSHandler(auth *services.HandshakeAuthenticator, manager *services.SessionManager, sendBuffer int) *WSHandler {
	return &WSHandler{
		auth:       auth,
		manager:    manager,
		sendBuffer: sendBuffer,
	}
}

func (s *WSHandler) Handler(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	span := trace.SpanFromContext(r.Context())

	// Authentication happens before the upgrade: a rejected attempt never
	// creates any connection or registry state.
	identity, err := s.auth.Authenticate(r)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, domain.ErrMissingToken) {
			http.Error(w, "Unauthorized: missing token", status)
		} else {
			http.Error(w, "Unauthorized: invalid token", status)
		}
		return
	}
	span.SetAttributes(attribute.String("user.id", identity.UserID))

	// The session must outlive the HTTP request context.
	sessionCtx := context.WithoutCancel(r.Context())
	ctx, cancel := context.WithCancel(sessionCtx)

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true // tighten later
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.ErrorContext(r.Context(), "ws handler - upgrade failed", logging.User(identity.UserID), logging.Err(err))
		cancel()
		return
	}
	conn.SetCloseHandler(func(code int, text string) error {
		log.Info("ws handler - ws closed", logging.User(identity.UserID), "code", code)
		cancel()
		return nil
	})

	websock := ws.NewWebSocket(ctx, log, conn)
	client := ws.NewClient(ctx, websock, identity.UserID, r.RemoteAddr, s.sendBuffer)

	s.manager.HandleConnect(ctx, client)
	defer s.manager.HandleDisconnect(sessionCtx, client)
	defer client.Close()
	info := client.Info()
	log.InfoContext(r.Context(), "ws handler - connection established",
		logging.User(info.UserID), logging.Connection(info.ID),
		"remote_addr", info.RemoteAddr, "connected_at", info.ConnectedAt)

	websock.ReadLoop(func(data []byte) {
		s.manager.HandleClientEvent(ctx, client, data)
	})
}
