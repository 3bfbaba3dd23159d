package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Goniek94/BackendRespo-sub005/internal/app/server/handlers"
	"github.com/Goniek94/BackendRespo-sub005/internal/core/contracts"
	"github.com/Goniek94/BackendRespo-sub005/internal/core/services"
	"github.com/Goniek94/BackendRespo-sub005/pkg/middleware"
)

type Server struct {
	mux       *http.ServeMux
	addr      string
	name      string
	log       *slog.Logger
	mirror    contracts.PresenceMirror
	wsHandler *handlers.WSHandler
}

func NewServer(
	log *slog.Logger,
	name, addr string,
	auth *services.HandshakeAuthenticator,
	manager *services.SessionManager,
	mirror contracts.PresenceMirror,
	sendBuffer int,
) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		addr:      addr,
		name:      name,
		log:       log,
		mirror:    mirror,
		wsHandler: handlers.NewWSHandler(auth, manager, sendBuffer),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	logging := middleware.RequestLogger(s.log)
	tracing := middleware.TracerMiddleware(s.name)

	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	s.mux.HandleFunc("GET /presence/online", s.handleOnlineUsers)
	// Token extraction precedence (cookie > query > header) lives in the
	// handshake authenticator, not in a middleware.
	s.mux.Handle("/ws", tracing(logging(http.HandlerFunc(s.wsHandler.Handler))))
}

// handleOnlineUsers serves the mirrored online set for collaborating
// services and operators. 503 when the gateway runs without Redis.
func (s *Server) handleOnlineUsers(w http.ResponseWriter, r *http.Request) {
	if s.mirror == nil {
		http.Error(w, "presence mirror disabled", http.StatusServiceUnavailable)
		return
	}
	users, err := s.mirror.OnlineUsers(r.Context())
	if err != nil {
		s.log.ErrorContext(r.Context(), "server - online users - mirror read failed", "err", err)
		http.Error(w, "presence mirror unavailable", http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]string{"online": users})
}

func (s *Server) Start() error {
	server := &http.Server{
		Addr:        s.addr,
		Handler:     s.mux,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: it would sever long-lived WebSocket sessions.
	}
	s.log.Info("server starting", "addr", s.addr)
	return server.ListenAndServe()
}
