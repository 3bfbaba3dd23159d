package registry

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/Goniek94/BackendRespo-sub005/internal/core/contracts"
	"github.com/Goniek94/BackendRespo-sub005/internal/core/domain"
)

// Registry keeps the bidirectional mapping between users and their live
// connections. A user may be connected from several devices or tabs at
// once; "online" means at least one registered connection.
//
// The forward map (user → connections) and the reverse index
// (connection → user) always mutate inside the same critical section. A
// torn update between the two is the primary correctness risk here.
type Registry struct {
	mu     sync.RWMutex
	users  map[string]map[string]contracts.Client // userID → connID → client
	byConn map[string]string                      // connID → userID
	log    *slog.Logger
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		users:  make(map[string]map[string]contracts.Client),
		byConn: make(map[string]string),
		log:    log,
	}
}

// Register adds the client to its owner's connection set, creating the user
// entry if absent. Registering the same connection twice is a no-op.
func (h *Registry) Register(c contracts.Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	userID := c.UserID()
	connID := c.ID()
	if h.users[userID] == nil {
		h.users[userID] = make(map[string]contracts.Client)
	}
	h.users[userID][connID] = c
	h.byConn[connID] = userID
}

// Unregister looks the owner up through the reverse index, removes the
// connection and drops the user entry entirely when the set empties. An
// unknown connection id is a self-healing no-op: logged, not surfaced.
func (h *Registry) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	userID, ok := h.byConn[connID]
	if !ok {
		h.log.Warn("registry - unregister - unknown connection", "connection_id", connID)
		return
	}
	delete(h.byConn, connID)
	conns := h.users[userID]
	if conns == nil {
		// Reverse index pointed at a missing forward entry. Programmer
		// error; the delete above already healed it.
		h.log.Error("registry - unregister - reverse index inconsistency",
			"connection_id", connID, "user_id", userID)
		return
	}
	delete(conns, connID)
	if len(conns) == 0 {
		delete(h.users, userID)
	}
}

// IsOnline reports whether the user has at least one live connection.
func (h *Registry) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID]) > 0
}

// ConnectionCount reports the user's live connection count.
func (h *Registry) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// TotalConnectionCount reports the global connection count.
func (h *Registry) TotalConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byConn)
}

// Broadcast delivers the event to every live connection of the user.
// Best effort: a connection that has silently died just drops the event.
func (h *Registry) Broadcast(ctx context.Context, userID string, event domain.ServerEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("registry - broadcast - marshal failed", "type", event.Type, "err", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.users[userID] {
		_ = c.Send(ctx, data)
	}
}

// BroadcastMany fans the event out to each listed user.
func (h *Registry) BroadcastMany(ctx context.Context, userIDs []string, event domain.ServerEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("registry - broadcast many - marshal failed", "type", event.Type, "err", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, userID := range userIDs {
		for _, c := range h.users[userID] {
			_ = c.Send(ctx, data)
		}
	}
}

// BroadcastAll delivers to every connection of every user. Reserved for
// operator announcements.
func (h *Registry) BroadcastAll(ctx context.Context, event domain.ServerEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("registry - broadcast all - marshal failed", "type", event.Type, "err", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conns := range h.users {
		for _, c := range conns {
			_ = c.Send(ctx, data)
		}
	}
}
