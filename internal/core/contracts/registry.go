package contracts

import (
	"context"

	"github.com/Goniek94/BackendRespo-sub005/internal/core/domain"
)

// Registry is the global connection bookkeeping layer: which users are
// online, through which physical connections, and how to fan an event out
// to all of a user's devices.
type Registry interface {
	// Register adds a connection to the owner's set. Registering the same
	// (user, connection) pair twice is a no-op.
	Register(c Client)
	// Unregister removes the connection via the reverse index and drops the
	// user entry when their last connection goes. Unknown connection ids
	// are tolerated (logged, no-op).
	Unregister(connID string)
	// IsOnline reports whether the user has at least one live connection.
	IsOnline(userID string) bool
	// ConnectionCount reports the user's live connection count.
	ConnectionCount(userID string) int
	// TotalConnectionCount reports the global live connection count.
	TotalConnectionCount() int
	// Broadcast delivers the event to every live connection of the user,
	// best effort. Dead-but-undetected connections simply drop it.
	Broadcast(ctx context.Context, userID string, event domain.ServerEvent)
	// BroadcastMany fans the event out to each listed user.
	BroadcastMany(ctx context.Context, userIDs []string, event domain.ServerEvent)
	// BroadcastAll delivers to every connection. Reserved for operator-wide
	// announcements, not regular notification traffic.
	BroadcastAll(ctx context.Context, event domain.ServerEvent)
}

// Client is the minimal surface the registry needs to talk to one
// WebSocket connection.
type Client interface {
	ID() string
	UserID() string
	Send(ctx context.Context, data []byte) error
	Close()
}
