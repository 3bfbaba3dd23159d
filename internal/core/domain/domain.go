package domain

import (
	"time"
)

// Identity is the normalized result of token verification. The user id claim
// may arrive under either of two historical names ("userId" or "id"); the
// authenticator resolves that before anything downstream sees it.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// ConnectionInfo describes one live transport session. The connection id is
// opaque and unique per physical link; a reconnecting client gets a new one.
type ConnectionInfo struct {
	ID          string
	UserID      string
	RemoteAddr  string
	ConnectedAt time.Time
}

// Notification is a stored push record. The dispatcher treats Payload as
// opaque beyond the type discriminator used for routing.
type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	SenderID    string    `json:"sender_id"`
	Payload     []byte    `json:"payload"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}
