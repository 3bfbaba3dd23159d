package contracts

import (
	"context"
)

// Viewership answers whether a user currently has the conversation panel
// with a given counterpart open. Client-signaled, never inferred from read
// receipts.
type Viewership interface {
	IsViewing(userID, partnerID string) bool
}

// PresenceMirror exports coarse online/offline state to shared storage so
// collaborating services can render presence badges. Strictly best effort;
// the in-process registry stays the source of truth.
type PresenceMirror interface {
	SetOnline(ctx context.Context, userID string) error
	SetOffline(ctx context.Context, userID string) error
	OnlineUsers(ctx context.Context) ([]string, error)
}
