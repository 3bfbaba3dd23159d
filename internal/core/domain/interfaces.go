package domain

import (
	"context"
)

// NotificationStore is the read-state collaborator owned by the messaging
// REST layer. The gateway only inserts delivered pushes and flips the read
// flag; listing and pagination live on the REST side.
type NotificationStore interface {
	// Save records a delivered notification.
	Save(ctx context.Context, n *Notification) error
	// MarkRead flips the read flag. The recipient id guards against a
	// client acknowledging someone else's notification.
	MarkRead(ctx context.Context, notificationID, recipientID string) error
	// UnreadCount reports pending notifications for the recipient.
	UnreadCount(ctx context.Context, recipientID string) (int, error)
}
