package postgres

import (
	"context"
	"database/sql"

	"github.com/Goniek94/BackendRespo-sub005/internal/core/domain"
)

// NotificationRepo implements the read-state collaborator over the shared
// notifications table. The REST layer owns listing and pagination; the
// gateway only inserts delivered pushes and flips read flags.
type NotificationRepo struct {
	db *sql.DB
}

func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{
		db: db,
	}
}

func (r *NotificationRepo) Save(ctx context.Context, n *domain.Notification) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO notifications (
            id, recipient_id, sender_id, payload, read, created_at
        ) VALUES ($1, $2, $3, $4, FALSE, $5)
    `,
		n.ID,
		n.RecipientID,
		n.SenderID,
		n.Payload,
		n.CreatedAt,
	)
	return err
}

// MarkRead flips the flag only when the notification belongs to the caller.
func (r *NotificationRepo) MarkRead(ctx context.Context, notificationID, recipientID string) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE notifications
        SET read = TRUE
        WHERE id = $1 AND recipient_id = $2
    `, notificationID, recipientID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepo) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
        SELECT COUNT(*) FROM notifications
        WHERE recipient_id = $1 AND read = FALSE
    `, recipientID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
