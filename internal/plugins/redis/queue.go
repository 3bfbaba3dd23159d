package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const notificationStream = "stream:notifications"

// NotificationQueue bridges out-of-process producers to the dispatcher
// through one Redis stream. A consumer group keeps queued events across
// gateway restarts.
type NotificationQueue struct {
	rdb *redis.Client
	log *slog.Logger
}

func NewNotificationQueue(log *slog.Logger, rdb *redis.Client) *NotificationQueue {
	return &NotificationQueue{rdb: rdb, log: log}
}

func (q *NotificationQueue) Publish(ctx context.Context, payload []byte) error {
	return q.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: notificationStream,
		MaxLen: 10000,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{"data": payload},
	}).Err()
}

// Subscribe reads new entries through the consumer group and hands them to
// the handler. Blocks until ctx is cancelled.
func (q *NotificationQueue) Subscribe(
	ctx context.Context,
	group string,
	handler func(ctx context.Context, messageID string, data []byte) error,
) error {
	err := q.rdb.XGroupCreateMkStream(ctx, notificationStream, group, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	consumerName := uuid.NewString()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			res, err := q.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
				Group:    group,
				Consumer: consumerName,
				Streams:  []string{notificationStream, ">"},
				Count:    16,
				Block:    2 * time.Second,
			}).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					q.log.Error("queue - subscribe - stream read failed", "err", err)
				}
				continue
			}
			for _, stream := range res {
				for _, msg := range stream.Messages {
					raw, ok := msg.Values["data"].(string)
					if !ok {
						continue
					}
					if err := handler(ctx, msg.ID, []byte(raw)); err != nil {
						q.log.Error("queue - subscribe - handler failed", "message_id", msg.ID, "err", err)
					}
				}
			}
		}
	}
}

func (q *NotificationQueue) Acknowledge(ctx context.Context, group, messageID string) error {
	return q.rdb.XAck(ctx, notificationStream, group, messageID).Err()
}

func (q *NotificationQueue) Delete(ctx context.Context, messageID string) error {
	return q.rdb.XDel(ctx, notificationStream, messageID).Err()
}
