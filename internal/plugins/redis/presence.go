package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const onlineKey = "presence:online"

// staleAfter bounds how long a crashed gateway can leave a user marked
// online in the mirror.
const staleAfter = 5 * time.Minute

// PresenceMirror exports online/offline state into a single ZSET scored by
// last-online timestamp, so the REST layer can render presence badges
// without asking the gateway. The in-process registry stays authoritative.
type PresenceMirror struct {
	rdb *redis.Client
}

func NewPresenceMirror(rdb *redis.Client) *PresenceMirror {
	return &PresenceMirror{
		rdb: rdb,
	}
}

// SetOnline adds or refreshes the user in the online set.
func (p *PresenceMirror) SetOnline(ctx context.Context, userID string) error {
	return p.rdb.ZAdd(ctx, onlineKey, redis.Z{
		Score:  float64(time.Now().Unix()),
		Member: userID,
	}).Err()
}

// SetOffline removes the user. Called when the last connection goes.
func (p *PresenceMirror) SetOffline(ctx context.Context, userID string) error {
	return p.rdb.ZRem(ctx, onlineKey, userID).Err()
}

// OnlineUsers prunes entries older than staleAfter, then returns the
// remaining members.
func (p *PresenceMirror) OnlineUsers(ctx context.Context) ([]string, error) {
	threshold := time.Now().Add(-staleAfter).Unix()
	p.rdb.ZRemRangeByScore(ctx, onlineKey, "-inf", strconv.FormatInt(threshold, 10))
	return p.rdb.ZRange(ctx, onlineKey, 0, -1).Result()
}
