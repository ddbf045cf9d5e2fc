// internal/workers/payment/assess-fraud-risk/store/attempts.go
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const attemptKeyPrefix = "payment:attempts:"

func AttemptKey(userID string) string {
	return attemptKeyPrefix + userID
}

// AttemptCounter counts payment attempts per user in a fixed window that
// starts at the first attempt.
type AttemptCounter struct {
	redis  *redis.Client
	window time.Duration
}

func NewAttemptCounter(rdb *redis.Client, window time.Duration) *AttemptCounter {
	return &AttemptCounter{redis: rdb, window: window}
}

// Record registers one attempt and returns how many came before it. The
// window TTL is sent with every increment and only applied when the key has
// none, so a lost EXPIRE is repaired by the next attempt.
func (c *AttemptCounter) Record(ctx context.Context, userID string) (int, error) {
	key := AttemptKey(userID)

	var incr *redis.IntCmd
	_, err := c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, c.window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("record attempt %s: %w", key, err)
	}
	return int(incr.Val() - 1), nil
}
