// internal/workers/matching/rank-professionals/sources/cache.go
package sources

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"marketplace-workers/internal/common/logger"
	"marketplace-workers/internal/common/metrics"
	"marketplace-workers/internal/matching"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "professionals:category:"

func CacheKey(category string) string {
	return cacheKeyPrefix + category
}

// CachedSource serves category snapshots from Redis and falls back to next
// on a miss. Redis errors degrade to a miss and are only logged.
type CachedSource struct {
	next   ProfessionalSource
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedSource(next ProfessionalSource, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedSource {
	return &CachedSource{next: next, redis: rdb, ttl: ttl, logger: log}
}

func (s *CachedSource) ListByCategory(ctx context.Context, category string) ([]matching.Professional, error) {
	if category == "" {
		return nil, ErrEmptyCategory
	}
	key := CacheKey(category)

	val, err := s.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var pros []matching.Professional
		if jsonErr := json.Unmarshal([]byte(val), &pros); jsonErr == nil {
			metrics.ProfessionalCacheLookups.WithLabelValues("hit").Inc()
			return pros, nil
		}
		s.logger.Warn("discarding corrupt cache entry", map[string]interface{}{"key": key})
		metrics.ProfessionalCacheLookups.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		metrics.ProfessionalCacheLookups.WithLabelValues("miss").Inc()
	default:
		s.logger.Warn("cache read failed", map[string]interface{}{"key": key, "error": err})
		metrics.ProfessionalCacheLookups.WithLabelValues("error").Inc()
	}

	pros, err := s.next.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	if err := storeSnapshot(ctx, s.redis, category, pros, s.ttl); err != nil {
		s.logger.Warn("cache write failed", map[string]interface{}{"key": key, "error": err})
	}
	return pros, nil
}

func storeSnapshot(ctx context.Context, rdb *redis.Client, category string, pros []matching.Professional, ttl time.Duration) error {
	data, err := json.Marshal(pros)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, CacheKey(category), data, ttl).Err()
}
