package sources

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace-workers/internal/common/logger"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// Warmer rewrites the cached snapshot of a fixed set of categories from the
// underlying source, so busy categories rarely miss.
type Warmer struct {
	source     ProfessionalSource
	redis      *redis.Client
	ttl        time.Duration
	categories []string
	timeout    time.Duration
	logger     logger.Logger
}

// NewWarmer takes the uncached source. Wrapping it in CachedSource would
// just read the snapshot back.
func NewWarmer(source ProfessionalSource, rdb *redis.Client, ttl time.Duration, categories []string, log logger.Logger) *Warmer {
	return &Warmer{
		source:     source,
		redis:      rdb,
		ttl:        ttl,
		categories: append([]string(nil), categories...),
		timeout:    30 * time.Second,
		logger:     log.WithFields(map[string]interface{}{"component": "cache-warmer"}),
	}
}

// Warm refreshes every category and returns how many were written. One
// failing category does not stop the others.
func (w *Warmer) Warm(ctx context.Context) (int, error) {
	var (
		warmed int
		errs   []error
	)
	for _, category := range w.categories {
		pros, err := w.source.ListByCategory(ctx, category)
		if err == nil {
			err = storeSnapshot(ctx, w.redis, category, pros, w.ttl)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", category, err))
			continue
		}
		warmed++
	}
	return warmed, errors.Join(errs...)
}

// Schedule registers Warm on c under a standard cron spec or descriptor
// such as "@every 5m".
func (w *Warmer) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	id, err := c.AddFunc(spec, w.run)
	if err != nil {
		return 0, fmt.Errorf("schedule cache warmer %q: %w", spec, err)
	}
	w.logger.Info("cache warmer scheduled", map[string]interface{}{
		"schedule":   spec,
		"categories": w.categories,
	})
	return id, nil
}

func (w *Warmer) run() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	start := time.Now()
	warmed, err := w.Warm(ctx)
	fields := map[string]interface{}{
		"warmed":     warmed,
		"categories": len(w.categories),
		"durationMs": time.Since(start).Milliseconds(),
	}
	if err != nil {
		fields["error"] = err
		w.logger.Warn("cache warm incomplete", fields)
		return
	}
	w.logger.Debug("cache warmed", fields)
}
