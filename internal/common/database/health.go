// internal/common/database/health.go
package database

import (
	"context"
	"time"
)

// Checker is a backing store the readiness probe can ping.
type Checker interface {
	Name() string
	Ping(ctx context.Context) error
}

// CheckAll pings every checker with a shared timeout and returns the error
// message per failing store, keyed by name. An empty map means ready.
func CheckAll(ctx context.Context, timeout time.Duration, checkers ...Checker) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	failures := make(map[string]string)
	for _, c := range checkers {
		if err := c.Ping(ctx); err != nil {
			failures[c.Name()] = err.Error()
		}
	}
	return failures
}
