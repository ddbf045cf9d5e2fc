// Package sources loads professional snapshots for the ranking worker from
// Postgres or Elasticsearch, optionally behind a Redis cache.
package sources

import (
	"context"
	"errors"

	"marketplace-workers/internal/matching"
)

var ErrEmptyCategory = errors.New("category is required")

// ProfessionalSource returns the professionals offering a service category.
// Eligibility (active, available) is left to the scorer.
type ProfessionalSource interface {
	ListByCategory(ctx context.Context, category string) ([]matching.Professional, error)
}
