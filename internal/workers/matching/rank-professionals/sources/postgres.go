// internal/workers/matching/rank-professionals/sources/postgres.go
package sources

import (
	"context"
	"database/sql"
	"fmt"

	"marketplace-workers/internal/matching"

	"github.com/lib/pq"
)

const (
	queryProfessionalsByCategory = `
		SELECT id, name, rating, total_reviews, completed_jobs, years_experience,
		       is_active, is_available, is_verified, is_premium,
		       latitude, longitude, categories
		FROM professionals
		WHERE $1 = ANY(categories)
		ORDER BY id`

	queryOfferingsByProfessional = `
		SELECT professional_id, id, title, price
		FROM professional_offerings
		WHERE professional_id = ANY($1)
		ORDER BY professional_id, id`
)

type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) ListByCategory(ctx context.Context, category string) ([]matching.Professional, error) {
	if category == "" {
		return nil, ErrEmptyCategory
	}

	rows, err := s.db.QueryContext(ctx, queryProfessionalsByCategory, category)
	if err != nil {
		return nil, fmt.Errorf("query professionals: %w", err)
	}
	defer rows.Close()

	var (
		pros  []matching.Professional
		ids   []string
		index = make(map[string]int)
	)
	for rows.Next() {
		var p matching.Professional
		var lat, lon sql.NullFloat64
		var categories pq.StringArray
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Rating, &p.TotalReviews, &p.TotalJobsCompleted, &p.YearsExperience,
			&p.IsActive, &p.IsAvailable, &p.IsVerified, &p.IsPremium,
			&lat, &lon, &categories,
		); err != nil {
			return nil, fmt.Errorf("scan professional: %w", err)
		}
		if lat.Valid {
			p.Latitude = &lat.Float64
		}
		if lon.Valid {
			p.Longitude = &lon.Float64
		}
		p.ServiceCategories = []string(categories)

		index[p.ID] = len(pros)
		ids = append(ids, p.ID)
		pros = append(pros, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate professionals: %w", err)
	}
	if len(pros) == 0 {
		return []matching.Professional{}, nil
	}

	if err := s.attachOfferings(ctx, pros, ids, index); err != nil {
		return nil, err
	}
	return pros, nil
}

func (s *PostgresSource) attachOfferings(ctx context.Context, pros []matching.Professional, ids []string, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx, queryOfferingsByProfessional, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("query offerings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var professionalID string
		var o matching.Offering
		if err := rows.Scan(&professionalID, &o.ID, &o.Title, &o.Price); err != nil {
			return fmt.Errorf("scan offering: %w", err)
		}
		if i, ok := index[professionalID]; ok {
			pros[i].Offerings = append(pros[i].Offerings, o)
		}
	}
	return rows.Err()
}
