// Package store persists fraud assessments and tracks payment attempts.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"marketplace-workers/internal/models"

	"github.com/lib/pq"
)

const (
	insertAssessment = `
		INSERT INTO fraud_assessments (id, request_id, user_id, risk_score, risk_level, flags, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	updateRequestRisk = `
		UPDATE service_requests
		SET risk_score = $2,
		    status = CASE WHEN $3::boolean THEN $4 ELSE status END
		WHERE id = $1`
)

type AssessmentStore struct {
	db *sql.DB
}

func NewAssessmentStore(db *sql.DB) *AssessmentStore {
	return &AssessmentStore{db: db}
}

// Save records the assessment and stamps the score on the service request in
// one transaction. flag marks the request for manual review. A request row
// that does not exist yet is not an error.
func (s *AssessmentStore) Save(ctx context.Context, a models.FraudAssessment, flag bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, insertAssessment,
		a.ID, a.RequestID, a.UserID, a.RiskScore, a.RiskLevel, pq.Array(a.Flags), a.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert fraud assessment: %w", err)
	}

	if _, err := tx.ExecContext(ctx, updateRequestRisk, a.RequestID, a.RiskScore, flag, models.RequestStatusFlagged); err != nil {
		return fmt.Errorf("update service request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
