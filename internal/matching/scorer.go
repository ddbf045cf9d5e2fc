// internal/matching/scorer.go
package matching

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEmptyCategory  = errors.New("match criteria category is required")
	ErrInvalidBudget  = errors.New("match criteria budget must be positive")
	ErrInvalidUrgency = errors.New("match criteria urgency must be low, medium or high")
)

// Scorer ranks professionals with a fixed calibration. It holds no mutable
// state and is safe for concurrent use.
type Scorer struct {
	cal Calibration
}

var defaultScorer = &Scorer{cal: DefaultCalibration()}

// NewScorer validates cal and returns a Scorer using it.
func NewScorer(cal Calibration) (*Scorer, error) {
	if err := cal.Validate(); err != nil {
		return nil, fmt.Errorf("invalid calibration: %w", err)
	}
	return &Scorer{cal: cal}, nil
}

// DefaultScorer returns the Scorer backed by DefaultCalibration.
func DefaultScorer() *Scorer {
	return defaultScorer
}

// Calibration returns the calibration in use.
func (s *Scorer) Calibration() Calibration {
	return s.cal
}

// RankProfessionals ranks candidates against criteria with the default calibration.
func RankProfessionals(candidates []Professional, criteria MatchCriteria) []MatchResult {
	return defaultScorer.Rank(candidates, criteria)
}

// Rank drops ineligible candidates, scores the rest and returns them ordered
// by descending total score. Equal scores keep their input order.
func (s *Scorer) Rank(candidates []Professional, criteria MatchCriteria) []MatchResult {
	results := make([]MatchResult, 0, len(candidates))
	for i := range candidates {
		if !IsEligible(&candidates[i], criteria.Category) {
			continue
		}
		results = append(results, s.score(&candidates[i], &criteria))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalScore > results[j].TotalScore
	})

	return results
}

// Score computes the match of a single professional without the eligibility
// filter.
func (s *Scorer) Score(p Professional, criteria MatchCriteria) MatchResult {
	return s.score(&p, &criteria)
}

func (s *Scorer) score(p *Professional, c *MatchCriteria) MatchResult {
	var factors FactorScores
	total := 0.0
	for _, f := range registry {
		v := clampScore(f.Score(p, c, &s.cal))
		factors.set(f.Name, v)
		total += v * s.cal.Weights[f.Name]
	}

	return MatchResult{
		Professional: p.clone(),
		TotalScore:   clampScore(total),
		FactorScores: factors,
		Explanations: explain(p, factors, &s.cal),
	}
}

// IsEligible reports whether p offers category and can take work right now.
func IsEligible(p *Professional, category string) bool {
	if !p.IsActive || !p.IsAvailable || category == "" {
		return false
	}
	for _, c := range p.ServiceCategories {
		if c == category {
			return true
		}
	}
	return false
}

// ValidateCriteria rejects criteria the caller should never send.
func ValidateCriteria(c MatchCriteria) error {
	if strings.TrimSpace(c.Category) == "" {
		return ErrEmptyCategory
	}
	if c.Budget != nil && *c.Budget <= 0 {
		return ErrInvalidBudget
	}
	switch c.Urgency {
	case "", UrgencyLow, UrgencyMedium, UrgencyHigh:
	default:
		return ErrInvalidUrgency
	}
	return nil
}
