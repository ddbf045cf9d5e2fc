// Package fraud scores the risk of a paid service request at checkout.
//
// Scoring is advisory: the assessment is stored next to the request for
// later review and never blocks the checkout on its own.
package fraud

import (
	"errors"

	"github.com/shopspring/decimal"
)

const MaxRiskScore = 100

var (
	ErrNonPositiveAmount    = errors.New("fraud signal amount must be positive")
	ErrNegativeAttemptCount = errors.New("fraud signal prior attempt count must not be negative")
)

// Signal is the observable state of one checkout attempt.
type Signal struct {
	HasEmail          bool            `json:"hasEmail"`
	Phone             string          `json:"phone,omitempty"`
	Address           string          `json:"address,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	IsNewUser         bool            `json:"isNewUser"`
	PriorAttemptCount int             `json:"priorAttemptCount"`
}

// Assessment is the bounded risk score and the flags that produced it.
type Assessment struct {
	RiskScore int      `json:"riskScore"`
	Flags     []string `json:"flags"`
}

// Level buckets the score for routing and logging.
func (a Assessment) Level() RiskLevel {
	return LevelFor(a.RiskScore)
}

// Scorer evaluates a fixed rule set. It is safe for concurrent use.
type Scorer struct {
	rules []Rule
}

var defaultScorer = NewScorer(DefaultRules(DefaultThresholds())...)

// NewScorer returns a Scorer evaluating rules in the given order.
func NewScorer(rules ...Rule) *Scorer {
	r := make([]Rule, len(rules))
	copy(r, rules)
	return &Scorer{rules: r}
}

// AssessFraudRisk scores signal with the default rules.
func AssessFraudRisk(signal Signal) Assessment {
	return defaultScorer.Assess(signal)
}

// Assess runs every rule; each one that applies adds its points and flag.
// The total is clamped to [0, MaxRiskScore].
func (s *Scorer) Assess(signal Signal) Assessment {
	score := 0
	flags := make([]string, 0, len(s.rules))

	for _, r := range s.rules {
		if !r.Applies(signal) {
			continue
		}
		score += r.Points
		flags = append(flags, r.Flag)
	}

	if score > MaxRiskScore {
		score = MaxRiskScore
	}
	if score < 0 {
		score = 0
	}

	return Assessment{RiskScore: score, Flags: flags}
}

// Rules returns a copy of the rules the scorer evaluates.
func (s *Scorer) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// ValidateSignal rejects signals that violate the checkout contract.
func ValidateSignal(signal Signal) error {
	if !signal.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if signal.PriorAttemptCount < 0 {
		return ErrNegativeAttemptCount
	}
	return nil
}
