// internal/fraud/rules.go
package fraud

import "github.com/shopspring/decimal"

// Rule is one independent heuristic. Rules never exclude each other.
type Rule struct {
	Name    string
	Points  int
	Flag    string
	Applies func(Signal) bool
}

// Thresholds parameterises the default rule set.
type Thresholds struct {
	NewUserHighAmount decimal.Decimal
	UnusualAmount     decimal.Decimal
	MaxPriorAttempts  int
}

// DefaultThresholds returns the production thresholds. Amounts are in the
// marketplace currency's major unit.
func DefaultThresholds() Thresholds {
	return Thresholds{
		NewUserHighAmount: decimal.NewFromInt(50000),
		UnusualAmount:     decimal.NewFromInt(100000),
		MaxPriorAttempts:  3,
	}
}

const (
	RuleFirstOrderHighAmount = "first_order_high_amount"
	RuleMultipleAttempts     = "multiple_payment_attempts"
	RuleNoEmail              = "no_email"
	RuleUnusualAmount        = "unusually_high_amount"
)

// DefaultRules builds the checkout rule set. Order fixes the flag order.
func DefaultRules(th Thresholds) []Rule {
	return []Rule{
		{
			Name:   RuleFirstOrderHighAmount,
			Points: 20,
			Flag:   "first order with high amount",
			Applies: func(s Signal) bool {
				return s.IsNewUser && s.Amount.GreaterThan(th.NewUserHighAmount)
			},
		},
		{
			Name:   RuleMultipleAttempts,
			Points: 30,
			Flag:   "multiple payment attempts",
			Applies: func(s Signal) bool {
				return s.PriorAttemptCount > th.MaxPriorAttempts
			},
		},
		{
			Name:   RuleNoEmail,
			Points: 10,
			Flag:   "no email registered",
			Applies: func(s Signal) bool {
				return !s.HasEmail
			},
		},
		{
			Name:   RuleUnusualAmount,
			Points: 15,
			Flag:   "unusually high amount",
			Applies: func(s Signal) bool {
				return s.Amount.GreaterThan(th.UnusualAmount)
			},
		},
	}
}
