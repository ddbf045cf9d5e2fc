// internal/fraud/scorer_test.go
package fraud

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestAssessFraudRisk(t *testing.T) {
	tests := []struct {
		name          string
		signal        Signal
		expectedScore int
		expectedFlags []string
	}{
		{
			name:          "clean returning customer",
			signal:        Signal{HasEmail: true, Amount: amount(12000)},
			expectedScore: 0,
			expectedFlags: []string{},
		},
		{
			name:          "new user high amount without email",
			signal:        Signal{IsNewUser: true, Amount: amount(60000), HasEmail: false},
			expectedScore: 30,
			expectedFlags: []string{"first order with high amount", "no email registered"},
		},
		{
			name:          "new user exactly on threshold",
			signal:        Signal{IsNewUser: true, Amount: amount(50000), HasEmail: true},
			expectedScore: 0,
			expectedFlags: []string{},
		},
		{
			name:          "three prior attempts is tolerated",
			signal:        Signal{HasEmail: true, Amount: amount(100), PriorAttemptCount: 3},
			expectedScore: 0,
			expectedFlags: []string{},
		},
		{
			name:          "four prior attempts",
			signal:        Signal{HasEmail: true, Amount: amount(100), PriorAttemptCount: 4},
			expectedScore: 30,
			expectedFlags: []string{"multiple payment attempts"},
		},
		{
			name:          "unusual amount for returning user",
			signal:        Signal{HasEmail: true, Amount: decimal.RequireFromString("100000.01")},
			expectedScore: 15,
			expectedFlags: []string{"unusually high amount"},
		},
		{
			name:          "every rule fires",
			signal:        Signal{IsNewUser: true, Amount: amount(250000), PriorAttemptCount: 7},
			expectedScore: 75,
			expectedFlags: []string{
				"first order with high amount",
				"multiple payment attempts",
				"no email registered",
				"unusually high amount",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssessFraudRisk(tt.signal)
			assert.Equal(t, tt.expectedScore, got.RiskScore)
			assert.Equal(t, tt.expectedFlags, got.Flags)
		})
	}
}

func TestScorer_ScoreIsCapped(t *testing.T) {
	always := func(Signal) bool { return true }
	rules := append(DefaultRules(DefaultThresholds()),
		Rule{Name: "velocity", Points: 40, Flag: "velocity spike", Applies: always},
	)
	scorer := NewScorer(rules...)

	got := scorer.Assess(Signal{IsNewUser: true, Amount: amount(250000), PriorAttemptCount: 9})

	assert.Equal(t, MaxRiskScore, got.RiskScore)
	assert.Len(t, got.Flags, 5)
	assert.Equal(t, "velocity spike", got.Flags[4])
}

func TestScorer_NegativeRulesFloorAtZero(t *testing.T) {
	scorer := NewScorer(Rule{Name: "trusted", Points: -40, Flag: "trusted device", Applies: func(Signal) bool { return true }})

	got := scorer.Assess(Signal{HasEmail: true, Amount: amount(10)})
	assert.Equal(t, 0, got.RiskScore)
	assert.Equal(t, []string{"trusted device"}, got.Flags)
}

func TestScorer_RulesIsACopy(t *testing.T) {
	scorer := NewScorer(DefaultRules(DefaultThresholds())...)
	rules := scorer.Rules()
	require.Len(t, rules, 4)

	rules[0].Points = 1000
	assert.Equal(t, 20, scorer.Rules()[0].Points)
}

func TestAssessFraudRisk_Deterministic(t *testing.T) {
	signal := Signal{IsNewUser: true, Amount: amount(70000), PriorAttemptCount: 5}
	assert.Equal(t, AssessFraudRisk(signal), AssessFraudRisk(signal))
}

func TestValidateSignal(t *testing.T) {
	assert.NoError(t, ValidateSignal(Signal{Amount: amount(1)}))
	assert.ErrorIs(t, ValidateSignal(Signal{Amount: amount(0)}), ErrNonPositiveAmount)
	assert.ErrorIs(t, ValidateSignal(Signal{Amount: amount(-5)}), ErrNonPositiveAmount)
	assert.ErrorIs(t, ValidateSignal(Signal{Amount: amount(5), PriorAttemptCount: -1}), ErrNegativeAttemptCount)
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, RiskLevelLow, LevelFor(0))
	assert.Equal(t, RiskLevelLow, LevelFor(29))
	assert.Equal(t, RiskLevelMedium, LevelFor(30))
	assert.Equal(t, RiskLevelMedium, LevelFor(59))
	assert.Equal(t, RiskLevelHigh, LevelFor(60))
	assert.Equal(t, RiskLevelHigh, Assessment{RiskScore: 100}.Level())
}

func TestSignal_DecodesNumericAmount(t *testing.T) {
	var s Signal
	require.NoError(t, json.Unmarshal([]byte(`{"hasEmail":true,"amount":60000.50,"isNewUser":true,"priorAttemptCount":2}`), &s))

	assert.True(t, s.Amount.Equal(decimal.RequireFromString("60000.5")))
	assert.Equal(t, 2, s.PriorAttemptCount)
	assert.Equal(t, []string{"first order with high amount"}, AssessFraudRisk(s).Flags)
}
