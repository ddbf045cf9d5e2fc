// internal/matching/calibration.go
package matching

import (
	"fmt"
	"math"
	"strings"
)

// Step maps "value >= Min" to Score. Tables are ordered by descending Min.
type Step struct {
	Min   float64
	Score float64
}

// Bracket maps "value <= Max" to Score. Tables are ordered by ascending Max.
type Bracket struct {
	Max   float64
	Score float64
}

// Calibration holds every tunable constant of the match scorer. The values
// returned by DefaultCalibration are hand-tuned and kept for compatibility
// with scores already shown to clients.
type Calibration struct {
	Weights map[FactorName]float64

	// Score used when an optional input (location, budget, offerings) is absent.
	NeutralScore float64

	RatingScale      float64 // points for a perfect 5.0 rating
	ReviewBonus      float64 // points for a saturated review count
	ReviewSaturation float64 // reviews needed for the full bonus

	DistanceBrackets []Bracket // kilometres
	DistanceFallback float64

	AvailabilityBase     float64
	AvailabilityVerified float64
	AvailabilityPremium  float64

	ExperienceSteps []Step // years
	ExperienceFloor float64

	PriceBrackets []Bracket // mean offering price / budget
	PriceFallback float64

	// ResponseTime and CompletionRate are proxies until response and
	// completion telemetry is recorded per professional.
	ResponseTimeSteps []Step // jobs completed
	ResponseTimeFloor float64

	CompletionBase     float64
	CompletionVerified float64
	CompletionPremium  float64

	// Explanation thresholds.
	NotableFactorScore float64
	NotableJobCount    int
}

// DefaultCalibration returns the production calibration.
func DefaultCalibration() Calibration {
	return Calibration{
		Weights: map[FactorName]float64{
			FactorRating:         0.25,
			FactorDistance:       0.20,
			FactorAvailability:   0.15,
			FactorExperience:     0.15,
			FactorPrice:          0.10,
			FactorResponseTime:   0.10,
			FactorCompletionRate: 0.05,
		},
		NeutralScore: 50,

		RatingScale:      80,
		ReviewBonus:      20,
		ReviewSaturation: 50,

		DistanceBrackets: []Bracket{
			{Max: 10, Score: 100},
			{Max: 25, Score: 75},
			{Max: 50, Score: 50},
		},
		DistanceFallback: 25,

		AvailabilityBase:     70,
		AvailabilityVerified: 15,
		AvailabilityPremium:  15,

		ExperienceSteps: []Step{
			{Min: 10, Score: 100},
			{Min: 5, Score: 80},
			{Min: 3, Score: 60},
			{Min: 1, Score: 40},
		},
		ExperienceFloor: 20,

		PriceBrackets: []Bracket{
			{Max: 0.5, Score: 100},
			{Max: 0.8, Score: 90},
			{Max: 1.0, Score: 80},
			{Max: 1.2, Score: 60},
			{Max: 1.5, Score: 40},
		},
		PriceFallback: 20,

		ResponseTimeSteps: []Step{
			{Min: 100, Score: 100},
			{Min: 50, Score: 80},
			{Min: 20, Score: 60},
			{Min: 5, Score: 40},
		},
		ResponseTimeFloor: 20,

		CompletionBase:     70,
		CompletionVerified: 20,
		CompletionPremium:  10,

		NotableFactorScore: 80,
		NotableJobCount:    50,
	}
}

// WithWeights returns a copy of c with the given weights merged over the
// existing ones.
func (c Calibration) WithWeights(weights map[FactorName]float64) Calibration {
	merged := make(map[FactorName]float64, len(c.Weights))
	for k, v := range c.Weights {
		merged[k] = v
	}
	for k, v := range weights {
		merged[k] = v
	}
	c.Weights = merged
	return c
}

// ParseWeights resolves configuration keys to factor names ignoring case,
// since config loaders lowercase map keys ("responsetime").
func ParseWeights(raw map[string]float64) (map[FactorName]float64, error) {
	out := make(map[FactorName]float64, len(raw))
	for key, w := range raw {
		name, ok := ParseFactorName(key)
		if !ok {
			return nil, fmt.Errorf("weight for unknown factor %q", key)
		}
		out[name] = w
	}
	return out, nil
}

// ParseFactorName matches s against the registered factor names ignoring case.
func ParseFactorName(s string) (FactorName, bool) {
	for _, f := range registry {
		if strings.EqualFold(string(f.Name), s) {
			return f.Name, true
		}
	}
	return "", false
}

const weightTolerance = 1e-9

// Validate checks that every registered factor has a non-negative weight and
// that the weights sum to 1.
func (c Calibration) Validate() error {
	sum := 0.0
	for _, f := range registry {
		w, ok := c.Weights[f.Name]
		if !ok {
			return fmt.Errorf("missing weight for factor %q", f.Name)
		}
		if w < 0 || math.IsNaN(w) {
			return fmt.Errorf("invalid weight %v for factor %q", w, f.Name)
		}
		sum += w
	}
	for name := range c.Weights {
		if _, ok := lookupFactor(name); !ok {
			return fmt.Errorf("weight for unknown factor %q", name)
		}
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("factor weights sum to %v, want 1.0", sum)
	}
	if c.ReviewSaturation <= 0 {
		return fmt.Errorf("review saturation must be positive, got %v", c.ReviewSaturation)
	}
	return nil
}

// WeightSum returns the sum of the weights of all registered factors.
func (c Calibration) WeightSum() float64 {
	sum := 0.0
	for _, f := range registry {
		sum += c.Weights[f.Name]
	}
	return sum
}
