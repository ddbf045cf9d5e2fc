// internal/matching/normalize.go
package matching

import "math"

const (
	MinScore = 0.0
	MaxScore = 100.0
)

// clampScore bounds v to [0,100]. NaN collapses to 0 so a malformed input
// can never leak out of a factor.
func clampScore(v float64) float64 {
	return clamp(v, MinScore, MaxScore)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}

// stepAtLeast walks a descending table and returns the score of the first
// step whose Min is <= v.
func stepAtLeast(v float64, steps []Step, floor float64) float64 {
	for _, s := range steps {
		if v >= s.Min {
			return s.Score
		}
	}
	return floor
}

// bracketAtMost walks an ascending table and returns the score of the first
// bracket whose Max is >= v.
func bracketAtMost(v float64, brackets []Bracket, fallback float64) float64 {
	for _, b := range brackets {
		if v <= b.Max {
			return b.Score
		}
	}
	return fallback
}
