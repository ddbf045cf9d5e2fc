// internal/matching/factors.go
package matching

import "math"

// FactorFunc scores one aspect of a professional against the criteria.
// Implementations are pure and must return a value in [0,100].
type FactorFunc func(p *Professional, c *MatchCriteria, cal *Calibration) float64

// Factor is a named entry of the factor registry.
type Factor struct {
	Name  FactorName
	Score FactorFunc
}

// registry is evaluated in this order; the order also fixes the summation
// order of the weighted composite.
var registry = []Factor{
	{Name: FactorRating, Score: scoreRating},
	{Name: FactorDistance, Score: scoreDistance},
	{Name: FactorAvailability, Score: scoreAvailability},
	{Name: FactorExperience, Score: scoreExperience},
	{Name: FactorPrice, Score: scorePrice},
	{Name: FactorResponseTime, Score: scoreResponseTime},
	{Name: FactorCompletionRate, Score: scoreCompletionRate},
}

// Factors returns a copy of the factor registry.
func Factors() []Factor {
	out := make([]Factor, len(registry))
	copy(out, registry)
	return out
}

func lookupFactor(name FactorName) (Factor, bool) {
	for _, f := range registry {
		if f.Name == name {
			return f, true
		}
	}
	return Factor{}, false
}

// scoreRating separates quality (the star rating) from proof (review volume).
func scoreRating(p *Professional, _ *MatchCriteria, cal *Calibration) float64 {
	rating := clamp(p.Rating, 1, 5)
	quality := ((rating - 1) / 4) * cal.RatingScale

	reviews := math.Max(float64(p.TotalReviews), 0)
	volume := math.Min(reviews/cal.ReviewSaturation, 1) * cal.ReviewBonus

	return clampScore(quality + volume)
}

func scoreDistance(p *Professional, c *MatchCriteria, cal *Calibration) float64 {
	if p.Latitude == nil || p.Longitude == nil || c.Latitude == nil || c.Longitude == nil {
		return cal.NeutralScore
	}
	km := HaversineKm(*c.Latitude, *c.Longitude, *p.Latitude, *p.Longitude)
	return clampScore(distanceScore(km, cal))
}

func distanceScore(km float64, cal *Calibration) float64 {
	if math.IsNaN(km) {
		return cal.NeutralScore
	}
	return bracketAtMost(km, cal.DistanceBrackets, cal.DistanceFallback)
}

func scoreAvailability(p *Professional, _ *MatchCriteria, cal *Calibration) float64 {
	if !p.IsActive || !p.IsAvailable {
		return 0
	}
	score := cal.AvailabilityBase
	if p.IsVerified {
		score += cal.AvailabilityVerified
	}
	if p.IsPremium {
		score += cal.AvailabilityPremium
	}
	return clampScore(score)
}

func scoreExperience(p *Professional, _ *MatchCriteria, cal *Calibration) float64 {
	return clampScore(stepAtLeast(float64(p.YearsExperience), cal.ExperienceSteps, cal.ExperienceFloor))
}

// scorePrice rewards offerings at or under budget and penalises overage
// harder than underage.
func scorePrice(p *Professional, c *MatchCriteria, cal *Calibration) float64 {
	if c.Budget == nil || *c.Budget <= 0 || math.IsNaN(*c.Budget) || len(p.Offerings) == 0 {
		return cal.NeutralScore
	}
	ratio := meanPrice(p.Offerings) / *c.Budget
	if math.IsNaN(ratio) {
		return cal.NeutralScore
	}
	return clampScore(bracketAtMost(ratio, cal.PriceBrackets, cal.PriceFallback))
}

func meanPrice(offerings []Offering) float64 {
	total := 0.0
	for _, o := range offerings {
		total += math.Max(o.Price, 0)
	}
	return total / float64(len(offerings))
}

func scoreResponseTime(p *Professional, _ *MatchCriteria, cal *Calibration) float64 {
	return clampScore(stepAtLeast(float64(p.TotalJobsCompleted), cal.ResponseTimeSteps, cal.ResponseTimeFloor))
}

func scoreCompletionRate(p *Professional, _ *MatchCriteria, cal *Calibration) float64 {
	score := cal.CompletionBase
	if p.IsVerified {
		score += cal.CompletionVerified
	}
	if p.IsPremium {
		score += cal.CompletionPremium
	}
	return clampScore(score)
}
