// internal/matching/types.go
package matching

import "slices"

// Offering is a priced service a professional sells.
type Offering struct {
	ID    string  `json:"id"`
	Title string  `json:"title,omitempty"`
	Price float64 `json:"price"`
}

// Professional is a read-only snapshot of a candidate supplied per matching request.
type Professional struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name,omitempty"`
	Rating             float64    `json:"rating"`
	TotalReviews       int        `json:"totalReviews"`
	TotalJobsCompleted int        `json:"totalJobsCompleted"`
	YearsExperience    int        `json:"yearsExperience"`
	IsActive           bool       `json:"isActive"`
	IsAvailable        bool       `json:"isAvailable"`
	IsVerified         bool       `json:"isVerified"`
	IsPremium          bool       `json:"isPremium"`
	Latitude           *float64   `json:"latitude,omitempty"`
	Longitude          *float64   `json:"longitude,omitempty"`
	ServiceCategories  []string   `json:"serviceCategories"`
	Offerings          []Offering `json:"offerings,omitempty"`
}

// clone returns a copy of p that shares no slices or pointers with it.
func (p *Professional) clone() Professional {
	out := *p
	out.ServiceCategories = slices.Clone(p.ServiceCategories)
	out.Offerings = slices.Clone(p.Offerings)
	if p.Latitude != nil {
		lat := *p.Latitude
		out.Latitude = &lat
	}
	if p.Longitude != nil {
		lon := *p.Longitude
		out.Longitude = &lon
	}
	return out
}

// Urgency of a client request.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// MatchCriteria is the client-side query driving a match.
type MatchCriteria struct {
	Category          string   `json:"category"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
	Budget            *float64 `json:"budget,omitempty"`
	Urgency           Urgency  `json:"urgency,omitempty"`
	RequestedDate     string   `json:"requestedDate,omitempty"`
	PreferredTimeSlot string   `json:"preferredTimeSlot,omitempty"`
}

// FactorName identifies one of the seven match factors.
type FactorName string

const (
	FactorRating         FactorName = "rating"
	FactorDistance       FactorName = "distance"
	FactorAvailability   FactorName = "availability"
	FactorExperience     FactorName = "experience"
	FactorPrice          FactorName = "price"
	FactorResponseTime   FactorName = "responseTime"
	FactorCompletionRate FactorName = "completionRate"
)

// FactorScores is the per-factor breakdown of a match, each value in [0,100].
type FactorScores struct {
	Rating         float64 `json:"rating"`
	Distance       float64 `json:"distance"`
	Availability   float64 `json:"availability"`
	Experience     float64 `json:"experience"`
	Price          float64 `json:"price"`
	ResponseTime   float64 `json:"responseTime"`
	CompletionRate float64 `json:"completionRate"`
}

// Get returns the score recorded for name, or 0 for an unknown factor.
func (f FactorScores) Get(name FactorName) float64 {
	switch name {
	case FactorRating:
		return f.Rating
	case FactorDistance:
		return f.Distance
	case FactorAvailability:
		return f.Availability
	case FactorExperience:
		return f.Experience
	case FactorPrice:
		return f.Price
	case FactorResponseTime:
		return f.ResponseTime
	case FactorCompletionRate:
		return f.CompletionRate
	}
	return 0
}

func (f *FactorScores) set(name FactorName, v float64) {
	switch name {
	case FactorRating:
		f.Rating = v
	case FactorDistance:
		f.Distance = v
	case FactorAvailability:
		f.Availability = v
	case FactorExperience:
		f.Experience = v
	case FactorPrice:
		f.Price = v
	case FactorResponseTime:
		f.ResponseTime = v
	case FactorCompletionRate:
		f.CompletionRate = v
	}
}

// MatchResult is the immutable score of one professional against one criteria.
type MatchResult struct {
	Professional Professional `json:"professional"`
	TotalScore   float64      `json:"totalScore"`
	FactorScores FactorScores `json:"factorScores"`
	Explanations []string     `json:"explanations"`
}
