// internal/models/service_request.go
package models

// service_requests.status values written by the workers.
const (
	RequestStatusPending = "pending"
	RequestStatusFlagged = "flagged"
)

// RankedProfessional is the wire shape of one ranking entry handed back to
// the process.
type RankedProfessional struct {
	ProfessionalID string             `json:"professionalId"`
	Name           string             `json:"name,omitempty"`
	Rank           int                `json:"rank"`
	TotalScore     float64            `json:"totalScore"`
	FactorScores   map[string]float64 `json:"factorScores"`
	Explanations   []string           `json:"explanations"`
}
