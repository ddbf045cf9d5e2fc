// internal/models/fraud_assessment.go
package models

import "time"

// FraudAssessment is the persisted outcome of one checkout risk check.
type FraudAssessment struct {
	ID        string    `json:"id"`
	RequestID string    `json:"requestId"`
	UserID    string    `json:"userId"`
	RiskScore int       `json:"riskScore"`
	RiskLevel string    `json:"riskLevel"`
	Flags     []string  `json:"flags"`
	CreatedAt time.Time `json:"createdAt"`
}

// RiskAlert is the payload published to the risk alert topic.
type RiskAlert struct {
	AssessmentID string   `json:"assessmentId"`
	RequestID    string   `json:"requestId"`
	UserID       string   `json:"userId"`
	RiskScore    int      `json:"riskScore"`
	RiskLevel    string   `json:"riskLevel"`
	Flags        []string `json:"flags"`
	Amount       string   `json:"amount"`
	AssessedAt   string   `json:"assessedAt"`
}
