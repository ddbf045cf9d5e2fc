package rankprofessionals

import (
	"marketplace-workers/internal/matching"
	"marketplace-workers/internal/models"
)

type Input struct {
	RequestID  string                  `json:"requestId"`
	Criteria   matching.MatchCriteria  `json:"criteria"`
	Candidates []matching.Professional `json:"candidates,omitempty"`
	MaxResults int                     `json:"maxResults,omitempty"`
}

type Output struct {
	RequestID           string                      `json:"requestId"`
	RankedProfessionals []models.RankedProfessional `json:"rankedProfessionals"`
	TotalCandidates     int                         `json:"totalCandidates"`
	EligibleCount       int                         `json:"eligibleCount"`
	CandidateSource     string                      `json:"candidateSource"`
}

const inputSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["requestId", "criteria"],
	"properties": {
		"requestId": {"type": "string", "minLength": 1},
		"criteria": {
			"type": "object",
			"required": ["category"],
			"properties": {
				"category": {"type": "string", "minLength": 1},
				"latitude": {"type": ["number", "null"], "minimum": -90, "maximum": 90},
				"longitude": {"type": ["number", "null"], "minimum": -180, "maximum": 180},
				"budget": {"type": ["number", "null"]},
				"urgency": {"type": "string", "enum": ["", "low", "medium", "high"]},
				"requestedDate": {"type": "string"},
				"preferredTimeSlot": {"type": "string"}
			}
		},
		"candidates": {
			"type": ["array", "null"],
			"items": {
				"type": "object",
				"required": ["id"],
				"properties": {
					"id": {"type": "string"},
					"rating": {"type": "number"},
					"serviceCategories": {"type": ["array", "null"], "items": {"type": "string"}}
				}
			}
		},
		"maxResults": {"type": "integer", "minimum": 0}
	}
}`
