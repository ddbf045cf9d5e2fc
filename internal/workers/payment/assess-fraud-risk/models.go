package assessfraudrisk

import (
	"marketplace-workers/internal/fraud"

	"github.com/shopspring/decimal"
)

type Input struct {
	RequestID string      `json:"requestId"`
	UserID    string      `json:"userId"`
	Signal    SignalInput `json:"signal"`
}

// SignalInput is fraud.Signal with an optional attempt count. When the
// process does not supply one the worker records the attempt in Redis and
// uses the count seen before it.
type SignalInput struct {
	HasEmail          bool            `json:"hasEmail"`
	Phone             string          `json:"phone,omitempty"`
	Address           string          `json:"address,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	IsNewUser         bool            `json:"isNewUser"`
	PriorAttemptCount *int            `json:"priorAttemptCount,omitempty"`
}

func (s SignalInput) toSignal(priorAttempts int) fraud.Signal {
	return fraud.Signal{
		HasEmail:          s.HasEmail,
		Phone:             s.Phone,
		Address:           s.Address,
		Amount:            s.Amount,
		IsNewUser:         s.IsNewUser,
		PriorAttemptCount: priorAttempts,
	}
}

type Output struct {
	AssessmentID string   `json:"assessmentId"`
	RiskScore    int      `json:"riskScore"`
	RiskLevel    string   `json:"riskLevel"`
	Flags        []string `json:"flags"`
	AlertSent    bool     `json:"alertSent"`
}

const inputSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["requestId", "userId", "signal"],
	"properties": {
		"requestId": {"type": "string", "minLength": 1},
		"userId": {"type": "string", "minLength": 1},
		"signal": {
			"type": "object",
			"required": ["amount"],
			"properties": {
				"hasEmail": {"type": "boolean"},
				"phone": {"type": "string"},
				"address": {"type": "string"},
				"amount": {
					"oneOf": [
						{"type": "number", "exclusiveMinimum": 0},
						{"type": "string", "pattern": "^[0-9]+(\\.[0-9]+)?$"}
					]
				},
				"isNewUser": {"type": "boolean"},
				"priorAttemptCount": {"type": ["integer", "null"], "minimum": 0}
			}
		}
	}
}`
