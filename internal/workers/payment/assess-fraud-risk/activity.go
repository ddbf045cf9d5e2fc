package assessfraudrisk

import (
	"marketplace-workers/internal/common/errors"
	"marketplace-workers/pkg/registry"
)

var Activity = registry.Definition{
	TaskType:    TaskType,
	DisplayName: "Assess fraud risk",
	Description: "Scores a checkout attempt, stores the assessment and alerts operations above the alert threshold.",
	Category:    "payment",
	InputSchema: inputSchema,
	ErrorCodes: []string{
		string(errors.ErrCodeInvalidFraudSignal),
		string(errors.ErrCodeCacheOperationFailed),
		string(errors.ErrCodeDatabaseInsertFailed),
	},
}
