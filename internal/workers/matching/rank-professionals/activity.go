package rankprofessionals

import (
	"marketplace-workers/internal/common/errors"
	"marketplace-workers/pkg/registry"
)

var Activity = registry.Definition{
	TaskType:    TaskType,
	DisplayName: "Rank professionals",
	Description: "Scores eligible professionals for a service request and returns them best first with per-factor explanations.",
	Category:    "matching",
	InputSchema: inputSchema,
	ErrorCodes: []string{
		string(errors.ErrCodeInvalidMatchCriteria),
		string(errors.ErrCodeQueryExecutionFailed),
		string(errors.ErrCodeQueryTimeout),
		string(errors.ErrCodeSearchQueryFailed),
		string(errors.ErrCodeSearchTimeout),
		string(errors.ErrCodeIndexNotFound),
	},
}
