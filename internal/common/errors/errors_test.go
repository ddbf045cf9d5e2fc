package errors

import (
	"fmt"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name            string
		err             *StandardError
		expectedCode    string
		expectedRetries int
	}{
		{
			name:            "business error never retries",
			err:             NewInvalidMatchCriteriaError("category is required"),
			expectedCode:    "INVALID_MATCH_CRITERIA",
			expectedRetries: 0,
		},
		{
			name:            "query failure retries three times",
			err:             NewQueryExecutionFailedError("professionals_by_category", fmt.Errorf("conn reset")),
			expectedCode:    "QUERY_EXECUTION_FAILED",
			expectedRetries: 3,
		},
		{
			name:            "search timeout retries twice",
			err:             NewSearchTimeoutError("professionals"),
			expectedCode:    "SEARCH_TIMEOUT",
			expectedRetries: 2,
		},
		{
			name:            "unmapped code falls back to raw code",
			err:             &StandardError{Code: "SOMETHING_NEW", Message: "new", Retryable: true},
			expectedCode:    "SOMETHING_NEW",
			expectedRetries: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmnErr := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.expectedCode, bpmnErr.Code)
			assert.Equal(t, tt.expectedRetries, bpmnErr.Retries)
			assert.Equal(t, string(tt.err.Code), bpmnErr.ErrorVariables["originalErrorCode"])

			vars := bpmnErr.ToErrorVariables()
			assert.Equal(t, tt.expectedCode, vars["errorCode"])
			assert.Equal(t, tt.err.Message, vars["errorMessage"])
		})
	}
}

func TestAsStandardError(t *testing.T) {
	wrapped := fmt.Errorf("load candidates: %w", NewSearchQueryFailedError("professionals", fmt.Errorf("503")))
	stdErr := AsStandardError(wrapped)
	assert.Equal(t, ErrCodeSearchQueryFailed, stdErr.Code)

	plain := AsStandardError(fmt.Errorf("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
	assert.False(t, plain.Retryable)
}

func TestRemainingRetries(t *testing.T) {
	job := func(retries int32) entities.Job {
		return entities.Job{ActivatedJob: &pb.ActivatedJob{Retries: retries}}
	}
	retryable := ConvertToBPMNError(NewDatabaseInsertFailedError("fraud_assessments", fmt.Errorf("deadlock")))
	require.Equal(t, 3, retryable.Retries)

	assert.Equal(t, int32(3), remainingRetries(job(5), retryable))
	assert.Equal(t, int32(1), remainingRetries(job(2), retryable))
	assert.Equal(t, int32(0), remainingRetries(job(0), retryable))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidFraudSignal))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeDatabaseInsertFailed))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryTimeout))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeIndexNotFound))
	assert.Equal(t, "CACHE", GetErrorCategory(ErrCodeCacheOperationFailed))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeNotificationSendFailed))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
	assert.True(t, IsRetryableErrorCode(ErrCodeCacheOperationFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeInvalidMatchCriteria))
}
