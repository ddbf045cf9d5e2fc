package rankprofessionals

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"
	"time"

	commonerrors "marketplace-workers/internal/common/errors"
	"marketplace-workers/internal/common/logger"
	"marketplace-workers/internal/matching"
	"marketplace-workers/internal/workers/matching/rank-professionals/sources"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Helpers
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:    5 * time.Second,
		MaxResults: 3,
		SourceName: "postgres",
	}
}

func ptr(v float64) *float64 { return &v }

func createTestProfessional(id string, rating float64, jobs int) matching.Professional {
	return matching.Professional{
		ID:                 id,
		Rating:             rating,
		TotalReviews:       jobs / 2,
		TotalJobsCompleted: jobs,
		YearsExperience:    jobs / 10,
		IsActive:           true,
		IsAvailable:        true,
		ServiceCategories:  []string{"plumbing"},
	}
}

type fakeSource struct {
	pros     []matching.Professional
	err      error
	category string
}

func (f *fakeSource) ListByCategory(_ context.Context, category string) ([]matching.Professional, error) {
	f.category = category
	return f.pros, f.err
}

func newTestHandler(t *testing.T, source sources.ProfessionalSource) *Handler {
	return NewHandler(createTestConfig(), matching.DefaultScorer(), source, logger.NewTestLogger(t))
}

func requireCode(t *testing.T, err error, code commonerrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	var stdErr *commonerrors.StandardError
	require.True(t, errors.As(err, &stdErr), "expected StandardError, got %T", err)
	assert.Equal(t, code, stdErr.Code)
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute_WithCandidatesInVariables(t *testing.T) {
	h := newTestHandler(t, nil)

	inactive := createTestProfessional("pro-inactive", 5.0, 200)
	inactive.IsActive = false

	input := &Input{
		RequestID: "req-1",
		Criteria:  matching.MatchCriteria{Category: "plumbing"},
		Candidates: []matching.Professional{
			createTestProfessional("pro-low", 2.0, 3),
			createTestProfessional("pro-high", 4.9, 150),
			inactive,
		},
	}

	output, err := h.Execute(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "req-1", output.RequestID)
	assert.Equal(t, 3, output.TotalCandidates)
	assert.Equal(t, 2, output.EligibleCount)
	assert.Equal(t, candidateSourceVariables, output.CandidateSource)
	require.Len(t, output.RankedProfessionals, 2)

	top := output.RankedProfessionals[0]
	assert.Equal(t, "pro-high", top.ProfessionalID)
	assert.Equal(t, 1, top.Rank)
	assert.Len(t, top.FactorScores, 7)
	assert.Equal(t, 50.0, top.FactorScores["distance"])
	assert.Contains(t, top.Explanations, "150 jobs completed")
	assert.GreaterOrEqual(t, top.TotalScore, output.RankedProfessionals[1].TotalScore)
}

func TestHandler_Execute_LoadsFromSource(t *testing.T) {
	source := &fakeSource{pros: []matching.Professional{
		createTestProfessional("pro-1", 4.0, 30),
		createTestProfessional("pro-2", 4.5, 60),
	}}
	h := newTestHandler(t, source)

	output, err := h.Execute(context.Background(), &Input{
		RequestID: "req-2",
		Criteria:  matching.MatchCriteria{Category: "plumbing", Latitude: ptr(19.4), Longitude: ptr(-99.1)},
	})
	require.NoError(t, err)

	assert.Equal(t, "plumbing", source.category)
	assert.Equal(t, "postgres", output.CandidateSource)
	assert.Equal(t, "pro-2", output.RankedProfessionals[0].ProfessionalID)
}

func TestHandler_Execute_TruncatesToMaxResults(t *testing.T) {
	var candidates []matching.Professional
	for i := 0; i < 6; i++ {
		candidates = append(candidates, createTestProfessional(fmt.Sprintf("pro-%d", i), 3.0+float64(i)*0.3, i*20))
	}
	h := newTestHandler(t, nil)

	tests := []struct {
		name       string
		maxResults int
		expected   int
	}{
		{name: "config default", maxResults: 0, expected: 3},
		{name: "job asks for fewer", maxResults: 2, expected: 2},
		{name: "job asks for more than allowed", maxResults: 10, expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := h.Execute(context.Background(), &Input{
				RequestID:  "req-3",
				Criteria:   matching.MatchCriteria{Category: "plumbing"},
				Candidates: candidates,
				MaxResults: tt.maxResults,
			})
			require.NoError(t, err)
			assert.Len(t, output.RankedProfessionals, tt.expected)
			assert.Equal(t, 6, output.EligibleCount)
			for i, r := range output.RankedProfessionals {
				assert.Equal(t, i+1, r.Rank)
			}
		})
	}
}

func TestHandler_Execute_EmptyCandidates(t *testing.T) {
	h := newTestHandler(t, nil)

	output, err := h.Execute(context.Background(), &Input{
		RequestID:  "req-4",
		Criteria:   matching.MatchCriteria{Category: "plumbing"},
		Candidates: []matching.Professional{},
	})
	require.NoError(t, err)
	assert.Empty(t, output.RankedProfessionals)
	assert.NotNil(t, output.RankedProfessionals)
	assert.Equal(t, 0, output.EligibleCount)
}

// ==========================
// Errors
// ==========================

func TestHandler_Execute_InvalidCriteria(t *testing.T) {
	h := newTestHandler(t, nil)
	negative := -10.0

	tests := []struct {
		name     string
		criteria matching.MatchCriteria
	}{
		{name: "empty category", criteria: matching.MatchCriteria{}},
		{name: "non positive budget", criteria: matching.MatchCriteria{Category: "plumbing", Budget: &negative}},
		{name: "unknown urgency", criteria: matching.MatchCriteria{Category: "plumbing", Urgency: "asap"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Execute(context.Background(), &Input{RequestID: "req", Criteria: tt.criteria, Candidates: []matching.Professional{}})
			requireCode(t, err, commonerrors.ErrCodeInvalidMatchCriteria)
		})
	}
}

func TestHandler_Execute_NoCandidatesNoSource(t *testing.T) {
	_, err := newTestHandler(t, nil).Execute(context.Background(), &Input{
		RequestID: "req",
		Criteria:  matching.MatchCriteria{Category: "plumbing"},
	})
	requireCode(t, err, commonerrors.ErrCodeInvalidMatchCriteria)
}

func TestHandler_Execute_SourceErrors(t *testing.T) {
	tests := []struct {
		name       string
		sourceName string
		err        error
		expected   commonerrors.ErrorCode
	}{
		{name: "postgres failure", sourceName: "postgres", err: errors.New("conn reset"), expected: commonerrors.ErrCodeQueryExecutionFailed},
		{name: "postgres timeout", sourceName: "postgres", err: fmt.Errorf("query: %w", context.DeadlineExceeded), expected: commonerrors.ErrCodeQueryTimeout},
		{name: "postgres bad connection", sourceName: "postgres", err: fmt.Errorf("query professionals: %w", driver.ErrBadConn), expected: commonerrors.ErrCodeDatabaseConnectionFailed},
		{name: "search failure", sourceName: "elasticsearch", err: errors.New("503"), expected: commonerrors.ErrCodeSearchQueryFailed},
		{name: "search timeout", sourceName: "elasticsearch", err: context.DeadlineExceeded, expected: commonerrors.ErrCodeSearchTimeout},
		{name: "missing index", sourceName: "elasticsearch", err: fmt.Errorf("%w: professionals", sources.ErrIndexNotFound), expected: commonerrors.ErrCodeIndexNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createTestConfig()
			cfg.SourceName = tt.sourceName
			h := NewHandler(cfg, matching.DefaultScorer(), &fakeSource{err: tt.err}, logger.NewTestLogger(t))

			_, err := h.Execute(context.Background(), &Input{RequestID: "req", Criteria: matching.MatchCriteria{Category: "plumbing"}})
			requireCode(t, err, tt.expected)
		})
	}
}

// ==========================
// Input parsing
// ==========================

func TestParseInput(t *testing.T) {
	tests := []struct {
		name      string
		variables string
		wantErr   bool
	}{
		{
			name:      "minimal",
			variables: `{"requestId":"req-1","criteria":{"category":"plumbing"}}`,
		},
		{
			name:      "full with unrelated process variables",
			variables: `{"requestId":"req-1","criteria":{"category":"plumbing","latitude":19.4,"longitude":-99.1,"budget":1500,"urgency":"high"},"maxResults":5,"customerName":"Ana"}`,
		},
		{
			name:      "candidates inline",
			variables: `{"requestId":"req-1","criteria":{"category":"plumbing"},"candidates":[{"id":"pro-1","rating":4.5,"serviceCategories":["plumbing"]}]}`,
		},
		{name: "missing criteria", variables: `{"requestId":"req-1"}`, wantErr: true},
		{name: "empty category", variables: `{"requestId":"req-1","criteria":{"category":""}}`, wantErr: true},
		{name: "latitude out of range", variables: `{"requestId":"req-1","criteria":{"category":"plumbing","latitude":120}}`, wantErr: true},
		{name: "bad urgency", variables: `{"requestId":"req-1","criteria":{"category":"plumbing","urgency":"now"}}`, wantErr: true},
		{name: "candidate without id", variables: `{"requestId":"req-1","criteria":{"category":"plumbing"},"candidates":[{"rating":4}]}`, wantErr: true},
		{name: "not json", variables: `{`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := parseInput(tt.variables)
			if tt.wantErr {
				requireCode(t, err, commonerrors.ErrCodeInvalidMatchCriteria)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "req-1", input.RequestID)
			assert.Equal(t, "plumbing", input.Criteria.Category)
		})
	}
}
