package rankprofessionals

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"marketplace-workers/internal/common/errors"
	"marketplace-workers/internal/common/logger"
	"marketplace-workers/internal/common/metrics"
	"marketplace-workers/internal/common/validation"
	"marketplace-workers/internal/matching"
	"marketplace-workers/internal/models"
	"marketplace-workers/internal/workers/matching/rank-professionals/sources"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "rank-professionals"

	candidateSourceVariables = "variables"
)

var schema = validation.MustCompile(inputSchema)

type Handler struct {
	config       *Config
	scorer       *matching.Scorer
	source       sources.ProfessionalSource
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

// NewHandler builds the worker. source may be nil, in which case every job
// must carry its own candidates.
func NewHandler(config *Config, scorer *matching.Scorer, source sources.ProfessionalSource, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		scorer:       scorer,
		source:       source,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}
}

// Handle settles one job and returns the error it was failed with.
func (h *Handler) Handle(ctx context.Context, client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	input, err := parseInput(job.Variables)
	if err != nil {
		return h.failJob(ctx, client, job, err)
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		return h.failJob(ctx, client, job, err)
	}

	return h.completeJob(ctx, client, job, output)
}

func parseInput(variables string) (*Input, error) {
	if result := schema.ValidateJSON(variables); !result.Valid {
		return nil, errors.NewInvalidMatchCriteriaError(result.Error())
	}
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidMatchCriteriaError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

// Execute ranks the candidates for input.Criteria. Candidates carried in the
// job take precedence over the configured source.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := matching.ValidateCriteria(input.Criteria); err != nil {
		return nil, errors.NewInvalidMatchCriteriaError(err.Error())
	}

	candidates, sourceName, err := h.loadCandidates(ctx, input)
	if err != nil {
		return nil, err
	}

	results := h.scorer.Rank(candidates, input.Criteria)
	eligible := len(results)
	metrics.MatchEligibleCandidates.Observe(float64(eligible))

	if limit := h.limit(input); limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	ranked := make([]models.RankedProfessional, len(results))
	for i, r := range results {
		ranked[i] = toRanked(i+1, r)
	}

	h.logger.Info("professionals ranked", map[string]interface{}{
		"requestId":       input.RequestID,
		"category":        input.Criteria.Category,
		"candidateSource": sourceName,
		"totalCandidates": len(candidates),
		"eligibleCount":   eligible,
		"returned":        len(ranked),
	})

	return &Output{
		RequestID:           input.RequestID,
		RankedProfessionals: ranked,
		TotalCandidates:     len(candidates),
		EligibleCount:       eligible,
		CandidateSource:     sourceName,
	}, nil
}

func (h *Handler) loadCandidates(ctx context.Context, input *Input) ([]matching.Professional, string, error) {
	if input.Candidates != nil {
		return input.Candidates, candidateSourceVariables, nil
	}
	if h.source == nil {
		return nil, "", errors.NewInvalidMatchCriteriaError("no candidates supplied and no professional source configured")
	}

	candidates, err := h.source.ListByCategory(ctx, input.Criteria.Category)
	if err != nil {
		return nil, h.config.SourceName, h.mapSourceError(err)
	}
	return candidates, h.config.SourceName, nil
}

func (h *Handler) mapSourceError(err error) error {
	isSearch := h.config.SourceName == "elasticsearch"
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		if isSearch {
			return errors.NewSearchTimeoutError("professionals")
		}
		return errors.NewQueryTimeoutError("professionals_by_category")
	case !isSearch && stderrors.Is(err, driver.ErrBadConn):
		return errors.NewDatabaseConnectionFailedError(err)
	case stderrors.Is(err, sources.ErrIndexNotFound):
		return errors.NewIndexNotFoundError("professionals")
	case isSearch:
		return errors.NewSearchQueryFailedError("professionals", err)
	default:
		return errors.NewQueryExecutionFailedError("professionals_by_category", err)
	}
}

func (h *Handler) limit(input *Input) int {
	if input.MaxResults > 0 {
		if h.config.MaxResults > 0 && input.MaxResults > h.config.MaxResults {
			return h.config.MaxResults
		}
		return input.MaxResults
	}
	return h.config.MaxResults
}

func toRanked(rank int, r matching.MatchResult) models.RankedProfessional {
	factors := make(map[string]float64, 7)
	for _, f := range matching.Factors() {
		factors[string(f.Name)] = r.FactorScores.Get(f.Name)
	}
	return models.RankedProfessional{
		ProfessionalID: r.Professional.ID,
		Name:           r.Professional.Name,
		Rank:           rank,
		TotalScore:     r.TotalScore,
		FactorScores:   factors,
		Explanations:   r.Explanations,
	}
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return fmt.Errorf("create complete command: %w", err)
	}

	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return fmt.Errorf("send complete command: %w", err)
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	return nil
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) error {
	stdErr := errors.AsStandardError(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
	return stdErr
}
