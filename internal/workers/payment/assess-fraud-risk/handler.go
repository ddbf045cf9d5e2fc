package assessfraudrisk

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace-workers/internal/common/errors"
	"marketplace-workers/internal/common/logger"
	"marketplace-workers/internal/common/metrics"
	"marketplace-workers/internal/common/validation"
	"marketplace-workers/internal/fraud"
	"marketplace-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "assess-fraud-risk"

var schema = validation.MustCompile(inputSchema)

// AssessmentSaver is satisfied by *store.AssessmentStore.
type AssessmentSaver interface {
	Save(ctx context.Context, a models.FraudAssessment, flag bool) error
}

// AttemptRecorder is satisfied by *store.AttemptCounter.
type AttemptRecorder interface {
	Record(ctx context.Context, userID string) (int, error)
}

// Dependencies are all optional except Scorer. A nil Store skips
// persistence, a nil Attempts treats a missing count as zero and a nil
// Alerter never alerts.
type Dependencies struct {
	Scorer   *fraud.Scorer
	Store    AssessmentSaver
	Attempts AttemptRecorder
	Alerter  *Alerter
	Now      func() time.Time
}

type Handler struct {
	config       *Config
	deps         Dependencies
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, deps Dependencies, log logger.Logger) *Handler {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		deps:         deps,
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
		return nil, errors.NewInvalidFraudSignalError(result.Error())
	}
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidFraudSignalError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	prior, err := h.priorAttempts(ctx, input)
	if err != nil {
		return nil, err
	}

	signal := input.Signal.toSignal(prior)
	if err := fraud.ValidateSignal(signal); err != nil {
		return nil, errors.NewInvalidFraudSignalError(err.Error())
	}

	assessment := h.deps.Scorer.Assess(signal)
	level := assessment.Level()
	now := h.deps.Now().UTC()

	record := models.FraudAssessment{
		ID:        uuid.NewString(),
		RequestID: input.RequestID,
		UserID:    input.UserID,
		RiskScore: assessment.RiskScore,
		RiskLevel: string(level),
		Flags:     assessment.Flags,
		CreatedAt: now,
	}

	if h.deps.Store != nil {
		if err := h.deps.Store.Save(ctx, record, level == fraud.RiskLevelHigh); err != nil {
			return nil, errors.NewDatabaseInsertFailedError("fraud_assessments", err)
		}
	}

	metrics.FraudRiskScore.Observe(float64(assessment.RiskScore))
	for _, f := range assessment.Flags {
		metrics.FraudFlagsRaised.WithLabelValues(f).Inc()
	}

	alertSent := false
	if h.deps.Alerter != nil && assessment.RiskScore >= h.config.AlertThreshold {
		alertSent = h.deps.Alerter.Send(ctx, models.RiskAlert{
			AssessmentID: record.ID,
			RequestID:    record.RequestID,
			UserID:       record.UserID,
			RiskScore:    record.RiskScore,
			RiskLevel:    record.RiskLevel,
			Flags:        record.Flags,
			Amount:       signal.Amount.StringFixed(2),
			AssessedAt:   now.Format(time.RFC3339),
		})
	}

	h.logger.Info("fraud risk assessed", map[string]interface{}{
		"requestId":    input.RequestID,
		"userId":       input.UserID,
		"assessmentId": record.ID,
		"riskScore":    assessment.RiskScore,
		"riskLevel":    record.RiskLevel,
		"flags":        assessment.Flags,
		"alertSent":    alertSent,
	})

	return &Output{
		AssessmentID: record.ID,
		RiskScore:    assessment.RiskScore,
		RiskLevel:    record.RiskLevel,
		Flags:        assessment.Flags,
		AlertSent:    alertSent,
	}, nil
}

func (h *Handler) priorAttempts(ctx context.Context, input *Input) (int, error) {
	if input.Signal.PriorAttemptCount != nil {
		return *input.Signal.PriorAttemptCount, nil
	}
	if h.deps.Attempts == nil {
		return 0, nil
	}
	prior, err := h.deps.Attempts.Record(ctx, input.UserID)
	if err != nil {
		return 0, errors.NewCacheOperationFailedError("incr payment attempts", err)
	}
	return prior, nil
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
