// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"fmt"
	"time"

	"marketplace-workers/internal/common/config"
	"marketplace-workers/internal/common/logger"
	"marketplace-workers/internal/common/metrics"
	"marketplace-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// JobHandlerFunc is the shape of every worker's Handle method. It settles
// the job itself and returns the error it failed the job with, if any.
type JobHandlerFunc func(ctx context.Context, client worker.JobClient, job entities.Job) error

const (
	jobStatusCompleted = "completed"
	jobStatusFailed    = "failed"
	jobStatusPanicked  = "panicked"
)

// Instrument wraps a handler with the active-jobs gauge, a duration
// histogram, a span per job and panic recovery. The handler runs under the
// job span's context. A panicking handler fails the job with no retries so
// the incident is visible in Operate.
func Instrument(taskType string, handler JobHandlerFunc, obs *observability.Observability, log logger.Logger) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		active := metrics.WorkerJobsActive.WithLabelValues(taskType)
		active.Inc()
		defer active.Dec()

		ctx, span := obs.StartSpan(context.Background(), taskType,
			attribute.Int64("job.key", job.Key),
			attribute.Int64("process.instance.key", job.ProcessInstanceKey),
		)
		defer span.End()

		status := jobStatusCompleted
		defer func() {
			if r := recover(); r != nil {
				status = jobStatusPanicked
				span.SetStatus(codes.Error, fmt.Sprint(r))
				log.Error("job handler panicked", map[string]interface{}{
					"taskType": taskType,
					"jobKey":   job.Key,
					"panic":    fmt.Sprint(r),
				})
				if client != nil {
					_, _ = client.NewFailJobCommand().
						JobKey(job.Key).
						Retries(0).
						ErrorMessage(fmt.Sprintf("handler panic: %v", r)).
						Send(ctx)
				}
			}
			span.SetAttributes(attribute.String("job.status", status))
			elapsed := time.Since(start)
			metrics.WorkerJobDuration.WithLabelValues(taskType, status).Observe(elapsed.Seconds())
			obs.RecordJobProcessed(ctx, taskType, status)
			obs.RecordJobDuration(ctx, taskType, elapsed, status)
		}()

		if err := handler(ctx, client, job); err != nil {
			status = jobStatusFailed
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
}

// StartWorker opens a job worker for taskType. Disabled workers return nil.
func StartWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler worker.JobHandler, log logger.Logger) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return jobWorker
}
