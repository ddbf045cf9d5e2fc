// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds by outcome",
		},
		[]string{"task_type", "status"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	// Matching
	MatchEligibleCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_eligible_candidates",
			Help:    "Number of eligible professionals per ranking request",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100, 250},
		},
	)

	ProfessionalCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "professional_cache_lookups_total",
			Help: "Professional cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	// Fraud
	FraudRiskScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fraud_risk_score",
			Help:    "Distribution of assessed fraud risk scores",
			Buckets: []float64{0, 10, 20, 30, 45, 60, 75, 90, 100},
		},
	)

	FraudFlagsRaised = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fraud_flags_raised_total",
			Help: "Fraud flags raised by flag text",
		},
		[]string{"flag"},
	)

	FraudAlertsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fraud_alerts_sent_total",
			Help: "High risk alerts by channel and status",
		},
		[]string{"channel", "status"},
	)
)
