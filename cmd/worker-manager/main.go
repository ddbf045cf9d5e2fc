// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"marketplace-workers/internal/common/aws"
	"marketplace-workers/internal/common/camunda"
	"marketplace-workers/internal/common/config"
	"marketplace-workers/internal/common/database"
	"marketplace-workers/internal/common/logger"
	"marketplace-workers/internal/common/observability"
	"marketplace-workers/internal/fraud"
	"marketplace-workers/internal/matching"

	rp "marketplace-workers/internal/workers/matching/rank-professionals"
	"marketplace-workers/internal/workers/matching/rank-professionals/sources"
	afr "marketplace-workers/internal/workers/payment/assess-fraud-risk"
	"marketplace-workers/internal/workers/payment/assess-fraud-risk/store"
	"marketplace-workers/pkg/registry"
)

const serviceName = "marketplace-workers"

func main() {
	bootLog := logger.New("info", "console", "stdout")
	defer bootLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
		"env":     cfg.App.Environment,
	})

	log.Info("starting worker manager", nil)

	obs := observability.New(serviceName, cfg.Tracing, log)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Zeebe ---
	zeebe, err := camunda.NewClientWithConfig(ctx, camunda.ClientConfigFrom(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	log.Info("zeebe client connected", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = camunda.Retry(ctx, camunda.DefaultRetryConfig, log, "postgres connection", func(ctx context.Context) error {
		var err error
		if pg, err = database.NewPostgres(cfg.Database.Postgres); err != nil {
			return err
		}
		return pg.Ping(ctx)
	})
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("postgres schema migration failed", zap.Error(err))
	}

	// --- Redis ---
	var rdb *database.RedisClient
	err = camunda.Retry(ctx, camunda.DefaultRetryConfig, log, "redis connection", func(ctx context.Context) error {
		var err error
		if rdb, err = database.NewRedis(cfg.Database.Redis); err != nil {
			return err
		}
		return rdb.Ping(ctx)
	})
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()

	checkers := []database.Checker{zeebe, pg, rdb}

	// --- Elasticsearch, only when it backs the candidate source ---
	var esClient *database.ElasticsearchClient
	if cfg.Matching.Source == config.SourceElasticsearch {
		err = camunda.Retry(ctx, camunda.DefaultRetryConfig, log, "elasticsearch connection", func(ctx context.Context) error {
			var err error
			if esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch); err != nil {
				return err
			}
			return esClient.Ping(ctx)
		})
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		checkers = append(checkers, esClient)
	}
	log.Info("backing stores connected", map[string]interface{}{"matchingSource": cfg.Matching.Source})

	// --- Workers ---
	var workers []worker.JobWorker
	activities := registry.New(cfg.App.Version)
	register := func(def registry.Definition, handler camunda.JobHandlerFunc) {
		wcfg := config.GetWorkerConfig(cfg, def.TaskType)
		if err := activities.Register(def, wcfg.Enabled, config.GetDuration(wcfg.Timeout), wcfg.MaxRetries); err != nil {
			zapLog.Fatal("activity registration failed", zap.Error(err))
		}
		instrumented := camunda.Instrument(def.TaskType, handler, obs, log)
		if w := camunda.StartWorker(zeebe.Zeebe(), def.TaskType, wcfg, instrumented, log); w != nil {
			workers = append(workers, w)
		}
	}

	baseSource, err := newProfessionalSource(ctx, cfg, pg, esClient, log)
	if err != nil {
		zapLog.Fatal("failed to prepare professional source", zap.Error(err))
	}
	rankHandler, err := newRankProfessionalsHandler(cfg, baseSource, rdb, log)
	if err != nil {
		zapLog.Fatal("failed to create rank-professionals handler", zap.Error(err))
	}
	register(rp.Activity, rankHandler.Handle)

	scheduler := cron.New()
	if len(cfg.Matching.WarmCategories) > 0 {
		warmer := sources.NewWarmer(baseSource, rdb.Client, config.GetSeconds(cfg.Matching.CacheTTL), cfg.Matching.WarmCategories, log)
		if _, err := warmer.Schedule(scheduler, cfg.Matching.WarmSchedule); err != nil {
			zapLog.Fatal("failed to schedule cache warmer", zap.Error(err))
		}
	}
	scheduler.Start()

	fraudHandler, err := newAssessFraudRiskHandler(ctx, cfg, pg, rdb, log)
	if err != nil {
		zapLog.Fatal("failed to create assess-fraud-risk handler", zap.Error(err))
	}
	register(afr.Activity, fraudHandler.Handle)

	log.Info("workers registered", map[string]interface{}{"count": len(workers)})

	// --- Health & Metrics Server ---
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           newServeMux(activities, checkers...),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping workers", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	<-scheduler.Stop().Done()
	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("error stopping health/metrics server", map[string]interface{}{"error": err})
	}
	if err := zeebe.Close(); err != nil {
		log.Error("error closing zeebe client", map[string]interface{}{"error": err})
	}

	log.Info("worker manager stopped gracefully", nil)
}

func newProfessionalSource(ctx context.Context, cfg *config.Config, pg *database.PostgresClient, es *database.ElasticsearchClient, log logger.Logger) (sources.ProfessionalSource, error) {
	if cfg.Matching.Source != config.SourceElasticsearch {
		return sources.NewPostgresSource(pg.DB), nil
	}

	src := sources.NewElasticsearchSource(es.Client, cfg.Database.Elasticsearch.ProfessionalIndex, 0)
	err := camunda.Retry(ctx, camunda.DefaultRetryConfig, log, "elasticsearch index", src.EnsureIndex)
	if err != nil {
		return nil, err
	}
	return src, nil
}

func newRankProfessionalsHandler(cfg *config.Config, source sources.ProfessionalSource, rdb *database.RedisClient, log logger.Logger) (*rp.Handler, error) {
	weights, err := matching.ParseWeights(cfg.Matching.Weights)
	if err != nil {
		return nil, err
	}
	calibration := matching.DefaultCalibration()
	if len(weights) > 0 {
		calibration = calibration.WithWeights(weights)
	}
	scorer, err := matching.NewScorer(calibration)
	if err != nil {
		return nil, fmt.Errorf("matching calibration: %w", err)
	}

	if cfg.Matching.CacheTTL > 0 {
		source = sources.NewCachedSource(source, rdb.Client, config.GetSeconds(cfg.Matching.CacheTTL), log)
	}

	wcfg := config.GetWorkerConfig(cfg, rp.TaskType)
	return rp.NewHandler(&rp.Config{
		Timeout:    config.GetDuration(wcfg.Timeout),
		MaxResults: cfg.Matching.MaxResults,
		SourceName: cfg.Matching.Source,
	}, scorer, source, log), nil
}

func newAssessFraudRiskHandler(ctx context.Context, cfg *config.Config, pg *database.PostgresClient, rdb *database.RedisClient, log logger.Logger) (*afr.Handler, error) {
	amounts, err := cfg.Fraud.Amounts()
	if err != nil {
		return nil, err
	}
	scorer := fraud.NewScorer(fraud.DefaultRules(fraud.Thresholds{
		NewUserHighAmount: amounts[0],
		UnusualAmount:     amounts[1],
		MaxPriorAttempts:  cfg.Fraud.MaxPriorAttempts,
	})...)

	alerter, err := newAlerter(ctx, cfg.Notifications, log)
	if err != nil {
		return nil, err
	}

	wcfg := config.GetWorkerConfig(cfg, afr.TaskType)
	return afr.NewHandler(&afr.Config{
		Timeout:        config.GetDuration(wcfg.Timeout),
		AlertThreshold: cfg.Fraud.AlertThreshold,
	}, afr.Dependencies{
		Scorer:   scorer,
		Store:    store.NewAssessmentStore(pg.DB),
		Attempts: store.NewAttemptCounter(rdb.Client, config.GetSeconds(cfg.Fraud.AttemptWindow)),
		Alerter:  alerter,
	}, log), nil
}

// newAlerter returns nil when neither alert channel is enabled.
func newAlerter(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*afr.Alerter, error) {
	if !cfg.SNS.Enabled && !cfg.SES.Enabled {
		return nil, nil
	}

	var (
		publisher afr.TopicPublisher
		email     afr.EmailSender
	)
	if cfg.SNS.Enabled {
		sns, err := aws.NewSNSClient(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, err
		}
		publisher = sns
	}
	if cfg.SES.Enabled {
		ses, err := aws.NewSESClient(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, err
		}
		email = ses
	}

	return afr.NewAlerter(afr.AlerterConfig{
		TopicARN:  cfg.SNS.TopicARN,
		FromEmail: cfg.SES.FromEmail,
		OpsEmail:  cfg.SES.OpsEmail,
	}, publisher, email, log), nil
}
