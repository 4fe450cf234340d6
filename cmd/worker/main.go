package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"daily-brief/internal/config"
	"daily-brief/internal/domain/entity"
	pgRepo "daily-brief/internal/infra/adapter/persistence/postgres"
	"daily-brief/internal/infra/collector"
	"daily-brief/internal/infra/db"
	workerPkg "daily-brief/internal/infra/worker"
	"daily-brief/internal/observability/logging"
	"daily-brief/internal/observability/tracing"
	collectUC "daily-brief/internal/usecase/collect"
	healthUC "daily-brief/internal/usecase/health"
)

const defaultSourcesPath = "config/sources.yaml"

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	shutdownTracer := tracing.InitTracer("daily-brief")
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			logger.Error("failed to shut down tracer", slog.Any("error", err))
		}
	}()

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	// Context cancelled on SIGINT/SIGTERM for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("collect_timeout", workerConfig.CollectTimeout),
		slog.Int("failure_threshold", workerConfig.FailureThreshold),
		slog.Duration("recovery_window", workerConfig.RecoveryWindow),
		slog.Int("health_port", workerConfig.HealthPort),
		slog.Int("metrics_port", workerConfig.MetricsPort))

	orchestrator, err := setupCollectService(ctx, logger, database, workerConfig)
	if err != nil {
		logger.Error("failed to set up collection service", slog.Any("error", err))
		os.Exit(1)
	}

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, orchestrator, logger)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := healthServer.Start(groupCtx); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("health server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		return startMetricsServer(groupCtx, logger, workerConfig.MetricsPort)
	})
	group.Go(func() error {
		return runCronWorker(groupCtx, logger, orchestrator, workerConfig, workerMetrics, healthServer)
	})

	if err := group.Wait(); err != nil {
		logger.Error("worker exited with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker stopped")
}

// initDatabase opens the database connection and applies the schema.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// setupCollectService wires the stores, health tracker, and collectors into
// the collection orchestrator, and registers every configured source.
func setupCollectService(ctx context.Context, logger *slog.Logger, database *sql.DB, cfg *workerPkg.WorkerConfig) (*collectUC.Service, error) {
	statusRepo := pgRepo.NewStatusRepo(database)
	contentRepo := pgRepo.NewContentRepo(database)

	tracker, err := healthUC.NewService(statusRepo, healthUC.Config{
		FailureThreshold: cfg.FailureThreshold,
		RecoveryWindow:   cfg.RecoveryWindow,
	})
	if err != nil {
		return nil, fmt.Errorf("health tracker: %w", err)
	}

	sources, err := config.LoadSourcesConfig(sourcesPath())
	if err != nil {
		return nil, fmt.Errorf("sources config: %w", err)
	}
	for _, s := range sources.Sources {
		if err := tracker.RegisterSource(ctx, s.ID, s.SourceType()); err != nil {
			return nil, fmt.Errorf("register source %q: %w", s.ID, err)
		}
	}
	logger.Info("sources registered", slog.Int("count", len(sources.Sources)))

	client := collector.NewClient(collector.DefaultClientConfig())
	newsletterCollector, err := collector.NewNewsletterCollector(client, contentRepo)
	if err != nil {
		return nil, fmt.Errorf("newsletter collector: %w", err)
	}
	videoCollector, err := collector.NewVideoCollector(client, contentRepo)
	if err != nil {
		return nil, fmt.Errorf("video collector: %w", err)
	}

	return collectUC.NewService(tracker, map[entity.SourceType]collectUC.Collector{
		entity.SourceTypeNewsletter: newsletterCollector,
		entity.SourceTypeYouTube:    videoCollector,
	}), nil
}

func sourcesPath() string {
	if path := os.Getenv("SOURCES_CONFIG_PATH"); path != "" {
		return path
	}
	return defaultSourcesPath
}

// runCronWorker schedules collection runs and blocks until the context is
// cancelled.
func runCronWorker(ctx context.Context, logger *slog.Logger, svc *collectUC.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer) error {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runCollectionJob(ctx, logger, svc, cfg, metrics)
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}
	c.Start()

	// Mark as ready after cron is set up
	healthServer.SetReady(true)
	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))

	<-ctx.Done()

	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		logger.Warn("running job did not finish before shutdown deadline")
	}
	return nil
}

// runCollectionJob executes a single collection run with timeout and metrics.
func runCollectionJob(ctx context.Context, logger *slog.Logger, svc *collectUC.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) {
	startTime := time.Now()
	metrics.RecordJobRun("started")
	logger.Info("collection run started")

	runCtx, cancel := context.WithTimeout(ctx, cfg.CollectTimeout)
	defer cancel()

	report := svc.Run(runCtx)

	metrics.RecordJobDuration(time.Since(startTime).Seconds())
	metrics.RecordSourcesProcessed(report.SourcesChecked)
	if report.Success {
		metrics.RecordJobRun("success")
		metrics.RecordLastSuccess()
	} else {
		metrics.RecordJobRun("failure")
	}

	logger.Info("collection run completed",
		slog.String("run_id", report.RunID.String()),
		slog.Bool("success", report.Success),
		slog.Int("sources_checked", report.SourcesChecked),
		slog.Int("collectable", report.Collectable),
		slog.Int("skipped", report.Skipped),
		slog.Int("collected", report.TotalCollected),
		slog.Int("failed", report.TotalFailed),
		slog.Int("errors", len(report.Errors)),
		slog.Duration("duration", report.Duration),
	)
}
