package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/courtvision/courtvision/internal/app"
	jobmetrics "github.com/courtvision/courtvision/internal/jobs"
	"github.com/courtvision/courtvision/internal/observability"
	"github.com/courtvision/courtvision/internal/platform/cache"
	"github.com/courtvision/courtvision/internal/statsapi"
	"github.com/courtvision/courtvision/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	statsClient := statsapi.NewClient(statsapi.Config{
		BaseURL:  cfg.StatsAPIBaseURL,
		Token:    cfg.StatsAPIToken,
		Timeout:  cfg.StatsAPITimeout,
		Logger:   logger,
		Observer: metrics,
	})
	source := statsapi.NewCachedSource(statsClient, statsapi.NewCache(redisClient, cfg.StatsAPICacheTTL))

	warmupJob := jobs.NewStatsWarmupJob(source, logger, jobmetrics.NewMetrics(metrics.Registerer()))
	warmupTask, err := jobs.NewWarmupTask(jobs.WarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskStatsWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.WarmupCron, Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	metricsServer := jobs.NewMetricsServer(cfg.WorkerMetricsAddr, metrics.Handler())
	go func() {
		logger.Info("worker metrics listening", slog.String("addr", cfg.WorkerMetricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("worker metrics server", slog.Any("error", err))
			stop()
		}
	}()

	logger.Info("starting worker", slog.String("warmup_cron", cfg.WarmupCron))
	runErr := worker.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("worker metrics shutdown", slog.Any("error", err))
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("worker run", slog.Any("error", runErr))
		os.Exit(1)
	}
}
