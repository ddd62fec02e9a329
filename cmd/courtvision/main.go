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
	"github.com/courtvision/courtvision/internal/dashboard"
	"github.com/courtvision/courtvision/internal/fetch"
	"github.com/courtvision/courtvision/internal/identity"
	"github.com/courtvision/courtvision/internal/observability"
	"github.com/courtvision/courtvision/internal/platform/cache"
	"github.com/courtvision/courtvision/internal/platform/db"
	"github.com/courtvision/courtvision/internal/shared"
	"github.com/courtvision/courtvision/internal/statsapi"
	"github.com/courtvision/courtvision/internal/view"
	"github.com/courtvision/courtvision/jobs"
)

// sequencerTTL outlives any request so a slow fetch can still learn it was superseded.
const sequencerTTL = 10 * time.Minute

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

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

	sessionManager := shared.NewSessionManager(redisClient, "courtvision_session", cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	identityRepo := identity.NewRepository(dbpool)
	if err := identityRepo.Migrate(ctx); err != nil {
		logger.Error("migrate identity schema", slog.Any("error", err))
		os.Exit(1)
	}
	identityService := identity.NewService(identityRepo)
	identityProvider := identity.NewProvider(identityRepo, cfg.IdentityTimeout, logger)
	authHandler := identity.NewHandler(logger, identityService, templates, sessionManager, csrfManager)

	statsClient := statsapi.NewClient(statsapi.Config{
		BaseURL:  cfg.StatsAPIBaseURL,
		Token:    cfg.StatsAPIToken,
		Timeout:  cfg.StatsAPITimeout,
		Logger:   logger,
		Observer: metrics,
	})
	source := statsapi.NewCachedSource(statsClient, statsapi.NewCache(redisClient, cfg.StatsAPICacheTTL))

	dashboardHandler, err := dashboard.NewHandler(logger, source, templates, csrfManager, fetch.NewRedisSequencer(redisClient, sequencerTTL))
	if err != nil {
		logger.Error("init dashboard", slog.Any("error", err))
		os.Exit(1)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		IdentityProvider: identityProvider,
		AuthHandler:      authHandler,
		DashboardHandler: dashboardHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           router,
		ReadTimeout:       cfg.AppReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("statsapi", cfg.StatsAPIBaseURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
