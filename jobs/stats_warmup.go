package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	jobmetrics "github.com/courtvision/courtvision/internal/jobs"
	"github.com/courtvision/courtvision/internal/nba"
	"github.com/courtvision/courtvision/internal/statsapi"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// endpointTimeout bounds each warmup call so one slow query cannot hold the worker.
const endpointTimeout = 60 * time.Second

// StatsWarmupJob pre-populates the analytics cache so first page loads hit redis.
type StatsWarmupJob struct {
	Source  statsapi.Source
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewStatsWarmupJob wires dependencies for the warmup handler. source should
// be the cached source, otherwise the warmup only exercises the API.
func NewStatsWarmupJob(source statsapi.Source, logger *slog.Logger, metrics *jobmetrics.Metrics) *StatsWarmupJob {
	return &StatsWarmupJob{Source: source, Logger: logger, Metrics: metrics}
}

type warmTarget struct {
	endpoint string
	rng      nba.DateRange
	load     func(context.Context, nba.DateRange) (int, error)
}

// Handle processes TaskStatsWarmup tasks.
func (j *StatsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Source == nil {
		return errors.New("stats warmup: handler not configured")
	}
	var payload WarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	targets, err := j.targets(payload)
	if err != nil {
		j.logger().Warn("invalid warmup range", slog.Any("error", err))
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	return j.run(ctx, targets)
}

// run warms every target concurrently and reports the first failure.
func (j *StatsWarmupJob) run(ctx context.Context, targets []warmTarget) (resultErr error) {
	tracker := j.metrics().Track(TaskStatsWarmup)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	started := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for _, target := range targets {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, endpointTimeout)
			defer cancel()
			n, err := target.load(callCtx, target.rng)
			if err != nil {
				logger.Error("warm endpoint", slog.String("endpoint", target.endpoint), slog.Any("error", err))
				return fmt.Errorf("warm %s: %w", target.endpoint, err)
			}
			j.metrics().AddWarmed(target.endpoint, n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("completed stats warmup", slog.Int("endpoints", len(targets)), slog.Duration("duration", time.Since(started)))
	return nil
}

func (j *StatsWarmupJob) targets(payload WarmupPayload) ([]warmTarget, error) {
	if payload.StartDate == "" && payload.EndDate == "" {
		return []warmTarget{
			{endpoint: statsapi.TeamRankingsEndpoint.Name, rng: nba.MonthRange(), load: count(j.Source.TeamRankings)},
			{endpoint: statsapi.B2BRankingsEndpoint.Name, rng: nba.SeasonRange(), load: count(j.Source.B2BRankings)},
			{endpoint: statsapi.RestRankingsEndpoint.Name, rng: nba.SeasonRange(), load: count(j.Source.RestRankings)},
		}, nil
	}
	rng, err := nba.ParseRange(payload.StartDate, payload.EndDate)
	if err != nil {
		return nil, err
	}
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	return []warmTarget{
		{endpoint: statsapi.TeamRankingsEndpoint.Name, rng: rng, load: count(j.Source.TeamRankings)},
		{endpoint: statsapi.B2BRankingsEndpoint.Name, rng: rng, load: count(j.Source.B2BRankings)},
		{endpoint: statsapi.RestRankingsEndpoint.Name, rng: rng, load: count(j.Source.RestRankings)},
		{endpoint: statsapi.PlayerStintsEndpoint.Name, rng: rng, load: count(j.Source.PlayerStints)},
	}, nil
}

func count[T any](fn func(context.Context, nba.DateRange) ([]T, error)) func(context.Context, nba.DateRange) (int, error) {
	return func(ctx context.Context, rng nba.DateRange) (int, error) {
		records, err := fn(ctx, rng)
		return len(records), err
	}
}

func (j *StatsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskStatsWarmup))
	}
	return slog.Default().With(slog.String("job", TaskStatsWarmup))
}

func (j *StatsWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
