package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/courtvision/courtvision/cmd/courtctl/cli"
	"github.com/courtvision/courtvision/internal/app"
	"github.com/courtvision/courtvision/internal/identity"
	"github.com/courtvision/courtvision/internal/platform/cache"
	"github.com/courtvision/courtvision/internal/platform/db"
	"github.com/courtvision/courtvision/internal/statsapi"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadToolConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	root := cli.NewRootCommand(cli.Env{
		Stdout: os.Stdout,
		OpenUsers: func(ctx context.Context) (cli.UserAdmin, func(), error) {
			pool, err := db.New(ctx, cfg.PGDSN)
			if err != nil {
				return nil, func() {}, err
			}
			return identity.NewService(identity.NewRepository(pool)), pool.Close, nil
		},
		OpenDB: func(ctx context.Context) (cli.Migrator, func(), error) {
			pool, err := db.New(ctx, cfg.PGDSN)
			if err != nil {
				return nil, func() {}, err
			}
			return identity.NewRepository(pool), pool.Close, nil
		},
		OpenJobs: func(ctx context.Context) (cli.JobsAdmin, func(), error) {
			jobsCLI, err := cli.NewJobsCLI(cfg.RedisAddr)
			if err != nil {
				return nil, func() {}, err
			}
			return jobsCLI, func() {
				if err := jobsCLI.Close(); err != nil {
					logger.Warn("close jobs client", slog.Any("error", err))
				}
			}, nil
		},
		OpenCache: func(ctx context.Context) (cli.CacheBumper, func(), error) {
			client, err := cache.New(ctx, cfg.RedisAddr)
			if err != nil {
				return nil, func() {}, err
			}
			return statsapi.NewCache(client, cfg.StatsAPICacheTTL), func() { _ = client.Close() }, nil
		},
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			fmt.Fprintln(os.Stderr, "\nOperation cancelled")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
