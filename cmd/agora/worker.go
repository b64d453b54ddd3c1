package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"Agora/internal/auth"
	"Agora/internal/config"
	"Agora/internal/core/scheduling"
)

const revokedSweepInterval = time.Hour

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the scheduled publication worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runWorker(ctx, cfg)
	},
}

func runWorker(ctx context.Context, cfg *config.Config) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	logger := slog.Default().With(slog.String("component", "publication-worker"))
	executor := scheduling.NewExecutor(a.postRepo, a.userRepo, a.media, logger)
	worker := scheduling.NewWorker(a.jobs, executor, a.media, scheduling.WorkerConfig{
		PollInterval: cfg.Worker.PollInterval,
		Lease:        cfg.Worker.Lease,
		BatchSize:    cfg.Worker.BatchSize,
		MaxAttempts:  cfg.Worker.MaxAttempts,
	}, logger, nil)

	go sweepRevokedTokens(ctx, a.revoked, logger)

	return worker.Run(ctx)
}

// sweepRevokedTokens drops revocation entries for tokens that have expired
func sweepRevokedTokens(ctx context.Context, repo auth.RevocationRepository, logger *slog.Logger) {
	ticker := time.NewTicker(revokedSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := repo.DeleteExpired(ctx, now)
			if err != nil {
				logger.Warn("failed to sweep revoked tokens", slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				logger.Info("swept revoked tokens", slog.Int64("count", n))
			}
		}
	}
}
