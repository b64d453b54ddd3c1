package scheduling

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"Agora/internal/metrics"
)

// WorkerConfig tunes the polling loop
type WorkerConfig struct {
	PollInterval time.Duration
	Lease        time.Duration
	BatchSize    int
	MaxAttempts  int
}

// Worker polls the job store and executes due jobs
type Worker struct {
	store    JobStore
	executor *Executor
	media    MediaStore
	logger   *slog.Logger
	now      func() time.Time
	cfg      WorkerConfig
}

// NewWorker creates a worker. logger and now may be nil.
func NewWorker(store JobStore, executor *Executor, mediaStore MediaStore, cfg WorkerConfig, logger *slog.Logger, now func() time.Time) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.Lease <= 0 {
		cfg.Lease = 2 * time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &Worker{
		store:    store,
		executor: executor,
		media:    mediaStore,
		logger:   logger,
		now:      now,
		cfg:      cfg,
	}
}

// Run polls until ctx is cancelled
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("scheduled post worker started",
		slog.Duration("poll_interval", w.cfg.PollInterval),
		slog.Int("batch_size", w.cfg.BatchSize))

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx); err != nil && ctx.Err() == nil {
			w.logger.Error("failed to poll scheduled posts", slog.String("error", err.Error()))
		}

		select {
		case <-ctx.Done():
			w.logger.Info("scheduled post worker stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce claims one batch, executes it and returns how many jobs were processed.
// A full batch is drained again before returning.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	total := 0
	for {
		jobs, err := w.store.Claim(ctx, w.cfg.BatchSize, w.cfg.Lease)
		if err != nil {
			return total, fmt.Errorf("failed to claim jobs: %w", err)
		}
		for _, job := range jobs {
			if ctx.Err() != nil {
				return total, ctx.Err()
			}
			w.process(ctx, job)
			total++
		}
		if len(jobs) < w.cfg.BatchSize {
			return total, nil
		}
	}
}

func (w *Worker) process(ctx context.Context, job *Job) {
	started := w.now()
	lag := started.Sub(job.RunAt)
	log := w.logger.With(slog.String("job_id", job.ID), slog.Int("attempt", job.Attempts))

	if job.Attempts > w.cfg.MaxAttempts {
		w.fail(ctx, job, log, fmt.Sprintf("gave up after %d attempts", w.cfg.MaxAttempts))
		metrics.JobFinished(string(StatusFailed), 0, lag)
		return
	}

	post, err := w.executor.Execute(ctx, job)
	elapsed := w.now().Sub(started)

	switch {
	case err == nil:
		if err := w.store.Complete(ctx, job.ID, post.ID); err != nil {
			// The post exists; a redelivery finds it through scheduled_job_id.
			log.Error("failed to mark job done", slog.String("error", err.Error()))
			metrics.JobFinished("retry", elapsed, lag)
			return
		}
		releaseTemp(ctx, w.media, log, job.TempMedia)
		metrics.JobFinished(string(StatusDone), elapsed, lag)

	case IsPermanent(err) || job.Attempts >= w.cfg.MaxAttempts:
		w.fail(ctx, job, log, err.Error())
		metrics.JobFinished(string(StatusFailed), elapsed, lag)

	default:
		log.Warn("scheduled post failed, will retry", slog.String("error", err.Error()))
		if rerr := w.store.RecordError(ctx, job.ID, err.Error()); rerr != nil {
			log.Error("failed to record job error", slog.String("error", rerr.Error()))
		}
		metrics.JobFinished("retry", elapsed, lag)
	}
}

func (w *Worker) fail(ctx context.Context, job *Job, log *slog.Logger, reason string) {
	log.Error("scheduled post failed", slog.String("reason", reason))
	if err := w.store.Fail(ctx, job.ID, reason); err != nil {
		log.Error("failed to mark job failed", slog.String("error", err.Error()))
		return
	}
	releaseTemp(ctx, w.media, log, job.TempMedia)
}
