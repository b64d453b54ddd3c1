package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"Agora/internal/core/scheduling"
)

const jobColumns = `id, actor_id, text, temp_media, run_at, status, attempts,
	locked_until, last_error, post_id, created_at`

// JobRepository is the durable queue of scheduled posts.
// It serves both the request side (scheduling.Queue) and the worker (scheduling.JobStore).
type JobRepository struct {
	db *sql.DB
}

var (
	_ scheduling.Queue    = (*JobRepository)(nil)
	_ scheduling.JobStore = (*JobRepository)(nil)
)

// NewJobRepository creates a new PostgreSQL job repository
func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

func scanJob(row rowScanner) (*scheduling.Job, error) {
	job := &scheduling.Job{}
	var lockedUntil sql.NullTime
	var postID sql.NullInt64
	var status string
	err := row.Scan(&job.ID, &job.ActorID, &job.Text, &job.TempMedia, &job.RunAt, &status,
		&job.Attempts, &lockedUntil, &job.LastError, &postID, &job.CreatedAt)
	if err != nil {
		return nil, err
	}
	job.Status = scheduling.Status(status)
	if lockedUntil.Valid {
		t := lockedUntil.Time
		job.LockedUntil = &t
	}
	if postID.Valid {
		id := postID.Int64
		job.PostID = &id
	}
	return job, nil
}

func (r *JobRepository) queryJobs(ctx context.Context, query string, args ...any) ([]*scheduling.Job, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var jobs []*scheduling.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jobs: %w", err)
	}
	return jobs, nil
}

// Submit stores a pending job. run_at is computed by the database clock so
// every worker agrees on when it is due.
func (r *JobRepository) Submit(ctx context.Context, sub scheduling.Submission) (*scheduling.Job, error) {
	query := `
		INSERT INTO scheduled_posts (id, actor_id, text, temp_media, run_at)
		VALUES ($1, $2, $3, $4, NOW() + make_interval(secs => $5))
		RETURNING ` + jobColumns

	job, err := scanJob(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), sub.ActorID, sub.Text, sub.TempMediaPath, float64(sub.DelaySeconds)))
	if err != nil {
		return nil, fmt.Errorf("failed to submit scheduled post: %w", err)
	}
	return job, nil
}

// ListPending returns the actor's pending jobs, soonest first
func (r *JobRepository) ListPending(ctx context.Context, actorID int64) ([]*scheduling.Job, error) {
	query := `SELECT ` + jobColumns + `
		FROM scheduled_posts
		WHERE actor_id = $1 AND status = 'pending'
		ORDER BY run_at, created_at`

	jobs, err := r.queryJobs(ctx, query, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled posts: %w", err)
	}
	return jobs, nil
}

// Cancel moves a pending job to cancelled. A job owned by someone else is reported as missing.
func (r *JobRepository) Cancel(ctx context.Context, actorID int64, jobID string) (*scheduling.Job, error) {
	query := `
		UPDATE scheduled_posts
		SET status = 'cancelled', locked_until = NULL
		WHERE id = $1 AND actor_id = $2 AND status = 'pending'
		RETURNING ` + jobColumns

	job, err := scanJob(r.db.QueryRowContext(ctx, query, jobID, actorID))
	if err == nil {
		return job, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to cancel scheduled post: %w", err)
	}

	var status string
	err = r.db.QueryRowContext(ctx,
		`SELECT status FROM scheduled_posts WHERE id = $1 AND actor_id = $2`, jobID, actorID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, scheduling.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check scheduled post: %w", err)
	}
	return nil, scheduling.ErrNotPending
}

// Claim leases due jobs with FOR UPDATE SKIP LOCKED so concurrent workers
// never pick the same row. Running jobs whose lease ran out are reclaimed.
func (r *JobRepository) Claim(ctx context.Context, limit int, lease time.Duration) ([]*scheduling.Job, error) {
	query := `
		UPDATE scheduled_posts
		SET status = 'running',
			attempts = attempts + 1,
			locked_until = NOW() + make_interval(secs => $2)
		WHERE id IN (
			SELECT id FROM scheduled_posts
			WHERE (status = 'pending' AND run_at <= NOW())
			   OR (status = 'running' AND locked_until < NOW())
			ORDER BY run_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + jobColumns

	jobs, err := r.queryJobs(ctx, query, limit, lease.Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to claim scheduled posts: %w", err)
	}
	return jobs, nil
}

// Complete marks a running job done
func (r *JobRepository) Complete(ctx context.Context, jobID string, postID int64) error {
	query := `
		UPDATE scheduled_posts
		SET status = 'done', post_id = $2, locked_until = NULL, last_error = ''
		WHERE id = $1 AND status = 'running'`
	return r.exec(ctx, "complete", query, jobID, postID)
}

// Fail marks a job failed for good
func (r *JobRepository) Fail(ctx context.Context, jobID, reason string) error {
	query := `
		UPDATE scheduled_posts
		SET status = 'failed', locked_until = NULL, last_error = $2
		WHERE id = $1 AND status IN ('pending', 'running')`
	return r.exec(ctx, "fail", query, jobID, reason)
}

// RecordError stores the reason of a transient failure; the lease is left to expire
func (r *JobRepository) RecordError(ctx context.Context, jobID, reason string) error {
	query := `UPDATE scheduled_posts SET last_error = $2 WHERE id = $1 AND status = 'running'`
	return r.exec(ctx, "record error on", query, jobID, reason)
}

// GetByID loads one job
func (r *JobRepository) GetByID(ctx context.Context, jobID string) (*scheduling.Job, error) {
	job, err := scanJob(r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM scheduled_posts WHERE id = $1`, jobID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, scheduling.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scheduled post: %w", err)
	}
	return job, nil
}

func (r *JobRepository) exec(ctx context.Context, action, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s scheduled post: %w", action, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check %s result: %w", action, err)
	}
	if rows == 0 {
		return scheduling.ErrJobNotFound
	}
	return nil
}
