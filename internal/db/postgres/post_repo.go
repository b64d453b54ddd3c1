package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"Agora/internal/core/posts"
	"Agora/internal/core/users"
)

const postColumns = `id, user_id, text, media, scheduled_job_id, created_at`

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

func scanPost(row rowScanner) (*posts.Post, error) {
	post := &posts.Post{}
	var jobID sql.NullString
	if err := row.Scan(&post.ID, &post.UserID, &post.Text, &post.Media, &jobID, &post.CreatedAt); err != nil {
		return nil, err
	}
	if jobID.Valid {
		id := jobID.String
		post.ScheduledJobID = &id
	}
	return post, nil
}

// Create inserts a new post. created_at is assigned by the database.
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) (*posts.Post, error) {
	query := `
		INSERT INTO posts (user_id, text, media)
		VALUES ($1, $2, $3)
		RETURNING ` + postColumns

	created, err := scanPost(r.db.QueryRowContext(ctx, query, post.UserID, post.Text, post.Media))
	if err != nil {
		if constraintViolation(err, foreignKeyViolation, "") {
			return nil, users.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return created, nil
}

// CreateScheduled inserts a post keyed by its job.
// Redelivery of the same job returns the existing post with created=false.
func (r *postgresPostRepo) CreateScheduled(ctx context.Context, post *posts.Post) (*posts.Post, bool, error) {
	if post.ScheduledJobID == nil {
		return nil, false, fmt.Errorf("scheduled post requires a job id")
	}

	query := `
		INSERT INTO posts (user_id, text, media, scheduled_job_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (scheduled_job_id) DO NOTHING
		RETURNING ` + postColumns

	created, err := scanPost(r.db.QueryRowContext(ctx, query,
		post.UserID, post.Text, post.Media, *post.ScheduledJobID))
	if err == nil {
		return created, true, nil
	}
	if constraintViolation(err, foreignKeyViolation, "") {
		return nil, false, users.ErrUserNotFound
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to create scheduled post: %w", err)
	}

	existing, err := scanPost(r.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE scheduled_job_id = $1`, *post.ScheduledJobID))
	if err != nil {
		return nil, false, fmt.Errorf("failed to load existing scheduled post: %w", err)
	}
	return existing, false, nil
}

// GetByID retrieves a post by ID
func (r *postgresPostRepo) GetByID(ctx context.Context, id int64) (*posts.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// Update writes text and media. The owner and the edit window are part of the
// predicate, so an edit that loses the race against the boundary changes nothing.
// The window is measured with NOW(), the same clock that set created_at.
func (r *postgresPostRepo) Update(ctx context.Context, post *posts.Post, window time.Duration) (*posts.Post, error) {
	query := `
		UPDATE posts
		SET text = $3, media = $4
		WHERE id = $1 AND user_id = $2 AND created_at > NOW() - make_interval(secs => $5)
		RETURNING ` + postColumns

	updated, err := scanPost(r.db.QueryRowContext(ctx, query,
		post.ID, post.UserID, post.Text, post.Media, window.Seconds()))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	var ownerID int64
	err = r.db.QueryRowContext(ctx, `SELECT user_id FROM posts WHERE id = $1`, post.ID).Scan(&ownerID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, posts.ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to check post after update: %w", err)
	case ownerID != post.UserID:
		return nil, posts.ErrPermissionDenied
	default:
		return nil, posts.ErrEditWindowExpired
	}
}

// Delete removes an owned post. Comments and likes go with it through
// ON DELETE CASCADE; the media keys of the post and its comments are returned.
func (r *postgresPostRepo) Delete(ctx context.Context, id, userID int64) ([]string, error) {
	query := `
		WITH doomed AS (
			DELETE FROM posts WHERE id = $1 AND user_id = $2
			RETURNING id, media
		)
		SELECT TRUE, media FROM doomed
		UNION ALL
		SELECT FALSE, c.media FROM comments c JOIN doomed d ON c.post_id = d.id
		WHERE c.media <> ''`

	rows, err := r.db.QueryContext(ctx, query, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete post: %w", err)
	}
	defer func() { _ = rows.Close() }()

	deleted := false
	var keys []string
	for rows.Next() {
		var isPost bool
		var key string
		if err := rows.Scan(&isPost, &key); err != nil {
			return nil, fmt.Errorf("failed to scan deleted media: %w", err)
		}
		if isPost {
			deleted = true
		}
		if key != "" {
			keys = append(keys, key)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deleted media: %w", err)
	}
	if !deleted {
		return nil, posts.ErrNotFound
	}
	return keys, nil
}
