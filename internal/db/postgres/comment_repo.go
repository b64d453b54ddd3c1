package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"Agora/internal/core/comments"
)

const commentColumns = `id, user_id, post_id, text, media, created_at`

type postgresCommentRepo struct {
	db *sql.DB
}

// NewCommentRepository creates a new PostgreSQL comment repository
func NewCommentRepository(db *sql.DB) comments.Repository {
	return &postgresCommentRepo{db: db}
}

func scanComment(row rowScanner) (*comments.Comment, error) {
	c := &comments.Comment{}
	if err := row.Scan(&c.ID, &c.UserID, &c.PostID, &c.Text, &c.Media, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a comment. A missing post surfaces as a foreign key violation.
func (r *postgresCommentRepo) Create(ctx context.Context, comment *comments.Comment) (*comments.Comment, error) {
	query := `
		INSERT INTO comments (user_id, post_id, text, media)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + commentColumns

	created, err := scanComment(r.db.QueryRowContext(ctx, query,
		comment.UserID, comment.PostID, comment.Text, comment.Media))
	if err != nil {
		if constraintViolation(err, foreignKeyViolation, "comments_post_id_fkey") {
			return nil, comments.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return created, nil
}

// GetByID retrieves a comment by ID
func (r *postgresCommentRepo) GetByID(ctx context.Context, id int64) (*comments.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, comments.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return c, nil
}

// Update writes text and media if the comment is owned and still inside the window
func (r *postgresCommentRepo) Update(ctx context.Context, comment *comments.Comment, window time.Duration) (*comments.Comment, error) {
	query := `
		UPDATE comments
		SET text = $3, media = $4
		WHERE id = $1 AND user_id = $2 AND created_at > NOW() - make_interval(secs => $5)
		RETURNING ` + commentColumns

	updated, err := scanComment(r.db.QueryRowContext(ctx, query,
		comment.ID, comment.UserID, comment.Text, comment.Media, window.Seconds()))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	var ownerID int64
	err = r.db.QueryRowContext(ctx, `SELECT user_id FROM comments WHERE id = $1`, comment.ID).Scan(&ownerID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, comments.ErrCommentNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to check comment after update: %w", err)
	case ownerID != comment.UserID:
		return nil, comments.ErrPermissionDenied
	default:
		return nil, comments.ErrEditWindowExpired
	}
}

// Delete removes an owned comment and returns its media key
func (r *postgresCommentRepo) Delete(ctx context.Context, id, userID int64) (string, error) {
	var media string
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM comments WHERE id = $1 AND user_id = $2 RETURNING media`, id, userID).Scan(&media)
	if errors.Is(err, sql.ErrNoRows) {
		return "", comments.ErrCommentNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to delete comment: %w", err)
	}
	return media, nil
}
