package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"Agora/internal/core/feeds"
)

type postgresFeedRepo struct {
	db *sql.DB
}

// NewFeedRepository creates a new PostgreSQL feed repository
func NewFeedRepository(db *sql.DB) feeds.Repository {
	return &postgresFeedRepo{db: db}
}

// CountPosts counts the posts of view
func (r *postgresFeedRepo) CountPosts(ctx context.Context, view feeds.PostView) (int, error) {
	where, args, err := viewFilter(view)
	if err != nil {
		return 0, err
	}

	var count int
	query := `SELECT COUNT(*) FROM posts p WHERE ` + where
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s feed: %w", view.Kind, err)
	}
	return count, nil
}

// ListPosts returns one page of view, newest first
func (r *postgresFeedRepo) ListPosts(ctx context.Context, view feeds.PostView, limit, offset int) ([]*feeds.PostRow, error) {
	where, args, err := viewFilter(view)
	if err != nil {
		return nil, err
	}

	n := len(args)
	query := `SELECT ` + postRowColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE ` + where + `
		` + newestFirst + `
		LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s feed: %w", view.Kind, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*feeds.PostRow
	for rows.Next() {
		p, err := scanPostRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed post: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed: %w", err)
	}
	return result, nil
}

// GetPost returns one post with its author and counts
func (r *postgresFeedRepo) GetPost(ctx context.Context, postID int64) (*feeds.PostRow, error) {
	query := `SELECT ` + postRowColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1`

	p, err := scanPostRow(r.db.QueryRowContext(ctx, query, postID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, feeds.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return p, nil
}

// CountComments counts a post's comments
func (r *postgresFeedRepo) CountComments(ctx context.Context, postID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}

// ListComments returns one page of a post's comments, newest first
func (r *postgresFeedRepo) ListComments(ctx context.Context, postID int64, limit, offset int) ([]*feeds.CommentRow, error) {
	query := `SELECT ` + commentRowColumns + `
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		` + newestCommentFirst + `
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, postID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*feeds.CommentRow
	for rows.Next() {
		c, err := scanCommentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return result, nil
}

// GetComment returns one comment with its author and like count
func (r *postgresFeedRepo) GetComment(ctx context.Context, commentID int64) (*feeds.CommentRow, error) {
	query := `SELECT ` + commentRowColumns + `
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1`

	c, err := scanCommentRow(r.db.QueryRowContext(ctx, query, commentID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, feeds.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return c, nil
}
