package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Agora/internal/core/likes"
)

// ledger names the table and target column of one like ledger
type ledger struct {
	table  string
	column string
	parent string
}

var ledgers = map[likes.TargetKind]ledger{
	likes.KindPost:    {table: "post_likes", column: "post_id", parent: "posts"},
	likes.KindComment: {table: "comment_likes", column: "comment_id", parent: "comments"},
}

func ledgerFor(target likes.Target) (ledger, error) {
	if err := target.Validate(); err != nil {
		return ledger{}, err
	}
	return ledgers[target.Kind], nil
}

type postgresLikeRepo struct {
	db *sql.DB
}

// NewLikeRepository creates a new PostgreSQL like repository
func NewLikeRepository(db *sql.DB) likes.Repository {
	return &postgresLikeRepo{db: db}
}

// Add inserts the like with ON CONFLICT DO NOTHING; zero affected rows means
// it was already there.
func (r *postgresLikeRepo) Add(ctx context.Context, userID int64, target likes.Target) error {
	l, err := ledgerFor(target)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, %s)
		VALUES ($1, $2)
		ON CONFLICT (user_id, %s) DO NOTHING`, l.table, l.column, l.column)

	result, err := r.db.ExecContext(ctx, query, userID, target.ID)
	if err != nil {
		switch {
		case constraintViolation(err, foreignKeyViolation, ""):
			return likes.ErrTargetNotFound
		case constraintViolation(err, uniqueViolation, ""):
			return likes.ErrAlreadyLiked
		}
		return fmt.Errorf("failed to add %s like: %w", target.Kind, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check like result: %w", err)
	}
	if rows == 0 {
		return likes.ErrAlreadyLiked
	}
	return nil
}

// Remove deletes the like
func (r *postgresLikeRepo) Remove(ctx context.Context, userID int64, target likes.Target) error {
	l, err := ledgerFor(target)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND %s = $2`, l.table, l.column)
	result, err := r.db.ExecContext(ctx, query, userID, target.ID)
	if err != nil {
		return fmt.Errorf("failed to remove %s like: %w", target.Kind, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check unlike result: %w", err)
	}
	if rows == 0 {
		return likes.ErrNotLiked
	}
	return nil
}

// Exists reports whether userID likes target
func (r *postgresLikeRepo) Exists(ctx context.Context, userID int64, target likes.Target) (bool, error) {
	l, err := ledgerFor(target)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE user_id = $1 AND %s = $2)`, l.table, l.column)
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, target.ID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s like: %w", target.Kind, err)
	}
	return exists, nil
}

// Count returns how many users like target
func (r *postgresLikeRepo) Count(ctx context.Context, target likes.Target) (int, error) {
	l, err := ledgerFor(target)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, l.table, l.column)
	var count int
	if err := r.db.QueryRowContext(ctx, query, target.ID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s likes: %w", target.Kind, err)
	}
	return count, nil
}

// NewLikeTargetValidator checks post and comment existence against the database
func NewLikeTargetValidator(db *sql.DB) likes.TargetValidator {
	return likes.NewCompositeTargetValidator(
		existsIn(db, ledgers[likes.KindPost].parent),
		existsIn(db, ledgers[likes.KindComment].parent),
	)
}

func existsIn(db *sql.DB, table string) likes.ExistsFunc {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table)
	return func(ctx context.Context, id int64) (bool, error) {
		var exists bool
		if err := db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
			return false, fmt.Errorf("failed to check %s existence: %w", table, err)
		}
		return exists, nil
	}
}
