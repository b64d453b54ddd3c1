package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Agora/internal/core/users"
)

type postgresSubscriptionRepo struct {
	db *sql.DB
}

// NewSubscriptionRepository creates a new PostgreSQL subscription repository
func NewSubscriptionRepository(db *sql.DB) users.SubscriptionRepository {
	return &postgresSubscriptionRepo{db: db}
}

// Subscribe inserts the edge in one statement; the composite key is the backstop
// against concurrent identical requests.
func (r *postgresSubscriptionRepo) Subscribe(ctx context.Context, subscriberID, targetID int64) error {
	query := `
		INSERT INTO subscriptions (subscriber_id, target_id)
		VALUES ($1, $2)
		ON CONFLICT (subscriber_id, target_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, subscriberID, targetID)
	if err != nil {
		switch {
		case constraintViolation(err, checkViolation, "subscriptions_no_self"):
			return users.ErrSelfSubscription
		case constraintViolation(err, foreignKeyViolation, ""):
			return users.ErrUserNotFound
		case constraintViolation(err, uniqueViolation, ""):
			return users.ErrAlreadySubscribed
		}
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check subscribe result: %w", err)
	}
	if rows == 0 {
		return users.ErrAlreadySubscribed
	}
	return nil
}

// Unsubscribe removes the edge
func (r *postgresSubscriptionRepo) Unsubscribe(ctx context.Context, subscriberID, targetID int64) error {
	query := `DELETE FROM subscriptions WHERE subscriber_id = $1 AND target_id = $2`

	result, err := r.db.ExecContext(ctx, query, subscriberID, targetID)
	if err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check unsubscribe result: %w", err)
	}
	if rows == 0 {
		return users.ErrNotSubscribed
	}
	return nil
}
