package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"Agora/internal/auth"
)

type postgresRevokedTokenRepo struct {
	db *sql.DB
}

// NewRevokedTokenRepository creates a new PostgreSQL store of revoked refresh tokens
func NewRevokedTokenRepository(db *sql.DB) auth.RevocationRepository {
	return &postgresRevokedTokenRepo{db: db}
}

// Revoke records jti. Revoking twice is a no-op.
func (r *postgresRevokedTokenRepo) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	query := `
		INSERT INTO revoked_tokens (jti, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, jti, expiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether jti was revoked
func (r *postgresRevokedTokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`, jti).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}
	return revoked, nil
}

// DeleteExpired drops entries whose tokens would be rejected as expired anyway
func (r *postgresRevokedTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired revoked tokens: %w", err)
	}
	return result.RowsAffected()
}
