package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// RevocationRepository persists revoked token IDs until they expire
type RevocationRepository interface {
	// Revoke records jti as revoked. Idempotent.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error

	// IsRevoked reports whether jti was revoked
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// DeleteExpired removes entries whose tokens have expired anyway
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// RevocationList fronts the repository with a bounded LRU of known-revoked IDs.
// Revocation is permanent, so positive entries never go stale; negatives are not cached.
type RevocationList struct {
	repo  RevocationRepository
	cache *lru.Cache[string, struct{}]
}

// NewRevocationList creates a revocation list with a cache of size entries
func NewRevocationList(repo RevocationRepository, size int) *RevocationList {
	if size <= 0 {
		size = 1024
	}
	cache, err := lru.New[string, struct{}](size)
	if err != nil {
		slog.Warn("failed to create revoked token cache, falling back to minimal cache", slog.String("error", err.Error()))
		cache, _ = lru.New[string, struct{}](1)
	}
	return &RevocationList{repo: repo, cache: cache}
}

func (l *RevocationList) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if err := l.repo.Revoke(ctx, jti, expiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	l.cache.Add(jti, struct{}{})
	return nil
}

func (l *RevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if l.cache.Contains(jti) {
		return true, nil
	}
	revoked, err := l.repo.IsRevoked(ctx, jti)
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		l.cache.Add(jti, struct{}{})
	}
	return revoked, nil
}

// Tokens implements the refresh, verify and logout flows on top of an issuer
type Tokens struct {
	issuer  *TokenIssuer
	revoked *RevocationList
}

// NewTokens creates the token flows
func NewTokens(issuer *TokenIssuer, revoked *RevocationList) *Tokens {
	return &Tokens{issuer: issuer, revoked: revoked}
}

// Issuer returns the underlying issuer
func (t *Tokens) Issuer() *TokenIssuer {
	return t.issuer
}

// Login issues a token pair for an already authenticated user
func (t *Tokens) Login(userID int64) (*TokenPair, error) {
	return t.issuer.IssuePair(userID)
}

// Refresh exchanges a valid, non-revoked refresh token for a new access token
func (t *Tokens) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := t.verifyRefresh(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	userID, err := claims.UserID()
	if err != nil {
		return "", err
	}
	return t.issuer.Issue(userID, TokenTypeAccess)
}

// Verify checks any token issued by the API; refresh tokens must not be revoked
func (t *Tokens) Verify(ctx context.Context, token string) (*Claims, error) {
	claims, err := t.issuer.Verify(token, "")
	if err != nil {
		return nil, err
	}
	if claims.TokenType == TokenTypeRefresh {
		if err := t.checkRevoked(ctx, claims.ID); err != nil {
			return nil, err
		}
	}
	return claims, nil
}

// VerifyAccess checks a bearer access token
func (t *Tokens) VerifyAccess(token string) (*Claims, error) {
	return t.issuer.VerifyAccess(token)
}

// Logout blacklists a refresh token. Logging out twice fails with ErrTokenRevoked.
func (t *Tokens) Logout(ctx context.Context, refreshToken string) error {
	claims, err := t.verifyRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	return t.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (t *Tokens) verifyRefresh(ctx context.Context, token string) (*Claims, error) {
	claims, err := t.issuer.Verify(token, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	if err := t.checkRevoked(ctx, claims.ID); err != nil {
		return nil, err
	}
	return claims, nil
}

func (t *Tokens) checkRevoked(ctx context.Context, jti string) error {
	revoked, err := t.revoked.IsRevoked(ctx, jti)
	if err != nil {
		return err
	}
	if revoked {
		return ErrTokenRevoked
	}
	return nil
}
