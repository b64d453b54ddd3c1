package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memRevocations struct {
	mu      sync.Mutex
	entries map[string]time.Time
	lookups int
	fail    error
}

func newMemRevocations() *memRevocations {
	return &memRevocations{entries: make(map[string]time.Time)}
}

func (m *memRevocations) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.entries[jti] = expiresAt
	return nil
}

func (m *memRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if m.fail != nil {
		return false, m.fail
	}
	_, ok := m.entries[jti]
	return ok, nil
}

func (m *memRevocations) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, exp := range m.entries {
		if exp.Before(now) {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newIssuer(now func() time.Time) *TokenIssuer {
	return NewTokenIssuer("test-secret", "agora", 15*time.Minute, 24*time.Hour, now)
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.NoError(t, h.Compare(hash, "hunter22"))
	assert.ErrorIs(t, h.Compare(hash, "wrong"), ErrPasswordMismatch)
}

func TestBcryptHasher_InvalidCostFallsBack(t *testing.T) {
	h := NewBcryptHasher(100)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
}

func TestIssueAndVerify(t *testing.T) {
	issuer := newIssuer(func() time.Time { return fixedNow })

	pair, err := issuer.IssuePair(42)
	require.NoError(t, err)

	claims, err := issuer.Verify(pair.Access, TokenTypeAccess)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "agora", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, fixedNow.Add(15*time.Minute), claims.ExpiresAt.Time.UTC())

	refresh, err := issuer.Verify(pair.Refresh, TokenTypeRefresh)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, refresh.ID)
}

func TestVerify_WrongType(t *testing.T) {
	issuer := newIssuer(func() time.Time { return fixedNow })
	pair, err := issuer.IssuePair(1)
	require.NoError(t, err)

	_, err = issuer.Verify(pair.Refresh, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)
	_, err = issuer.Verify(pair.Access, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestVerify_Expired(t *testing.T) {
	now := fixedNow
	issuer := newIssuer(func() time.Time { return now })
	token, err := issuer.Issue(1, TokenTypeAccess)
	require.NoError(t, err)

	now = fixedNow.Add(16 * time.Minute)
	_, err = issuer.Verify(token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.True(t, IsTokenError(err))
}

func TestVerify_RejectsForeignTokens(t *testing.T) {
	issuer := newIssuer(func() time.Time { return fixedNow })

	other := NewTokenIssuer("other-secret", "agora", time.Minute, time.Hour, func() time.Time { return fixedNow })
	token, err := other.Issue(1, TokenTypeAccess)
	require.NoError(t, err)
	_, err = issuer.Verify(token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer := NewTokenIssuer("test-secret", "someone-else", time.Minute, time.Hour, func() time.Time { return fixedNow })
	token, err = wrongIssuer.Issue(1, TokenTypeAccess)
	require.NoError(t, err)
	_, err = issuer.Verify(token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Verify("not.a.token", "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	issuer := newIssuer(func() time.Time { return fixedNow })
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "x",
			Issuer:    "agora",
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(fixedNow.Add(time.Hour)),
		},
		TokenType: TokenTypeAccess,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Verify(token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_RefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	repo := newMemRevocations()
	tokens := NewTokens(newIssuer(nil), NewRevocationList(repo, 16))

	pair, err := tokens.Login(7)
	require.NoError(t, err)

	access, err := tokens.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	claims, err := tokens.VerifyAccess(access)
	require.NoError(t, err)
	id, _ := claims.UserID()
	assert.Equal(t, int64(7), id)

	_, err = tokens.Refresh(ctx, pair.Access)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	require.NoError(t, tokens.Logout(ctx, pair.Refresh))

	_, err = tokens.Refresh(ctx, pair.Refresh)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	_, err = tokens.Verify(ctx, pair.Refresh)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	assert.ErrorIs(t, tokens.Logout(ctx, pair.Refresh), ErrTokenRevoked)

	// Access tokens stay valid until they expire
	_, err = tokens.Verify(ctx, pair.Access)
	assert.NoError(t, err)
}

func TestRevocationList_CachesPositives(t *testing.T) {
	ctx := context.Background()
	repo := newMemRevocations()
	repo.entries["known"] = fixedNow.Add(time.Hour)
	list := NewRevocationList(repo, 4)

	revoked, err := list.IsRevoked(ctx, "known")
	require.NoError(t, err)
	assert.True(t, revoked)
	revoked, err = list.IsRevoked(ctx, "known")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, 1, repo.lookups)

	revoked, err = list.IsRevoked(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, revoked)
	_, _ = list.IsRevoked(ctx, "unknown")
	assert.Equal(t, 3, repo.lookups, "negatives are not cached")
}

func TestRevocationList_RepositoryError(t *testing.T) {
	repo := newMemRevocations()
	repo.fail = errors.New("db down")
	list := NewRevocationList(repo, 4)

	_, err := list.IsRevoked(context.Background(), "x")
	assert.Error(t, err)
	assert.Error(t, list.Revoke(context.Background(), "x", fixedNow))
}
