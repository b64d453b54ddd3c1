package auth

import "errors"

var (
	// ErrInvalidToken is returned for malformed tokens, bad signatures or wrong issuers
	ErrInvalidToken = errors.New("token is invalid")

	// ErrTokenExpired is returned when a token's exp claim has passed
	ErrTokenExpired = errors.New("token is expired")

	// ErrWrongTokenType is returned when a refresh token is used as an access token or vice versa
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrTokenRevoked is returned for refresh tokens that were blacklisted on logout
	ErrTokenRevoked = errors.New("token is blacklisted")

	// ErrPasswordMismatch is returned when a password does not match its hash
	ErrPasswordMismatch = errors.New("password does not match")
)

// IsTokenError reports whether err means the caller presented an unusable token
func IsTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrWrongTokenType) ||
		errors.Is(err, ErrTokenRevoked)
}
