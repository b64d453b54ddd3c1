package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"Agora/internal/auth"
)

// Context keys for storing user information
type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	JWTClaimsKey contextKey = "jwt_claims"
)

// AccessVerifier validates bearer access tokens
type AccessVerifier interface {
	VerifyAccess(token string) (*auth.Claims, error)
}

// AuthMiddleware authenticates requests carrying a bearer access token
type AuthMiddleware struct {
	verifier AccessVerifier
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(verifier AccessVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth middleware ensures the user is authenticated with a valid access token.
// If not authenticated, returns 401.
// If authenticated, injects the user ID and claims into context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeAuthError(w, "Authentication credentials were not provided.")
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			writeAuthError(w, "Invalid Authorization header format. Expected: Bearer <token>")
			return
		}

		claims, userID, err := m.authenticate(token)
		if err != nil {
			log.Printf("[AUTH_FAILURE] ip=%s method=%s path=%s error=%v",
				r.RemoteAddr, r.Method, r.URL.Path, err)
			writeAuthError(w, "Given token not valid for any token type")
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), userID, claims)))
	})
}

// OptionalAuth loads user info if authenticated, but doesn't require it.
// Used by read endpoints open to anonymous callers.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, userID, err := m.authenticate(token)
		if err != nil {
			log.Printf("Optional auth failed: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), userID, claims)))
	})
}

func (m *AuthMiddleware) authenticate(token string) (*auth.Claims, int64, error) {
	claims, err := m.verifier.VerifyAccess(token)
	if err != nil {
		return nil, 0, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, 0, err
	}
	return claims, userID, nil
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

func withUser(ctx context.Context, userID int64, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, JWTClaimsKey, claims)
}

// GetUserID extracts the authenticated user's ID from the request context.
// Returns false if not authenticated.
func GetUserID(r *http.Request) (int64, bool) {
	id, ok := r.Context().Value(UserIDKey).(int64)
	return id, ok && id > 0
}

// GetJWTClaims extracts the token claims from the request context.
// Returns nil if not authenticated.
func GetJWTClaims(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(JWTClaimsKey).(*auth.Claims)
	return claims
}

// SetTestUserID sets the user ID in the context for testing purposes.
// This function should ONLY be used in tests to mock authenticated users.
func SetTestUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// writeAuthError writes a JSON error response for authentication failures
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	w.WriteHeader(http.StatusUnauthorized)
	response := `{"error":"AuthenticationRequired","message":"` + message + `"}`
	if _, err := w.Write([]byte(response)); err != nil {
		log.Printf("Failed to write auth error response: %v", err)
	}
}
