package comments

import (
	"net/http"

	"Agora/internal/api/middleware"
)

// OptionalAuthMiddleware wraps a read handler so the viewer is known when a
// valid token is present and the request continues anonymously otherwise.
func OptionalAuthMiddleware(authMiddleware *middleware.AuthMiddleware, next http.HandlerFunc) http.Handler {
	return authMiddleware.OptionalAuth(next)
}
