package session

import (
	"errors"
	"net/http"

	"Agora/internal/api/handlers"
	"Agora/internal/auth"
	"Agora/internal/core/users"
)

// handleServiceError maps account and token errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	var valErr *users.ValidationError
	switch {
	case handlers.HandleCommonError(w, err):

	case errors.As(err, &valErr):
		handlers.WriteValidationError(w, valErr.Field, valErr.Message)

	case errors.Is(err, users.ErrInvalidCredentials):
		handlers.WriteError(w, http.StatusUnauthorized, "InvalidCredentials", err.Error())

	case errors.Is(err, auth.ErrTokenRevoked):
		handlers.WriteError(w, http.StatusUnauthorized, "TokenRevoked", "Token is blacklisted")

	case auth.IsTokenError(err):
		handlers.WriteError(w, http.StatusUnauthorized, "InvalidToken", "Token is invalid or expired")

	default:
		handlers.WriteInternalError(w, "session", err)
	}
}
