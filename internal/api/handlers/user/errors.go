package user

import (
	"errors"
	"net/http"

	"Agora/internal/api/handlers"
	"Agora/internal/core/users"
)

// handleServiceError maps user service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	var valErr *users.ValidationError
	switch {
	case handlers.HandleCommonError(w, err):

	case errors.As(err, &valErr):
		handlers.WriteValidationError(w, valErr.Field, valErr.Message)

	case users.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, "NotFound", "No user matches the given query.")

	case errors.Is(err, users.ErrAlreadySubscribed):
		handlers.WriteError(w, http.StatusBadRequest, "AlreadySubscribed", "Already subscribed")

	case errors.Is(err, users.ErrNotSubscribed):
		handlers.WriteError(w, http.StatusBadRequest, "NotSubscribed", "Not subscribed")

	case errors.Is(err, users.ErrSelfSubscription):
		handlers.WriteError(w, http.StatusBadRequest, "SelfSubscription", "Will not subscribe to self")

	default:
		handlers.WriteInternalError(w, "user", err)
	}
}
