package comments

import (
	"errors"
	"net/http"

	"Agora/internal/api/handlers"
	"Agora/internal/core/comments"
	"Agora/internal/core/feeds"
)

// handleServiceError maps service-layer errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	var valErr *comments.ValidationError
	switch {
	case handlers.HandleCommonError(w, err):

	case errors.As(err, &valErr):
		handlers.WriteValidationError(w, valErr.Field, valErr.Message)

	case comments.IsNotFound(err), feeds.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, "NotFound", err.Error())

	case errors.Is(err, comments.ErrPermissionDenied):
		handlers.WriteError(w, http.StatusForbidden, "PermissionDenied", err.Error())

	case errors.Is(err, comments.ErrEditWindowExpired):
		handlers.WriteError(w, http.StatusForbidden, "EditWindowExpired", "Cannot edit after the edit window")

	default:
		handlers.WriteInternalError(w, "comments", err)
	}
}
