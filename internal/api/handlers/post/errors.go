package post

import (
	"errors"
	"net/http"

	"Agora/internal/api/handlers"
	"Agora/internal/core/feeds"
	"Agora/internal/core/posts"
	"Agora/internal/core/scheduling"
)

// handleServiceError maps post, feed and scheduling errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	var (
		postErr     *posts.ValidationError
		scheduleErr *scheduling.ValidationError
	)
	switch {
	case handlers.HandleCommonError(w, err):

	case errors.As(err, &postErr):
		handlers.WriteValidationError(w, postErr.Field, postErr.Message)

	case errors.As(err, &scheduleErr):
		handlers.WriteValidationError(w, scheduleErr.Field, scheduleErr.Message)

	case posts.IsNotFound(err), feeds.IsNotFound(err), scheduling.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, "NotFound", "Not found.")

	case errors.Is(err, posts.ErrPermissionDenied):
		handlers.WriteError(w, http.StatusForbidden, "PermissionDenied", err.Error())

	case errors.Is(err, posts.ErrEditWindowExpired):
		handlers.WriteError(w, http.StatusForbidden, "EditWindowExpired", "Cannot edit after the edit window")

	case scheduling.IsConflict(err):
		handlers.WriteError(w, http.StatusConflict, "Conflict", err.Error())

	default:
		handlers.WriteInternalError(w, "post", err)
	}
}
