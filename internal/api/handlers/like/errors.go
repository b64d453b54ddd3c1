package like

import (
	"errors"
	"net/http"

	"Agora/internal/api/handlers"
	"Agora/internal/core/likes"
)

// handleServiceError maps like ledger errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case handlers.HandleCommonError(w, err):

	case likes.IsNotFound(err), errors.Is(err, likes.ErrInvalidTarget):
		handlers.WriteError(w, http.StatusNotFound, "NotFound", "Not found.")

	case errors.Is(err, likes.ErrAlreadyLiked):
		handlers.WriteError(w, http.StatusBadRequest, "AlreadyLiked", "Already liked")

	case errors.Is(err, likes.ErrNotLiked):
		handlers.WriteError(w, http.StatusBadRequest, "NotLiked", "Not liked")

	default:
		handlers.WriteInternalError(w, "like", err)
	}
}
