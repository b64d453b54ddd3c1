package comments

import (
	"net/http"

	"Agora/internal/api/handlers"
	"Agora/internal/core/comments"
)

// DeleteCommentHandler handles comment deletion requests
type DeleteCommentHandler struct {
	service comments.Service
}

// NewDeleteCommentHandler creates a new handler for deleting comments
func NewDeleteCommentHandler(service comments.Service) *DeleteCommentHandler {
	return &DeleteCommentHandler{
		service: service,
	}
}

// HandleDelete removes an owned comment and its likes
// DELETE /api/comments/{id}/
func (h *DeleteCommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}
	id, err := handlers.ParseID(r, "id")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.service.DeleteComment(r.Context(), actorID, id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
