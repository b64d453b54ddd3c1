package post

import (
	"net/http"

	"Agora/internal/api/handlers"
	"Agora/internal/core/posts"
)

// DeleteHandler removes posts with their comments and likes
type DeleteHandler struct {
	service posts.Service
}

// NewDeleteHandler creates a new delete handler
func NewDeleteHandler(service posts.Service) *DeleteHandler {
	return &DeleteHandler{service: service}
}

// HandleDelete deletes an owned post
// DELETE /api/posts/{id}/
func (h *DeleteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}
	id, err := handlers.ParseID(r, "id")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.service.DeletePost(r.Context(), actorID, id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
