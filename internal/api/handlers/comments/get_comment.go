package comments

import (
	"net/http"

	"Agora/internal/api/handlers"
	"Agora/internal/core/feeds"
)

// GetCommentHandler serves the comment detail
type GetCommentHandler struct {
	feeds    feeds.Service
	renderer *handlers.Renderer
}

// NewGetCommentHandler creates a new comment detail handler
func NewGetCommentHandler(service feeds.Service, renderer *handlers.Renderer) *GetCommentHandler {
	return &GetCommentHandler{
		feeds:    service,
		renderer: renderer,
	}
}

// HandleGet returns a comment with the post it belongs to
// GET /api/comments/{id}/
func (h *GetCommentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.ParseID(r, "id")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	detail, err := h.feeds.GetCommentDetail(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, h.renderer.For(r).CommentDetail(detail))
}
