package comments

import (
	"net/http"

	"Agora/internal/api/handlers"
	"Agora/internal/core/comments"
)

// UpdateCommentHandler handles comment update requests
type UpdateCommentHandler struct {
	service        comments.Service
	renderer       *handlers.Renderer
	maxUploadBytes int64
}

// NewUpdateCommentHandler creates a new handler for updating comments
func NewUpdateCommentHandler(service comments.Service, renderer *handlers.Renderer, maxUploadBytes int64) *UpdateCommentHandler {
	return &UpdateCommentHandler{
		service:        service,
		renderer:       renderer,
		maxUploadBytes: maxUploadBytes,
	}
}

// HandleUpdate edits an owned comment inside the edit window
// PUT|PATCH /api/comments/{id}/
func (h *UpdateCommentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actorID, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}
	id, err := handlers.ParseID(r, "id")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	form, err := handlers.ReadForm(w, r, "media", h.maxUploadBytes)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	req := comments.UpdateCommentRequest{
		Text:    form.StringPtr("text"),
		Media:   form.File,
		Partial: r.Method == http.MethodPatch,
	}
	updated, err := h.service.UpdateComment(r.Context(), actorID, id, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, h.renderer.For(r).CommentWrite(updated))
}
