package post

import (
	"net/http"

	"Agora/internal/api/handlers"
	"Agora/internal/core/posts"
)

// UpdateHandler edits posts inside the edit window
type UpdateHandler struct {
	service        posts.Service
	renderer       *handlers.Renderer
	maxUploadBytes int64
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(service posts.Service, renderer *handlers.Renderer, maxUploadBytes int64) *UpdateHandler {
	return &UpdateHandler{
		service:        service,
		renderer:       renderer,
		maxUploadBytes: maxUploadBytes,
	}
}

// HandleUpdate edits a post. PUT requires text; PATCH changes only what is present.
// PUT|PATCH /api/posts/{id}/
func (h *UpdateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
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

	req := posts.UpdatePostRequest{
		Text:    form.StringPtr("text"),
		Media:   form.File,
		Partial: r.Method == http.MethodPatch,
	}
	updated, err := h.service.UpdatePost(r.Context(), actorID, id, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, h.renderer.For(r).PostWrite(updated))
}
