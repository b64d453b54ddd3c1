package post

import (
	"net/http"

	"Agora/internal/api/handlers"
	"Agora/internal/core/posts"
)

// CreateHandler handles post creation
type CreateHandler struct {
	service        posts.Service
	renderer       *handlers.Renderer
	maxUploadBytes int64
}

// NewCreateHandler creates a new create handler
func NewCreateHandler(service posts.Service, renderer *handlers.Renderer, maxUploadBytes int64) *CreateHandler {
	return &CreateHandler{
		service:        service,
		renderer:       renderer,
		maxUploadBytes: maxUploadBytes,
	}
}

// HandleCreate publishes a post now
// POST /api/posts/
//
// Body: JSON { "text": "..." } or multipart with "text" and an optional "media" file.
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actorID, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	form, err := handlers.ReadForm(w, r, "media", h.maxUploadBytes)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	text, _ := form.Get("text")

	created, err := h.service.CreatePost(r.Context(), actorID, posts.CreatePostRequest{Text: text, Media: form.File})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, h.renderer.For(r).PostWrite(created))
}
