package comments

import (
	"net/http"

	"Agora/internal/api/handlers"
	"Agora/internal/core/comments"
)

// CreateCommentHandler handles comment creation
type CreateCommentHandler struct {
	service        comments.Service
	renderer       *handlers.Renderer
	maxUploadBytes int64
}

// NewCreateCommentHandler creates a new handler for creating comments
func NewCreateCommentHandler(service comments.Service, renderer *handlers.Renderer, maxUploadBytes int64) *CreateCommentHandler {
	return &CreateCommentHandler{
		service:        service,
		renderer:       renderer,
		maxUploadBytes: maxUploadBytes,
	}
}

// HandleCreate attaches a comment by the caller to the post
// POST /api/posts/{id}/comment/
//
// Body: JSON { "text": "..." } or multipart with "text" and an optional "media" file.
func (h *CreateCommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actorID, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}
	postID, err := handlers.ParseID(r, "id")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	form, err := handlers.ReadForm(w, r, "media", h.maxUploadBytes)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	text, _ := form.Get("text")

	created, err := h.service.CreateComment(r.Context(), actorID, postID, comments.CreateCommentRequest{Text: text, Media: form.File})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, h.renderer.For(r).CommentWrite(created))
}
