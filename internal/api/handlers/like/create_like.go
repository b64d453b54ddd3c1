package like

import (
	"net/http"

	"Agora/internal/api/handlers"
	"Agora/internal/core/likes"
)

// Handler likes and unlikes one kind of target. The same handler type
// serves /posts/{id}/ and /comments/{id}/, dispatching on kind.
type Handler struct {
	service likes.Service
	kind    likes.TargetKind
}

// NewHandler creates a like handler for targets of kind
func NewHandler(service likes.Service, kind likes.TargetKind) *Handler {
	return &Handler{
		service: service,
		kind:    kind,
	}
}

// HandleLike adds the target to the caller's liked set
// POST /api/posts/{id}/like/, POST /api/comments/{id}/like/
func (h *Handler) HandleLike(w http.ResponseWriter, r *http.Request) {
	actorID, target, ok := h.resolve(w, r)
	if !ok {
		return
	}

	if err := h.service.Like(r.Context(), actorID, target); err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteMessage(w, http.StatusOK, "Liked!")
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (int64, likes.Target, bool) {
	actorID, ok := handlers.RequireUser(w, r)
	if !ok {
		return 0, likes.Target{}, false
	}
	id, err := handlers.ParseID(r, "id")
	if err != nil {
		handleServiceError(w, err)
		return 0, likes.Target{}, false
	}
	return actorID, likes.Target{Kind: h.kind, ID: id}, true
}
