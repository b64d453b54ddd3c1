package like

import (
	"net/http"

	"Agora/internal/api/handlers"
)

// HandleUnlike removes the target from the caller's liked set
// POST /api/posts/{id}/unlike/, POST /api/comments/{id}/unlike/
func (h *Handler) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	actorID, target, ok := h.resolve(w, r)
	if !ok {
		return
	}

	if err := h.service.Unlike(r.Context(), actorID, target); err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteMessage(w, http.StatusOK, "Unliked!")
}
