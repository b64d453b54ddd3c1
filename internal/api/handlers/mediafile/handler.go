// Package mediafile serves stored uploads from the local blob store.
package mediafile

import (
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"strings"

	"Agora/internal/api/handlers"
	"Agora/internal/core/media"
)

// FileOpener opens stored blobs for reading
type FileOpener interface {
	OpenFile(key string) (*os.File, fs.FileInfo, error)
}

// Handler serves published media. Temporary blobs of scheduled posts and
// directories answer 404. Content-Type comes from the stored extension and
// browsers are told not to sniff it.
type Handler struct {
	store FileOpener
}

// NewHandler creates a new media handler. Mount it behind http.StripPrefix.
func NewHandler(store FileOpener) *Handler {
	return &Handler{store: store}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		handlers.WriteError(w, http.StatusMethodNotAllowed, "MethodNotAllowed", "Method not allowed.")
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/")
	if key == "" || strings.HasSuffix(key, "/") || media.IsTempKey(key) {
		writeNotFound(w)
		return
	}

	f, info, err := h.store.OpenFile(key)
	if err != nil {
		if errors.Is(err, media.ErrNotFound) || errors.Is(err, media.ErrInvalidKey) {
			writeNotFound(w)
			return
		}
		log.Printf("Failed to open media %s: %v", key, err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
		return
	}
	defer func() { _ = f.Close() }()

	w.Header().Set("Content-Type", media.ContentType(key))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, "", info.ModTime(), f)
}

func writeNotFound(w http.ResponseWriter) {
	handlers.WriteError(w, http.StatusNotFound, "NotFound", "Not found.")
}
