package handler

import (
	"net/http"
	"os"

	"github.com/rs/zerolog/log"
)

// PageHandler serves the application HTML document.
type PageHandler struct {
	path string
}

// NewPageHandler creates a handler serving the document at path.
func NewPageHandler(path string) *PageHandler {
	return &PageHandler{path: path}
}

// Serve reads the document from disk on every request so edits show up
// without a restart. A read failure answers 500 with a plain-text body.
func (h *PageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(h.path)
	if err != nil {
		log.Error().Err(err).Str("path", h.path).Msg("failed to read page")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Error loading page"))
		return
	}

	w.Header().Set("Content-Type", "text/html")
	w.Write(data)
}
