package http

import (
	_ "embed"
	"net/http"
)

//go:embed viewer.html
var viewerHTML []byte

// GetViewer serves the canvas viewer page, which draws over /ws.
func (s *Server) GetViewer(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(viewerHTML); err != nil {
		s.Logger.Error("GetViewer response write failed", "err", err)
	}
}
