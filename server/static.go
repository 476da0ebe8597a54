package server

import (
	"net/http"
	"os"
	"strconv"
)

// handleIndex reads the page from disk on every request.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := os.ReadFile(s.cfg.StaticFile)
	if err != nil {
		s.logger.WithError(err).WithField("file", s.cfg.StaticFile).Warn("static page unavailable")
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(page)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}
