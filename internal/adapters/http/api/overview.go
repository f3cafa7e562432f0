package api

import (
	"net/http"

	"github.com/okian/barhop/internal/domain/styles"
)

// handleOverview handles GET /overview.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	o, err := s.deps.Overview(r.Context())
	if err != nil {
		s.fail(r, w, "api.overview", err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// handleStyles handles GET /styles.
func (s *Server) handleStyles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, styles.Palette())
}
