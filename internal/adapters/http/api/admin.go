package api

import (
	"net/http"

	"github.com/okian/barhop/pkg/logger"
)

type reloadResponse struct {
	Venues   int `json:"venues"`
	Rejected int `json:"rejected"`
}

// handleReload handles POST /admin/reload. A failed reload keeps the
// previous table active.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.admin_reload"

	res, err := s.deps.Reload(r.Context())
	if err != nil {
		s.fail(r, w, op, err)
		return
	}
	s.logger.Info(r.Context(), "dataset reloaded via api",
		logger.Int("venues", len(res.Venues)),
		logger.Int("rejected", res.Rejected),
	)
	writeJSON(w, http.StatusOK, reloadResponse{Venues: len(res.Venues), Rejected: res.Rejected})
}
