package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/okian/barhop/internal/adapters/repository"
	"github.com/okian/barhop/internal/domain/model"
	"github.com/okian/barhop/internal/domain/styles"
	"github.com/okian/barhop/internal/domain/tags"
)

type venueListResponse struct {
	Count  int           `json:"count"`
	Venues []model.Venue `json:"venues"`
}

// handleListVenues handles GET /venues?style=&music=&limit=.
func (s *Server) handleListVenues(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_venues"

	q := r.URL.Query()
	f := repository.Filter{
		Style: strings.TrimSpace(q.Get("style")),
		Music: tags.CanonicalMusic(q.Get("music")),
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.fail(r, w, op, fmt.Errorf("%w: limit must be an integer", ErrBadRequest))
			return
		}
		f.Limit = n
	}

	venues, err := s.deps.Venues(r.Context(), f)
	if err != nil {
		s.fail(r, w, op, err)
		return
	}
	if venues == nil {
		venues = []model.Venue{}
	}
	writeJSON(w, http.StatusOK, venueListResponse{Count: len(venues), Venues: venues})
}

type venueResponse struct {
	model.Venue
	Marker styles.Marker `json:"marker"`
}

// handleGetVenue handles GET /venues/{id}.
func (s *Server) handleGetVenue(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_venue"

	v, err := s.deps.Venue(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(r, w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, venueResponse{Venue: v, Marker: styles.ForVenue(v)})
}
