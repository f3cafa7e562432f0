package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	service "github.com/okian/barhop/internal/app"
	"github.com/okian/barhop/internal/domain/model"
	"github.com/okian/barhop/internal/domain/scoring"
	"github.com/okian/barhop/internal/domain/styles"
	"github.com/okian/barhop/internal/domain/tags"
	"github.com/okian/barhop/internal/validation"
)

const maxRequestBytes = 1 << 16

// recommendRequest mirrors the OpenAPI schema for POST /recommendations.
type recommendRequest struct {
	PricePoint      *int     `json:"price_point" validate:"omitempty,gte=0,lte=100000"`
	Styles          []string `json:"styles" validate:"omitempty,max=16,dive,required,max=64"`
	Music           []string `json:"music" validate:"omitempty,max=16,dive,required,max=64"`
	TimeStart       string   `json:"time_start" validate:"omitempty,hhmm"`
	TimeEnd         string   `json:"time_end" validate:"omitempty,hhmm"`
	VenueType       string   `json:"venue_type" validate:"omitempty,max=64"`
	Ambiance        string   `json:"ambiance" validate:"omitempty,max=64"`
	Count           *int     `json:"count" validate:"omitempty,gte=1"`
	MinSeparationM  *float64 `json:"min_separation_m" validate:"omitempty,gte=0"`
	WalkingSpeedKmh *float64 `json:"walking_speed_kmh" validate:"omitempty,gt=0,lte=20"`
	Explain         bool     `json:"explain"`
}

// preferences converts the request. A missing budget falls back to
// defaultPrice; an explicit 0 leaves price out of the score.
func (req recommendRequest) preferences(defaultPrice int) model.Preferences {
	price := defaultPrice
	if req.PricePoint != nil {
		price = *req.PricePoint
	}
	music := make([]string, len(req.Music))
	for i, m := range req.Music {
		music[i] = tags.CanonicalMusic(m)
	}
	return model.Preferences{
		PricePoint: price,
		Styles:     model.NewTagSet(req.Styles...),
		Music:      model.NewTagSet(music...),
		TimeWindow: model.TimeWindow{Start: req.TimeStart, End: req.TimeEnd},
		VenueType:  strings.TrimSpace(req.VenueType),
		Ambiance:   strings.TrimSpace(req.Ambiance),
	}
}

func (req recommendRequest) params() service.RecommendParams {
	return service.RecommendParams{
		Count:           req.Count,
		MinSeparationM:  req.MinSeparationM,
		WalkingSpeedKmh: req.WalkingSpeedKmh,
	}
}

type stopResponse struct {
	Order     int                `json:"order"`
	Venue     model.Venue        `json:"venue"`
	Score     float64            `json:"score"`
	Marker    styles.Marker      `json:"marker"`
	Breakdown *scoring.Breakdown `json:"breakdown,omitempty"`
}

type itineraryResponse struct {
	ID                  string            `json:"id"`
	Stops               []stopResponse    `json:"stops"`
	Legs                []model.Leg       `json:"legs"`
	TotalDistanceMeters float64           `json:"total_distance_m"`
	TotalWalkingMinutes int               `json:"total_walking_min"`
	OutingMinutes       int               `json:"outing_min"`
	Backfilled          int               `json:"backfilled"`
	StyleDistribution   []styles.Count    `json:"style_distribution"`
	Preferences         model.Preferences `json:"preferences"`
}

func (s *Server) toResponse(it model.Itinerary, explain bool) itineraryResponse {
	stops := make([]stopResponse, len(it.Stops))
	for i, st := range it.Stops {
		stops[i] = stopResponse{
			Order:  i + 1,
			Venue:  st.Venue,
			Score:  st.Score,
			Marker: styles.ForVenue(st.Venue),
		}
		if explain {
			b := s.deps.Explain(st.Venue, it.Preferences)
			stops[i].Breakdown = &b
		}
	}
	return itineraryResponse{
		ID:                  it.ID,
		Stops:               stops,
		Legs:                it.Legs,
		TotalDistanceMeters: it.TotalDistanceMeters,
		TotalWalkingMinutes: it.TotalWalkingMinutes,
		OutingMinutes:       it.OutingMinutes,
		Backfilled:          it.Backfilled,
		StyleDistribution:   styles.Distribution(it.Stops),
		Preferences:         it.Preferences,
	}
}

// handleRecommend handles POST /recommendations.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_recommendation"

	var req recommendRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		s.fail(r, w, op, fmt.Errorf("%w: decode body: %v", ErrBadRequest, err))
		return
	}
	if err := validation.Struct(req); err != nil {
		s.fail(r, w, op, err)
		return
	}

	it, err := s.deps.Recommend(r.Context(), req.preferences(s.deps.DefaultPricePoint()), req.params())
	if err != nil {
		s.fail(r, w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toResponse(it, req.Explain))
}
