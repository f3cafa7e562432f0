package plancli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/okian/barhop/internal/domain/model"
)

// client talks to a running barhop server.
type client struct {
	baseURL string
	http    *http.Client
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type remoteRequest struct {
	PricePoint      int      `json:"price_point"`
	Styles          []string `json:"styles"`
	Music           []string `json:"music"`
	TimeStart       string   `json:"time_start,omitempty"`
	TimeEnd         string   `json:"time_end,omitempty"`
	Count           int      `json:"count"`
	MinSeparationM  float64  `json:"min_separation_m"`
	WalkingSpeedKmh float64  `json:"walking_speed_kmh"`
}

// remoteItinerary is the subset of the server response the planner needs.
type remoteItinerary struct {
	ID    string `json:"id"`
	Stops []struct {
		Venue model.Venue `json:"venue"`
		Score float64     `json:"score"`
	} `json:"stops"`
	Legs                []model.Leg       `json:"legs"`
	TotalDistanceMeters float64           `json:"total_distance_m"`
	TotalWalkingMinutes int               `json:"total_walking_min"`
	OutingMinutes       int               `json:"outing_min"`
	Backfilled          int               `json:"backfilled"`
	Preferences         model.Preferences `json:"preferences"`
}

type remoteError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *client) recommend(ctx context.Context, prefs model.Preferences, cfg *Config) (model.Itinerary, error) {
	body, err := json.Marshal(remoteRequest{
		PricePoint:      prefs.PricePoint,
		Styles:          nonNil(prefs.Styles),
		Music:           nonNil(prefs.Music),
		TimeStart:       prefs.TimeWindow.Start,
		TimeEnd:         prefs.TimeWindow.End,
		Count:           cfg.Count,
		MinSeparationM:  cfg.MinSeparationM,
		WalkingSpeedKmh: cfg.WalkingSpeedKmh,
	})
	if err != nil {
		return model.Itinerary{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/recommendations", bytes.NewReader(body))
	if err != nil {
		return model.Itinerary{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Itinerary{}, fmt.Errorf("%w: %w", ErrRemote, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Itinerary{}, fmt.Errorf("%w: read body: %w", ErrRemote, err)
	}
	if resp.StatusCode != http.StatusOK {
		var e remoteError
		if json.Unmarshal(data, &e) == nil && e.Message != "" {
			return model.Itinerary{}, fmt.Errorf("%w: %d %s: %s", ErrRemote, resp.StatusCode, e.Code, e.Message)
		}
		return model.Itinerary{}, fmt.Errorf("%w: status %d", ErrRemote, resp.StatusCode)
	}

	var ri remoteItinerary
	if err := json.Unmarshal(data, &ri); err != nil {
		return model.Itinerary{}, fmt.Errorf("%w: decode body: %w", ErrRemote, err)
	}

	it := model.Itinerary{
		ID:                  ri.ID,
		Stops:               make([]model.ScoredVenue, len(ri.Stops)),
		Legs:                ri.Legs,
		TotalDistanceMeters: ri.TotalDistanceMeters,
		TotalWalkingMinutes: ri.TotalWalkingMinutes,
		OutingMinutes:       ri.OutingMinutes,
		Backfilled:          ri.Backfilled,
		Preferences:         ri.Preferences,
	}
	for i, s := range ri.Stops {
		it.Stops[i] = model.ScoredVenue{Venue: s.Venue, Score: s.Score, Index: i}
	}
	return it, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
