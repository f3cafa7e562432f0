// Package recommend runs the scoring, selection, sequencing and aggregation
// pipeline that turns a venue table into a walking itinerary.
package recommend

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/okian/barhop/internal/domain/geo"
	"github.com/okian/barhop/internal/domain/itinerary"
	"github.com/okian/barhop/internal/domain/model"
	"github.com/okian/barhop/internal/domain/route"
	"github.com/okian/barhop/internal/domain/scoring"
	"github.com/okian/barhop/internal/domain/selection"
)

// DefaultMaxCount caps the stops per request unless overridden.
const DefaultMaxCount = 20

type request struct {
	count         int
	minSeparation float64
	speedKmh      float64
}

func (r request) validate(maxCount int) error {
	switch {
	case r.count < 1 || r.count > maxCount:
		return fmt.Errorf("%w: count %d outside [1, %d]", ErrInvalidInput, r.count, maxCount)
	case r.minSeparation < 0 || math.IsNaN(r.minSeparation) || math.IsInf(r.minSeparation, 0):
		return fmt.Errorf("%w: min separation %v", ErrInvalidInput, r.minSeparation)
	case !(r.speedKmh > 0) || math.IsInf(r.speedKmh, 0):
		return fmt.Errorf("%w: walking speed %v", ErrInvalidInput, r.speedKmh)
	}
	return nil
}

// Engine is stateless across calls and safe for concurrent use.
type Engine struct {
	scorer       *scoring.Scorer
	dwellMinutes int
	maxCount     int
	defaults     request
	newID        func() string
}

// NewEngine creates an engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		scorer:       scoring.NewScorer(),
		dwellMinutes: itinerary.DefaultDwellMinutes,
		maxCount:     DefaultMaxCount,
		defaults: request{
			count:         selection.DefaultCount,
			minSeparation: selection.DefaultMinSeparation,
			speedKmh:      geo.DefaultWalkingSpeedKmh,
		},
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scorer exposes the engine's scorer, e.g. for score breakdowns.
func (e *Engine) Scorer() *scoring.Scorer { return e.scorer }

// Recommend scores venues against prefs, picks a spread shortlist, orders it
// into a walk and computes walking metrics. An empty table yields an empty
// itinerary without error. The venues slice is never modified.
func (e *Engine) Recommend(venues []model.Venue, prefs model.Preferences, opts ...RequestOption) (model.Itinerary, error) {
	req := e.defaults
	for _, opt := range opts {
		opt(&req)
	}
	if err := req.validate(e.maxCount); err != nil {
		return model.Itinerary{}, err
	}

	for i := range venues {
		if !venues[i].Location.Valid() {
			return model.Itinerary{}, fmt.Errorf("%w: venue %q has invalid coordinate", ErrInvalidInput, venues[i].ID)
		}
	}

	scored := e.scorer.ScoreAll(venues, prefs)
	picked := selection.NewSelector(
		selection.WithCount(req.count),
		selection.WithMinSeparation(req.minSeparation),
	).Select(scored)

	agg := itinerary.NewAggregator(
		itinerary.WithWalkingSpeed(req.speedKmh),
		itinerary.WithDwellMinutes(e.dwellMinutes),
	)
	it := agg.Build(route.Sequence(picked.Venues))
	it.ID = e.newID()
	it.Backfilled = picked.Backfilled
	it.Preferences = prefs

	return it, nil
}
