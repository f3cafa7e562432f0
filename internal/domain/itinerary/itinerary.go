// Package itinerary turns an ordered stop list into legs and walking totals.
package itinerary

import (
	"github.com/okian/barhop/internal/domain/geo"
	"github.com/okian/barhop/internal/domain/model"
)

// DefaultDwellMinutes is the time budgeted at each stop.
const DefaultDwellMinutes = 45

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithWalkingSpeed sets the walking speed in km/h.
func WithWalkingSpeed(kmh float64) Option {
	return func(a *Aggregator) {
		if kmh > 0 {
			a.speedKmh = kmh
		}
	}
}

// WithDwellMinutes sets the time spent at each stop.
func WithDwellMinutes(minutes int) Option {
	return func(a *Aggregator) {
		if minutes >= 0 {
			a.dwellMinutes = minutes
		}
	}
}

// Aggregator computes per-leg and total walking metrics.
type Aggregator struct {
	speedKmh     float64
	dwellMinutes int
}

// NewAggregator creates an aggregator with configuration options.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		speedKmh:     geo.DefaultWalkingSpeedKmh,
		dwellMinutes: DefaultDwellMinutes,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Build returns an itinerary over stops in the given order. Totals are sums
// of the legs, so total time is a sum of per-leg ceilings.
func (a *Aggregator) Build(stops []model.ScoredVenue) model.Itinerary {
	it := model.Itinerary{
		Stops: append([]model.ScoredVenue{}, stops...),
		Legs:  []model.Leg{},
	}

	for i := 1; i < len(stops); i++ {
		from, to := stops[i-1].Venue, stops[i].Venue
		dist := geo.Distance(from.Location, to.Location)
		leg := model.Leg{
			FromID:         from.ID,
			ToID:           to.ID,
			DistanceMeters: dist,
			WalkingMinutes: geo.MinutesForDistance(dist, a.speedKmh),
		}
		it.Legs = append(it.Legs, leg)
		it.TotalDistanceMeters += leg.DistanceMeters
		it.TotalWalkingMinutes += leg.WalkingMinutes
	}

	it.OutingMinutes = it.TotalWalkingMinutes + len(stops)*a.dwellMinutes
	return it
}
