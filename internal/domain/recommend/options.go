package recommend

import (
	"github.com/okian/barhop/internal/domain/scoring"
)

// Option configures an Engine.
type Option func(*Engine)

// WithScorer replaces the default scorer.
func WithScorer(s *scoring.Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// WithDwellMinutes sets the time budgeted at each stop.
func WithDwellMinutes(minutes int) Option {
	return func(e *Engine) {
		if minutes >= 0 {
			e.dwellMinutes = minutes
		}
	}
}

// WithMaxCount caps how many stops a single request may ask for.
func WithMaxCount(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxCount = n
		}
	}
}

// WithDefaults sets the request values used when a request does not
// override them.
func WithDefaults(count int, minSeparation, walkingSpeedKmh float64) Option {
	return func(e *Engine) {
		e.defaults = request{count: count, minSeparation: minSeparation, speedKmh: walkingSpeedKmh}
	}
}

// WithIDGenerator overrides how itinerary IDs are minted.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// RequestOption adjusts a single Recommend call.
type RequestOption func(*request)

// WithCount sets the number of stops.
func WithCount(n int) RequestOption {
	return func(r *request) { r.count = n }
}

// WithMinSeparation sets the minimum distance in meters between stops.
func WithMinSeparation(meters float64) RequestOption {
	return func(r *request) { r.minSeparation = meters }
}

// WithWalkingSpeed sets the walking speed in km/h.
func WithWalkingSpeed(kmh float64) RequestOption {
	return func(r *request) { r.speedKmh = kmh }
}
