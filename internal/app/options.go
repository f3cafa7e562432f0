package service

import (
	"time"

	"github.com/okian/barhop/internal/adapters/dataset"
	"github.com/okian/barhop/internal/adapters/repository"
	"github.com/okian/barhop/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSource sets where venues are loaded from.
func WithSource(src dataset.Source) Option {
	return func(s *Service) {
		s.source = src
	}
}

// WithStore replaces the default in-memory snapshot store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithReloadInterval enables periodic dataset reloads.
func WithReloadInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.reloadInterval = d
		}
	}
}

// WithResultCount sets the default number of stops.
func WithResultCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.resultCount = n
		}
	}
}

// WithMaxResultCount caps the stops a request may ask for.
func WithMaxResultCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxResultCount = n
		}
	}
}

// WithMinSeparation sets the default spacing between stops in meters.
func WithMinSeparation(meters float64) Option {
	return func(s *Service) {
		if meters >= 0 {
			s.minSeparation = meters
		}
	}
}

// WithWalkingSpeed sets the default walking speed in km/h.
func WithWalkingSpeed(kmh float64) Option {
	return func(s *Service) {
		if kmh > 0 {
			s.walkingSpeed = kmh
		}
	}
}

// WithDwellMinutes sets the time budgeted per stop.
func WithDwellMinutes(minutes int) Option {
	return func(s *Service) {
		if minutes >= 0 {
			s.dwellMinutes = minutes
		}
	}
}

// WithPricing sets the tier-to-currency unit and the price tolerance.
func WithPricing(tierUnit, tolerance float64) Option {
	return func(s *Service) {
		if tierUnit > 0 {
			s.priceTierUnit = tierUnit
		}
		if tolerance > 0 {
			s.priceTolerance = tolerance
		}
	}
}

// WithDefaultPricePoint sets the budget assumed when a request has none.
func WithDefaultPricePoint(p int) Option {
	return func(s *Service) {
		if p >= 0 {
			s.defaultPricePoint = p
		}
	}
}
