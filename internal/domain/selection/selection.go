// Package selection picks a geographically spread shortlist from scored venues.
package selection

import (
	"sort"

	"github.com/okian/barhop/internal/domain/geo"
	"github.com/okian/barhop/internal/domain/model"
)

// Defaults for the selector.
const (
	DefaultCount         = 6
	DefaultMinSeparation = 300.0 // meters
	poolFactor           = 2
)

// Option applies a configuration option to the Selector.
type Option func(*Selector)

// WithCount sets the target number of venues.
func WithCount(n int) Option {
	return func(s *Selector) {
		s.count = n
	}
}

// WithMinSeparation sets the minimum distance in meters between accepted venues.
func WithMinSeparation(meters float64) Option {
	return func(s *Selector) {
		if meters >= 0 {
			s.minSeparation = meters
		}
	}
}

// Selector applies a top-2N pool, a greedy spacing pass and a backfill pass.
type Selector struct {
	count         int
	minSeparation float64
}

// Result is the selector output. Venues holds spaced picks first, then
// backfilled ones.
type Result struct {
	Venues     []model.ScoredVenue
	Backfilled int
}

// NewSelector creates a selector with configuration options.
func NewSelector(opts ...Option) *Selector {
	s := &Selector{
		count:         DefaultCount,
		minSeparation: DefaultMinSeparation,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select returns up to N distinct venues. The input is not modified.
func (s *Selector) Select(scored []model.ScoredVenue) Result {
	n := s.count
	if n <= 0 || len(scored) == 0 {
		return Result{Venues: []model.ScoredVenue{}}
	}

	pool := rank(scored)
	if limit := poolFactor * n; len(pool) > limit {
		pool = pool[:limit]
	}

	picked := make([]model.ScoredVenue, 0, n)
	used := make([]bool, len(pool))

	for i, cand := range pool {
		if len(picked) == n {
			break
		}
		if s.farFromAll(cand, picked) {
			picked = append(picked, cand)
			used[i] = true
		}
	}

	backfilled := 0
	for i, cand := range pool {
		if len(picked) == n {
			break
		}
		if used[i] {
			continue
		}
		picked = append(picked, cand)
		used[i] = true
		backfilled++
	}

	return Result{Venues: picked, Backfilled: backfilled}
}

func (s *Selector) farFromAll(cand model.ScoredVenue, picked []model.ScoredVenue) bool {
	for _, p := range picked {
		if geo.Distance(cand.Venue.Location, p.Venue.Location) < s.minSeparation {
			return false
		}
	}
	return true
}

// rank returns a copy sorted by score descending, ties by table index.
func rank(scored []model.ScoredVenue) []model.ScoredVenue {
	out := make([]model.ScoredVenue, len(scored))
	copy(out, scored)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Index < out[j].Index
	})
	return out
}
