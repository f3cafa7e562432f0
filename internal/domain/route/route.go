// Package route orders selected venues into a walking sequence.
package route

import (
	"github.com/okian/barhop/internal/domain/geo"
	"github.com/okian/barhop/internal/domain/model"
)

// Sequence orders venues with a nearest-neighbour walk seeded at the first
// venue. Ties go to the earliest remaining venue. Lists of two or fewer are
// returned as a copy in their original order. The result is a permutation of
// the input and the input is not modified.
func Sequence(venues []model.ScoredVenue) []model.ScoredVenue {
	out := make([]model.ScoredVenue, 0, len(venues))
	if len(venues) <= 2 {
		return append(out, venues...)
	}

	remaining := make([]model.ScoredVenue, len(venues)-1)
	copy(remaining, venues[1:])
	out = append(out, venues[0])

	for len(remaining) > 0 {
		cur := out[len(out)-1].Venue.Location
		best := 0
		bestDist := geo.Distance(cur, remaining[0].Venue.Location)
		for i := 1; i < len(remaining); i++ {
			if d := geo.Distance(cur, remaining[i].Venue.Location); d < bestDist {
				best, bestDist = i, d
			}
		}
		out = append(out, remaining[best])
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return out
}
