// Package scoring computes venue relevance from user preferences.
package scoring

import (
	"math"

	"github.com/okian/barhop/internal/domain/model"
)

// Term weights. They sum to 1 so a perfect venue scores exactly 1.
const (
	WeightPrice      = 0.35
	WeightStyle      = 0.25
	WeightMusic      = 0.20
	WeightRating     = 0.15
	WeightPopularity = 0.05
)

// Default conversion constants.
const (
	// DefaultPriceTierUnit converts a price tier into currency units.
	DefaultPriceTierUnit = 400
	// DefaultPriceTolerance is the deviation at which the price term reaches zero.
	DefaultPriceTolerance = 600

	minRating         = 1.0
	ratingSpan        = 4.0 // 5 - 1
	popularityDivisor = 10.0
	minScoreValue     = 0.0
	maxScoreValue     = 1.0
)

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithPriceTierUnit overrides the currency units per price tier.
func WithPriceTierUnit(unit float64) Option {
	return func(s *Scorer) {
		if unit > 0 {
			s.priceTierUnit = unit
		}
	}
}

// WithPriceTolerance overrides the deviation at which the price term hits zero.
func WithPriceTolerance(tolerance float64) Option {
	return func(s *Scorer) {
		if tolerance > 0 {
			s.priceTolerance = tolerance
		}
	}
}

// Breakdown holds each weighted contribution to a score. A term that does not
// apply contributes zero.
type Breakdown struct {
	Price      float64 `json:"price"`
	Style      float64 `json:"style"`
	Music      float64 `json:"music"`
	Rating     float64 `json:"rating"`
	Popularity float64 `json:"popularity"`
}

// Total returns the clamped sum of all contributions.
func (b Breakdown) Total() float64 {
	return clamp(b.Price + b.Style + b.Music + b.Rating + b.Popularity)
}

// Scorer rates venues against preferences. It holds no per-request state and
// is safe for concurrent use.
type Scorer struct {
	priceTierUnit  float64
	priceTolerance float64
}

// NewScorer creates a scorer with configuration options.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		priceTierUnit:  DefaultPriceTierUnit,
		priceTolerance: DefaultPriceTolerance,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// PriceTierUnit returns the configured currency units per tier.
func (s *Scorer) PriceTierUnit() float64 { return s.priceTierUnit }

// EstimatedPrice converts a tier to currency units.
func (s *Scorer) EstimatedPrice(tier int) float64 {
	return float64(tier) * s.priceTierUnit
}

// Score returns the relevance of v for prefs in [0, 1].
func (s *Scorer) Score(v model.Venue, prefs model.Preferences) float64 {
	return s.Breakdown(v, prefs).Total()
}

// Breakdown returns the weighted contribution of each term.
func (s *Scorer) Breakdown(v model.Venue, prefs model.Preferences) Breakdown {
	var b Breakdown

	if v.PriceTier > 0 && prefs.PricePoint > 0 {
		diff := math.Abs(s.EstimatedPrice(v.PriceTier) - float64(prefs.PricePoint))
		b.Price = math.Max(0, 1-diff/s.priceTolerance) * WeightPrice
	}

	b.Style = tagTerm(v.Styles, prefs.Styles) * WeightStyle
	b.Music = tagTerm(v.Music, prefs.Music) * WeightMusic

	if v.Rating > 0 {
		b.Rating = clamp((v.Rating-minRating)/ratingSpan) * WeightRating
	}

	if v.RatingCount > 0 {
		b.Popularity = math.Min(1, math.Log(float64(v.RatingCount)+1)/popularityDivisor) * WeightPopularity
	}

	return b
}

// ScoreAll scores every venue and returns new records in table order. The
// input slice is left untouched.
func (s *Scorer) ScoreAll(venues []model.Venue, prefs model.Preferences) []model.ScoredVenue {
	out := make([]model.ScoredVenue, len(venues))
	for i, v := range venues {
		out[i] = model.ScoredVenue{Venue: v, Score: s.Score(v, prefs), Index: i}
	}
	return out
}

// tagTerm is the share of selected tags the venue carries, or 0 when either
// side is empty.
func tagTerm(venue, selected model.TagSet) float64 {
	if len(selected) == 0 || len(venue) == 0 {
		return 0
	}
	return float64(venue.Matches(selected)) / float64(len(selected))
}

func clamp(x float64) float64 {
	if math.IsNaN(x) {
		return minScoreValue
	}
	return math.Max(minScoreValue, math.Min(maxScoreValue, x))
}
