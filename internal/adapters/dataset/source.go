// Package dataset loads venue tables from CSV files or Postgres and turns
// raw rows into normalized venues.
package dataset

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/barhop/internal/domain/model"
	"github.com/okian/barhop/internal/domain/tags"
)

// Source produces a full venue table.
type Source interface {
	Load(ctx context.Context) (Result, error)
}

// Result is a loaded table plus the number of rows that were dropped.
type Result struct {
	Venues   []model.Venue
	Rejected int
}

// venueNamespace seeds deterministic IDs for rows without a place id.
var venueNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://barhop/venues"))

// VenueID derives a stable ID from a venue's name and position.
func VenueID(name string, c model.Coordinate) string {
	key := name + "|" + strconv.FormatFloat(c.Lat, 'f', 7, 64) + "|" + strconv.FormatFloat(c.Lng, 'f', 7, 64)
	return uuid.NewSHA1(venueNamespace, []byte(key)).String()
}

// Overview summarizes a venue table.
type Overview struct {
	Venues         int     `json:"venues"`
	MeanRating     float64 `json:"mean_rating"`
	DistinctStyles int     `json:"distinct_styles"`
	MeanPrice      float64 `json:"mean_price"`
}

// Summarize computes the overview. priceTierUnit converts tiers to currency.
func Summarize(venues []model.Venue, priceTierUnit float64) Overview {
	o := Overview{Venues: len(venues)}
	if len(venues) == 0 {
		return o
	}

	var ratingSum, tierSum float64
	styles := map[string]struct{}{}
	for _, v := range venues {
		ratingSum += v.Rating
		tierSum += float64(v.PriceTier)
		for _, s := range v.Styles {
			styles[s] = struct{}{}
		}
	}

	n := float64(len(venues))
	o.MeanRating = round2(ratingSum / n)
	o.MeanPrice = math.Round(tierSum / n * priceTierUnit)
	o.DistinctStyles = len(styles)
	return o
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }

// missing reports whether a raw cell carries no value.
func missing(raw string) bool {
	s := strings.TrimSpace(raw)
	return s == "" || strings.EqualFold(s, tags.Missing) || strings.EqualFold(s, "nan")
}

func text(raw string) string {
	if missing(raw) {
		return ""
	}
	return strings.TrimSpace(raw)
}

// optionalFloat parses a cell, returning nil for missing or malformed values.
func optionalFloat(raw string) *float64 {
	if missing(raw) {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// optionalInt accepts integral floats such as "2.0".
func optionalInt(raw string) *int {
	f := optionalFloat(raw)
	if f == nil {
		return nil
	}
	i := int(math.Round(*f))
	return &i
}
