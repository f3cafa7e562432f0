// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"math"
	"strings"
)

// Defaults applied by Normalize when a record leaves a field out.
const (
	DefaultPriceTier = 2   // neutral mid tier
	DefaultRating    = 3.5 // neutral rating on the 1..5 scale
)

// Coordinate is a WGS 84 point in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both components are finite and within range.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) {
		return false
	}
	return math.Abs(c.Lat) <= 90 && math.Abs(c.Lng) <= 180
}

// TagSet is an ordered, de-duplicated list of tags. The first tag is the
// primary one (used for marker colours).
type TagSet []string

// NewTagSet trims and de-duplicates tags, preserving first-seen order.
func NewTagSet(tags ...string) TagSet {
	out := make(TagSet, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || out.Contains(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Contains reports whether tag is in the set.
func (s TagSet) Contains(tag string) bool {
	for _, t := range s {
		if t == tag {
			return true
		}
	}
	return false
}

// Primary returns the first tag or "" for an empty set.
func (s TagSet) Primary() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// Matches counts how many of selected are present in s.
func (s TagSet) Matches(selected TagSet) int {
	n := 0
	for _, t := range selected {
		if s.Contains(t) {
			n++
		}
	}
	return n
}

// VenueRecord is a raw row as produced by a dataset source. Optional numeric
// fields are nil when the source has no value.
type VenueRecord struct {
	ID          string
	Name        string
	Location    Coordinate
	PriceTier   *int
	Rating      *float64
	RatingCount *int
	Styles      TagSet
	Music       TagSet
	Address     string
	PriceLabel  string
	Phone       string
	TopDrinks   []string
}

// Venue is a fully defaulted, read-only venue. The engine never mutates it.
type Venue struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Location    Coordinate `json:"location"`
	PriceTier   int        `json:"price_tier"`
	Rating      float64    `json:"rating"`
	RatingCount int        `json:"rating_count"`
	Styles      TagSet     `json:"styles"`
	Music       TagSet     `json:"music"`
	Address     string     `json:"address,omitempty"`
	PriceLabel  string     `json:"price_label,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	TopDrinks   []string   `json:"top_drinks,omitempty"`
}

// Normalize turns a record into a Venue. Every default for missing data is
// applied here and nowhere else.
func Normalize(r VenueRecord) (Venue, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return Venue{}, fmt.Errorf("venue %q: missing name: %w", r.ID, ErrInvalidInput)
	}
	if !r.Location.Valid() {
		return Venue{}, fmt.Errorf("venue %q: invalid coordinate (%v, %v): %w", name, r.Location.Lat, r.Location.Lng, ErrInvalidInput)
	}

	v := Venue{
		ID:         r.ID,
		Name:       name,
		Location:   r.Location,
		PriceTier:  DefaultPriceTier,
		Rating:     DefaultRating,
		Styles:     NewTagSet(r.Styles...),
		Music:      NewTagSet(r.Music...),
		Address:    r.Address,
		PriceLabel: r.PriceLabel,
		Phone:      r.Phone,
		TopDrinks:  append([]string(nil), r.TopDrinks...),
	}
	if v.ID == "" {
		v.ID = name
	}
	if r.PriceTier != nil {
		v.PriceTier = *r.PriceTier
	}
	if r.Rating != nil && !math.IsNaN(*r.Rating) {
		v.Rating = *r.Rating
	}
	if r.RatingCount != nil && *r.RatingCount > 0 {
		v.RatingCount = *r.RatingCount
	}
	return v, nil
}
