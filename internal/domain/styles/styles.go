// Package styles maps bar styles to map marker colours and icons.
package styles

import (
	"sort"

	"github.com/okian/barhop/internal/domain/model"
)

// Other is the fallback style for unknown or missing tags.
const Other = "其他"

// Marker describes how a style is drawn on a map.
type Marker struct {
	Style string `json:"style"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var palette = []Marker{
	{Style: "夜店型酒吧", Color: "#ff4757", Icon: "music"},
	{Style: "立飲酒吧", Color: "#3742fa", Icon: "glass"},
	{Style: "餐酒館", Color: "#2ed573", Icon: "cutlery"},
	{Style: "精緻酒吧", Color: "#8b4aa3", Icon: "star"},
	{Style: "啤酒專門店", Color: "#ffa502", Icon: "tint"},
	{Style: "威士忌酒吧", Color: "#8b0000", Icon: "fire"},
	{Style: "茶酒酒吧", Color: "#90EE90", Icon: "leaf"},
	{Style: "咖啡餐酒館", Color: "#d2691e", Icon: "coffee"},
	{Style: Other, Color: "#747d8c", Icon: "info-sign"},
}

var byStyle = func() map[string]Marker {
	m := make(map[string]Marker, len(palette))
	for _, mk := range palette {
		m[mk.Style] = mk
	}
	return m
}()

// Palette returns every known marker in display order.
func Palette() []Marker {
	return append([]Marker(nil), palette...)
}

// Lookup returns the marker for style, falling back to Other.
func Lookup(style string) Marker {
	if mk, ok := byStyle[style]; ok {
		return mk
	}
	return byStyle[Other]
}

// ForVenue returns the marker for the venue's primary style.
func ForVenue(v model.Venue) Marker {
	return Lookup(v.Styles.Primary())
}

// Count is one row of a style distribution.
type Count struct {
	Style string `json:"style"`
	Count int    `json:"count"`
}

// Distribution counts primary styles across stops, most frequent first.
// Venues without a known primary style count as Other.
func Distribution(stops []model.ScoredVenue) []Count {
	counts := map[string]int{}
	for _, s := range stops {
		counts[ForVenue(s.Venue).Style]++
	}

	out := make([]Count, 0, len(counts))
	for style, n := range counts {
		out = append(out, Count{Style: style, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Style < out[j].Style
	})
	return out
}
