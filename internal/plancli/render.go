package plancli

import (
	"fmt"
	"io"
	"strings"

	"github.com/okian/barhop/internal/domain/model"
	"github.com/okian/barhop/internal/domain/styles"
)

// RenderText writes the itinerary as a route panel: one block per stop with
// the walk to the next stop, then totals and the style mix.
func RenderText(w io.Writer, it model.Itinerary, dwellMinutes int) error {
	var b strings.Builder

	if it.Len() == 0 {
		b.WriteString("No venues matched; the venue table is empty.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "Bar crawl: %d stops", it.Len())
	if it.Backfilled > 0 {
		fmt.Fprintf(&b, " (%d closer than the minimum separation)", it.Backfilled)
	}
	b.WriteString("\n\n")

	for i, s := range it.Stops {
		v := s.Venue
		fmt.Fprintf(&b, "%2d. %s  [%s]\n", i+1, v.Name, styles.ForVenue(v).Style)
		fmt.Fprintf(&b, "    score %.2f  rating %.1f", s.Score, v.Rating)
		if v.PriceLabel != "" {
			fmt.Fprintf(&b, "  %s", v.PriceLabel)
		}
		b.WriteString("\n")
		if v.Address != "" {
			fmt.Fprintf(&b, "    %s\n", v.Address)
		}
		if len(v.TopDrinks) > 0 {
			fmt.Fprintf(&b, "    try: %s\n", strings.Join(v.TopDrinks, ", "))
		}
		if i < len(it.Legs) {
			leg := it.Legs[i]
			fmt.Fprintf(&b, "      walk %d min (%s)\n", leg.WalkingMinutes, formatDistance(leg.DistanceMeters))
		}
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Total walking: %s, %d min\n", formatDistance(it.TotalDistanceMeters), it.TotalWalkingMinutes)
	fmt.Fprintf(&b, "Estimated outing: %s (%d min per stop)\n", formatMinutes(it.OutingMinutes), dwellMinutes)
	if tw := it.Preferences.TimeWindow; tw.Start != "" || tw.End != "" {
		fmt.Fprintf(&b, "Window: %s-%s\n", tw.Start, tw.End)
	}

	mix := styles.Distribution(it.Stops)
	parts := make([]string, len(mix))
	for i, c := range mix {
		parts[i] = fmt.Sprintf("%s x%d", c.Style, c.Count)
	}
	fmt.Fprintf(&b, "Styles: %s\n", strings.Join(parts, ", "))

	_, err := io.WriteString(w, b.String())
	return err
}

func formatDistance(m float64) string {
	if m < 1000 {
		return fmt.Sprintf("%.0f m", m)
	}
	return fmt.Sprintf("%.2f km", m/1000)
}

func formatMinutes(total int) string {
	if total < 60 {
		return fmt.Sprintf("%d min", total)
	}
	return fmt.Sprintf("%dh %02dm", total/60, total%60)
}
