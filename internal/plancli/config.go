// Package plancli implements the offline bar-crawl planner behind cmd/plan.
package plancli

import (
	"time"

	"github.com/okian/barhop/internal/domain/geo"
	"github.com/okian/barhop/internal/domain/itinerary"
	"github.com/okian/barhop/internal/domain/selection"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Defaults shared by the flag set and Config.
const (
	defaultDatasetPath = "data/venues.csv"
	defaultPricePoint  = 500
	defaultTimeout     = 10 * time.Second
)

// Config holds one planner invocation.
type Config struct {
	DatasetPath string        // CSV venue table, used when URL is empty
	URL         string        // base URL of a running barhop server
	Timeout     time.Duration // HTTP request timeout in remote mode

	PricePoint      int
	Styles          []string
	Music           []string
	TimeStart       string
	TimeEnd         string
	Count           int
	MinSeparationM  float64
	WalkingSpeedKmh float64
	DwellMinutes    int

	Format  string
	Verbose bool
}

// DefaultConfig returns the planner defaults.
func DefaultConfig() *Config {
	return &Config{
		DatasetPath:     defaultDatasetPath,
		Timeout:         defaultTimeout,
		PricePoint:      defaultPricePoint,
		Count:           selection.DefaultCount,
		MinSeparationM:  selection.DefaultMinSeparation,
		WalkingSpeedKmh: geo.DefaultWalkingSpeedKmh,
		DwellMinutes:    itinerary.DefaultDwellMinutes,
		Format:          FormatText,
	}
}
