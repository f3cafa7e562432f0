// Package config defines service configuration and its defaults.
package config

import (
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatasetPath points at a venue CSV. Ignored when DatasetDSN is set.
	DatasetPath string `koanf:"dataset_path"`
	// DatasetDSN is a Postgres connection string for the venue table.
	DatasetDSN string `koanf:"dataset_dsn"`
	// DatasetTable names the Postgres venue table.
	DatasetTable string `koanf:"dataset_table"`
	// DatasetReloadIntervalSec enables periodic reloads when > 0.
	DatasetReloadIntervalSec int `koanf:"dataset_reload_interval_sec"`

	ResultCount     int     `koanf:"result_count"`
	MaxResultCount  int     `koanf:"max_result_count"`
	MinSeparationM  float64 `koanf:"min_separation_m"`
	WalkingSpeedKmh float64 `koanf:"walking_speed_kmh"`
	DwellMinutes    int     `koanf:"dwell_minutes"`

	// PriceTierUnit converts a price tier to currency units.
	PriceTierUnit float64 `koanf:"price_tier_unit"`
	// PriceTolerance is the deviation at which the price term reaches zero.
	PriceTolerance float64 `koanf:"price_tolerance"`
	// DefaultPricePoint is used when a request carries no budget.
	DefaultPricePoint int `koanf:"default_price_point"`

	// RateLimitPerMinute bounds recommendation requests per client IP.
	RateLimitPerMinute int `koanf:"rate_limit_per_minute"`
	// ReloadLimitPerMinute bounds admin reloads per client IP.
	ReloadLimitPerMinute int `koanf:"reload_limit_per_minute"`
	// CORSAllowedOrigins is a comma-separated origin list.
	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		DatasetPath:          "data/venues.csv",
		DatasetTable:         "venues",
		ResultCount:          6,
		MaxResultCount:       20,
		MinSeparationM:       300,
		WalkingSpeedKmh:      4.5,
		DwellMinutes:         45,
		PriceTierUnit:        400,
		PriceTolerance:       600,
		DefaultPricePoint:    500,
		RateLimitPerMinute:   120,
		ReloadLimitPerMinute: 6,
		CORSAllowedOrigins:   "*",
	}
}

// AllowedOrigins splits CORSAllowedOrigins into trimmed entries.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// ReloadInterval returns the dataset reload period, zero when disabled.
func (c *Config) ReloadInterval() time.Duration {
	if c.DatasetReloadIntervalSec <= 0 {
		return 0
	}
	return time.Duration(c.DatasetReloadIntervalSec) * time.Second
}
