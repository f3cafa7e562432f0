package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "BARHOP_"
	envFileVar = envPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if BARHOP_CONFIG is set
//  3. env (prefix BARHOP_)
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(envFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// BARHOP_MIN_SEPARATION_M -> min_separation_m (flat keys).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting as ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case c.DatasetPath == "" && c.DatasetDSN == "":
		return invalid("one of dataset_path or dataset_dsn is required")
	case c.DatasetDSN != "" && c.DatasetTable == "":
		return invalid("dataset_table must not be empty")
	case c.LogFormat != "text" && c.LogFormat != "json":
		return invalid("log_format must be text or json, got %q", c.LogFormat)
	case c.ResultCount < 1:
		return invalid("result_count must be positive")
	case c.MaxResultCount < c.ResultCount:
		return invalid("max_result_count (%d) must be >= result_count (%d)", c.MaxResultCount, c.ResultCount)
	case c.MinSeparationM < 0:
		return invalid("min_separation_m must not be negative")
	case c.WalkingSpeedKmh <= 0:
		return invalid("walking_speed_kmh must be positive")
	case c.DwellMinutes < 0:
		return invalid("dwell_minutes must not be negative")
	case c.PriceTierUnit <= 0 || c.PriceTolerance <= 0:
		return invalid("price_tier_unit and price_tolerance must be positive")
	case c.DefaultPricePoint < 0:
		return invalid("default_price_point must not be negative")
	case c.RateLimitPerMinute < 0:
		return invalid("rate_limit_per_minute must not be negative")
	case c.ReloadLimitPerMinute < 0:
		return invalid("reload_limit_per_minute must not be negative")
	case c.DatasetReloadIntervalSec < 0:
		return invalid("dataset_reload_interval_sec must not be negative")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
