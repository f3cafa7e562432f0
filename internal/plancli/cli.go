package plancli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/okian/barhop/internal/domain/tags"
)

// ParseFlags parses args (without the program name). -help yields
// flag.ErrHelp after printing usage to stderr.
func ParseFlags(args []string, stderr io.Writer) (*Config, error) {
	cfg := DefaultConfig()

	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { ShowHelp(stderr) }

	var styles, music string
	fs.StringVar(&cfg.DatasetPath, "data", cfg.DatasetPath, "CSV venue table")
	fs.StringVar(&cfg.URL, "url", "", "Base URL of a running barhop server (plans locally when empty)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request timeout in remote mode")
	fs.IntVar(&cfg.PricePoint, "price", cfg.PricePoint, "Budget per venue; 0 ignores price")
	fs.StringVar(&styles, "styles", "", "Comma-separated bar styles")
	fs.StringVar(&music, "music", "", "Comma-separated music genres")
	fs.StringVar(&cfg.TimeStart, "start", "", "Outing start, HH:MM")
	fs.StringVar(&cfg.TimeEnd, "end", "", "Outing end, HH:MM")
	fs.IntVar(&cfg.Count, "count", cfg.Count, "Number of stops")
	fs.Float64Var(&cfg.MinSeparationM, "separation", cfg.MinSeparationM, "Minimum metres between stops")
	fs.Float64Var(&cfg.WalkingSpeedKmh, "speed", cfg.WalkingSpeedKmh, "Walking speed in km/h")
	fs.IntVar(&cfg.DwellMinutes, "dwell", cfg.DwellMinutes, "Minutes spent at each stop (local mode)")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Output format: text or json")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Enable verbose logging")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %v", ErrUsage, fs.Args())
	}

	cfg.Styles = tags.Parse(styles)
	cfg.Music = tags.ParseMusic(music)
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	if cfg.Format != FormatText && cfg.Format != FormatJSON {
		return nil, fmt.Errorf("%w: unknown format %q", ErrUsage, cfg.Format)
	}
	return cfg, nil
}

// ShowHelp prints usage information for the planner.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `barhop planner
==============

Plans a walking bar crawl from a venue CSV, or asks a running server.

Usage:
  plan [options]

Options:
  -data string        CSV venue table (default "data/venues.csv")
  -url string         Base URL of a running barhop server
  -timeout duration   HTTP request timeout in remote mode (default 10s)
  -price int          Budget per venue; 0 ignores price (default 500)
  -styles string      Comma-separated bar styles, e.g. "餐酒館,精緻酒吧"
  -music string       Comma-separated music genres, e.g. "Jazz,EDM"
  -start, -end        Outing window, HH:MM
  -count int          Number of stops (default 6)
  -separation float   Minimum metres between stops (default 300)
  -speed float        Walking speed in km/h (default 4.5)
  -dwell int          Minutes spent at each stop (default 45)
  -format string      text or json (default "text")
  -verbose            Enable verbose logging
  -help               Show this help message

Examples:
  plan -data venues.csv -styles 餐酒館 -music Jazz -price 800
  plan -url http://localhost:9080 -count 4 -format json
`)
}
