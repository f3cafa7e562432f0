package plancli

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/okian/barhop/internal/adapters/dataset"
	"github.com/okian/barhop/internal/domain/model"
	"github.com/okian/barhop/internal/domain/recommend"
	"github.com/okian/barhop/pkg/logger"
)

// Run plans one itinerary and writes it to out.
func Run(ctx context.Context, cfg *Config, out io.Writer, log logger.Logger) error {
	prefs := model.Preferences{
		PricePoint: cfg.PricePoint,
		Styles:     model.NewTagSet(cfg.Styles...),
		Music:      model.NewTagSet(cfg.Music...),
		TimeWindow: model.TimeWindow{Start: cfg.TimeStart, End: cfg.TimeEnd},
	}

	var (
		it    model.Itinerary
		dwell = cfg.DwellMinutes
		err   error
	)
	if cfg.URL != "" {
		log.Debug(ctx, "planning remotely", logger.String("url", cfg.URL))
		it, err = newClient(cfg.URL, cfg.Timeout).recommend(ctx, prefs, cfg)
		// The server applies its own dwell time; recover it from the totals.
		if err == nil && it.Len() > 0 {
			dwell = (it.OutingMinutes - it.TotalWalkingMinutes) / it.Len()
		}
	} else {
		it, err = planLocally(ctx, cfg, prefs, log)
	}
	if err != nil {
		return err
	}

	if cfg.Format == FormatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(it)
	}
	return RenderText(out, it, dwell)
}

func planLocally(ctx context.Context, cfg *Config, prefs model.Preferences, log logger.Logger) (model.Itinerary, error) {
	res, err := dataset.NewCSVSource(cfg.DatasetPath, dataset.WithLogger(log)).Load(ctx)
	if err != nil {
		return model.Itinerary{}, fmt.Errorf("load %s: %w", cfg.DatasetPath, err)
	}
	log.Info(ctx, "venue table loaded",
		logger.String("path", cfg.DatasetPath),
		logger.Int("venues", len(res.Venues)),
		logger.Int("rejected", res.Rejected),
	)

	engine := recommend.NewEngine(
		recommend.WithDwellMinutes(cfg.DwellMinutes),
		recommend.WithMaxCount(max(cfg.Count, recommend.DefaultMaxCount)),
	)
	return engine.Recommend(res.Venues, prefs,
		recommend.WithCount(cfg.Count),
		recommend.WithMinSeparation(cfg.MinSeparationM),
		recommend.WithWalkingSpeed(cfg.WalkingSpeedKmh),
	)
}
