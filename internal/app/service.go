// Package service wires the dataset, the venue store and the recommendation
// engine into the operations the HTTP API and CLI depend on.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/barhop/internal/adapters/dataset"
	"github.com/okian/barhop/internal/adapters/repository"
	"github.com/okian/barhop/internal/domain/geo"
	"github.com/okian/barhop/internal/domain/itinerary"
	"github.com/okian/barhop/internal/domain/model"
	"github.com/okian/barhop/internal/domain/recommend"
	"github.com/okian/barhop/internal/domain/scoring"
	"github.com/okian/barhop/internal/domain/selection"
	"github.com/okian/barhop/pkg/logger"
	"github.com/okian/barhop/pkg/metrics"
)

// RecommendParams overrides per-request engine settings. Nil fields fall back
// to the service defaults.
type RecommendParams struct {
	Count           *int
	MinSeparationM  *float64
	WalkingSpeedKmh *float64
}

// Service implements the API dependencies for the recommender.
type Service struct {
	mu sync.RWMutex

	source dataset.Source
	store  repository.Store
	engine *recommend.Engine

	resultCount       int
	maxResultCount    int
	minSeparation     float64
	walkingSpeed      float64
	dwellMinutes      int
	priceTierUnit     float64
	priceTolerance    float64
	defaultPricePoint int
	reloadInterval    time.Duration

	// State
	started      bool
	stopCh       chan struct{}
	wg           sync.WaitGroup
	lastRejected atomic.Int64
	reloads      atomic.Int64
	reloadErrors atomic.Int64

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store:             repository.NewSnapshotStore(),
		resultCount:       selection.DefaultCount,
		maxResultCount:    recommend.DefaultMaxCount,
		minSeparation:     selection.DefaultMinSeparation,
		walkingSpeed:      geo.DefaultWalkingSpeedKmh,
		dwellMinutes:      itinerary.DefaultDwellMinutes,
		priceTierUnit:     scoring.DefaultPriceTierUnit,
		priceTolerance:    scoring.DefaultPriceTolerance,
		defaultPricePoint: 500,
		logger:            logger.Nop(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	s.engine = recommend.NewEngine(
		recommend.WithScorer(scoring.NewScorer(
			scoring.WithPriceTierUnit(s.priceTierUnit),
			scoring.WithPriceTolerance(s.priceTolerance),
		)),
		recommend.WithDwellMinutes(s.dwellMinutes),
		recommend.WithMaxCount(s.maxResultCount),
		recommend.WithDefaults(s.resultCount, s.minSeparation, s.walkingSpeed),
	)

	return s
}

// Start loads the dataset and, when configured, starts the reload loop.
// It fails if the first load fails.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.source == nil {
		return ErrNoSource
	}

	s.logger.Info(ctx, "starting recommender service...")

	if _, err := s.reload(ctx); err != nil {
		return fmt.Errorf("initial dataset load: %w", err)
	}

	s.stopCh = make(chan struct{})
	if s.reloadInterval > 0 {
		s.startReloadLoop(ctx)
	}

	s.started = true
	s.logger.Info(ctx, "recommender service started",
		logger.Int("venues", s.store.Count(ctx)),
		logger.Duration("reload_interval", s.reloadInterval),
	)
	return nil
}

// Stop ends the reload loop. It is safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	close(s.stopCh)
	s.wg.Wait()

	s.started = false
	s.logger.Info(context.Background(), "recommender service stopped")
}

func (s *Service) startReloadLoop(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.reloadInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				// A failed reload keeps serving the previous snapshot.
				if _, err := s.reload(ctx); err != nil {
					s.logger.Error(ctx, "periodic dataset reload failed", logger.Error(err))
				}
			}
		}
	}()
}

// Reload loads the dataset again and swaps it in. On failure the previous
// table stays active.
func (s *Service) Reload(ctx context.Context) (dataset.Result, error) {
	if !s.isStarted() {
		return dataset.Result{}, ErrNotStarted
	}
	return s.reload(ctx)
}

func (s *Service) reload(ctx context.Context) (dataset.Result, error) {
	start := time.Now()
	res, err := s.source.Load(ctx)
	if err == nil {
		err = s.store.Replace(ctx, res.Venues)
	}
	ms := float64(time.Since(start).Microseconds()) / 1000

	s.reloads.Add(1)
	if err != nil {
		s.reloadErrors.Add(1)
		metrics.RecordDatasetLoad(metrics.OutcomeError, 0, 0, ms)
		metrics.RecordErrorByComponent("dataset", "load_error")
		return dataset.Result{}, err
	}

	s.lastRejected.Store(int64(res.Rejected))
	metrics.RecordDatasetLoad(metrics.OutcomeOK, len(res.Venues), res.Rejected, ms)
	s.logger.Info(ctx, "dataset loaded",
		logger.Int("venues", len(res.Venues)),
		logger.Int("rejected", res.Rejected),
		logger.Float64("duration_ms", ms),
	)
	return res, nil
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Recommend builds an itinerary from the active table.
func (s *Service) Recommend(ctx context.Context, prefs model.Preferences, p RecommendParams) (model.Itinerary, error) {
	if !s.isStarted() {
		return model.Itinerary{}, ErrNotStarted
	}

	var opts []recommend.RequestOption
	if p.Count != nil {
		opts = append(opts, recommend.WithCount(*p.Count))
	}
	if p.MinSeparationM != nil {
		opts = append(opts, recommend.WithMinSeparation(*p.MinSeparationM))
	}
	if p.WalkingSpeedKmh != nil {
		opts = append(opts, recommend.WithWalkingSpeed(*p.WalkingSpeedKmh))
	}

	start := time.Now()
	it, err := s.engine.Recommend(s.store.All(ctx), prefs, opts...)
	ms := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, recommend.ErrInvalidInput) {
			outcome = metrics.OutcomeInvalid
		}
		metrics.RecordRecommendation(outcome, ms)
		return model.Itinerary{}, err
	}

	metrics.RecordRecommendation(metrics.OutcomeOK, ms)
	metrics.RecordItinerary(it.Len(), it.TotalDistanceMeters, it.Backfilled)
	s.logger.Debug(ctx, "itinerary built",
		logger.String("id", it.ID),
		logger.Int("stops", it.Len()),
		logger.Int("backfilled", it.Backfilled),
		logger.Float64("distance_m", it.TotalDistanceMeters),
	)
	return it, nil
}

// Explain returns the per-term score contributions of v for prefs.
func (s *Service) Explain(v model.Venue, prefs model.Preferences) scoring.Breakdown {
	return s.engine.Scorer().Breakdown(v, prefs)
}

// DefaultPricePoint is the budget assumed when a request has none.
func (s *Service) DefaultPricePoint() int { return s.defaultPricePoint }

// Venues lists venues matching f.
func (s *Service) Venues(ctx context.Context, f repository.Filter) ([]model.Venue, error) {
	if !s.isStarted() {
		return nil, ErrNotStarted
	}
	return s.store.Find(ctx, f)
}

// Venue returns one venue by ID.
func (s *Service) Venue(ctx context.Context, id string) (model.Venue, error) {
	if !s.isStarted() {
		return model.Venue{}, ErrNotStarted
	}
	return s.store.Get(ctx, id)
}

// Overview summarizes the active table.
func (s *Service) Overview(ctx context.Context) (dataset.Overview, error) {
	if !s.isStarted() {
		return dataset.Overview{}, ErrNotStarted
	}
	return dataset.Summarize(s.store.All(ctx), s.priceTierUnit), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":          s.started,
		"resultCount":      s.resultCount,
		"maxResultCount":   s.maxResultCount,
		"minSeparationM":   s.minSeparation,
		"walkingSpeedKmh":  s.walkingSpeed,
		"dwellMinutes":     s.dwellMinutes,
		"reloads":          s.reloads.Load(),
		"reloadErrors":     s.reloadErrors.Load(),
		"reloadIntervalMs": s.reloadInterval.Milliseconds(),
	}

	if s.started {
		stats["venues"] = s.store.Count(ctx)
		stats["rejectedRows"] = s.lastRejected.Load()
		stats["loadedAt"] = s.store.LoadedAt().UTC().Format(time.RFC3339)
	}

	return stats
}
