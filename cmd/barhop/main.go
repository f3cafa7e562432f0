package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/barhop/internal/adapters/dataset"
	"github.com/okian/barhop/internal/adapters/http/api"
	service "github.com/okian/barhop/internal/app"
	"github.com/okian/barhop/internal/config"
	"github.com/okian/barhop/pkg/logger"
	"github.com/okian/barhop/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load()
	if err != nil {
		// Use stderr since the logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWithFormat(cfg.LogFormat, os.Stdout); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "barhop exited with error", logger.Error(err))
		os.Exit(1)
	}
}

// run owns every long-lived component and returns once ctx is cancelled and
// the server has drained.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	src, closeSource, err := newSource(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSource()

	svc := newService(cfg, src, log)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := newHTTPServer(cfg, svc, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// newSource picks Postgres when a DSN is configured and the CSV file
// otherwise. The returned func releases the source's resources.
func newSource(ctx context.Context, cfg *config.Config, log logger.Logger) (dataset.Source, func(), error) {
	named := dataset.WithLogger(log.Named("dataset"))

	if cfg.DatasetDSN != "" {
		pool, err := dataset.Connect(ctx, cfg.DatasetDSN)
		if err != nil {
			return nil, nil, err
		}
		log.Info(ctx, "using postgres venue source", logger.String("table", cfg.DatasetTable))
		return dataset.NewPostgresSource(pool, cfg.DatasetTable, named), pool.Close, nil
	}

	log.Info(ctx, "using csv venue source", logger.String("path", cfg.DatasetPath))
	return dataset.NewCSVSource(cfg.DatasetPath, named), func() {}, nil
}

func newService(cfg *config.Config, src dataset.Source, log logger.Logger) *service.Service {
	return service.New(
		service.WithLogger(log.Named("service")),
		service.WithSource(src),
		service.WithReloadInterval(cfg.ReloadInterval()),
		service.WithResultCount(cfg.ResultCount),
		service.WithMaxResultCount(cfg.MaxResultCount),
		service.WithMinSeparation(cfg.MinSeparationM),
		service.WithWalkingSpeed(cfg.WalkingSpeedKmh),
		service.WithDwellMinutes(cfg.DwellMinutes),
		service.WithPricing(cfg.PriceTierUnit, cfg.PriceTolerance),
		service.WithDefaultPricePoint(cfg.DefaultPricePoint),
	)
}

func newHTTPServer(cfg *config.Config, svc *service.Service, log logger.Logger) *http.Server {
	apiServer := api.NewServer(svc,
		api.WithLogger(log.Named("api")),
		api.WithAllowedOrigins(cfg.AllowedOrigins()),
		api.WithRateLimit(cfg.RateLimitPerMinute, time.Minute),
		api.WithReloadLimit(cfg.ReloadLimitPerMinute),
	)

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           apiServer.Router(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// startSystemMetricsUpdater updates system metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
