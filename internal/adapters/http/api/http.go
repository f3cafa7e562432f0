// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/okian/barhop/internal/adapters/dataset"
	"github.com/okian/barhop/internal/adapters/http/swagger"
	"github.com/okian/barhop/internal/adapters/repository"
	service "github.com/okian/barhop/internal/app"
	"github.com/okian/barhop/internal/domain/model"
	"github.com/okian/barhop/internal/domain/scoring"
	"github.com/okian/barhop/internal/validation"
	"github.com/okian/barhop/pkg/logger"
	"github.com/okian/barhop/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Recommend(ctx context.Context, prefs model.Preferences, p service.RecommendParams) (model.Itinerary, error)
	Explain(v model.Venue, prefs model.Preferences) scoring.Breakdown
	DefaultPricePoint() int

	Venues(ctx context.Context, f repository.Filter) ([]model.Venue, error)
	Venue(ctx context.Context, id string) (model.Venue, error)
	Overview(ctx context.Context) (dataset.Overview, error)
	Reload(ctx context.Context) (dataset.Result, error)

	GetStats() map[string]interface{}
}

// Server wires HTTP routes for the recommender API.
type Server struct {
	deps           Dependencies
	allowedOrigins []string
	rateLimit      int
	rateWindow     time.Duration
	reloadLimit    int
	logger         logger.Logger
}

// NewServer creates a new API server.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:           deps,
		allowedOrigins: []string{"*"},
		rateWindow:     time.Minute,
		reloadLimit:    6,
		logger:         logger.Nop(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Router builds the chi router with every route and middleware attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         86400,
	}))

	r.Get("/healthz", MetricsMiddleware(s.handleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.handleStats, "stats"))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	r.Post("/recommendations", MetricsMiddleware(s.limited(s.handleRecommend, s.rateLimit, s.rateWindow), "recommendations"))

	r.Get("/venues", MetricsMiddleware(s.handleListVenues, "venues"))
	r.Get("/venues/{id}", MetricsMiddleware(s.handleGetVenue, "venue"))
	r.Get("/overview", MetricsMiddleware(s.handleOverview, "overview"))
	r.Get("/styles", MetricsMiddleware(s.handleStyles, "styles"))

	r.Post("/admin/reload", MetricsMiddleware(s.limited(s.handleReload, s.reloadLimit, time.Minute), "admin_reload"))

	swagger.Register(r)

	return r
}

// limited allows requests per window per client IP through to next. Each call
// builds its own limiter.
func (s *Server) limited(next http.HandlerFunc, requests int, window time.Duration) http.HandlerFunc {
	if requests <= 0 {
		return next
	}
	h := httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusTooManyRequests, "rate_limited", ErrRateLimited)
		}),
	)(next)
	return h.ServeHTTP
}

type errorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	resp := errorResponse{Code: code, Message: msg}
	var verr *validation.Error
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}
	writeJSON(w, status, resp)
}

// fail maps err to a status and writes it. Server-side failures are logged.
func (s *Server) fail(r *http.Request, w http.ResponseWriter, op string, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			logger.String("op", op),
			logger.String("request_id", chimiddleware.GetReqID(r.Context())),
			logger.Error(err),
		)
	}
	writeError(w, status, code, err)
}

// classify translates upstream errors to an HTTP status and error code.
func classify(err error) (int, string) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, repository.ErrInvalidLimit):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrNotStarted),
		errors.Is(err, dataset.ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
