package api

import (
	"time"

	"github.com/okian/barhop/pkg/logger"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for server-side failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAllowedOrigins sets the CORS origin allow-list.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// WithRateLimit bounds POST /recommendations to requests per window per
// client IP. A non-positive count disables the limit.
func WithRateLimit(requests int, window time.Duration) Option {
	return func(s *Server) {
		s.rateLimit = requests
		if window > 0 {
			s.rateWindow = window
		}
	}
}

// WithReloadLimit bounds POST /admin/reload to requests per minute per client
// IP. A non-positive count disables the limit.
func WithReloadLimit(requests int) Option {
	return func(s *Server) {
		s.reloadLimit = requests
	}
}
