package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/barhop/pkg/metrics"
)

// statusClass labels a failed response for the error counters.
type statusClass struct {
	errorType string
	severity  string
}

// classifyStatus maps a status code >= 400 to its error labels.
func classifyStatus(code int) statusClass {
	switch {
	case code == http.StatusServiceUnavailable:
		return statusClass{errorType: "unavailable", severity: "high"}
	case code >= http.StatusInternalServerError:
		return statusClass{errorType: "server_error", severity: "high"}
	case code == http.StatusTooManyRequests:
		return statusClass{errorType: "rate_limit", severity: "low"}
	case code == http.StatusNotFound:
		return statusClass{errorType: "not_found", severity: "low"}
	default:
		return statusClass{errorType: "client_error", severity: "medium"}
	}
}

// MetricsMiddleware records request count, latency and error labels for one
// named endpoint. Endpoint names keep label cardinality bounded where raw
// paths (e.g. /venues/{id}) would not.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		code := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, code)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, code, float64(time.Since(start).Microseconds())/1000)

		if rec.status < http.StatusBadRequest {
			return
		}
		c := classifyStatus(rec.status)
		metrics.RecordErrorByEndpoint(endpoint, r.Method, c.errorType)
		metrics.RecordErrorByType(c.errorType, c.severity)
		metrics.RecordErrorByComponent("http", c.errorType)
	}
}

// statusRecorder remembers the first status code a handler writes.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}
