// Package middleware provides HTTP middleware shared by all endpoints.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/splitbills/splitbills/pkg/metrics"
)

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Instrument wraps a handler with request logging and Prometheus metrics.
// The endpoint label keeps metric cardinality bounded regardless of path
// parameters.
func Instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		metrics.RecordHTTPRequest(endpoint, r.Method, rec.status, elapsed)

		logger := slog.Info
		if rec.status >= http.StatusInternalServerError {
			logger = slog.Error
		} else if rec.status >= http.StatusBadRequest {
			logger = slog.Warn
		}
		logger("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", elapsed.Milliseconds(),
		)
	}
}
