package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"dojoroster/internal/adapters/http/perf"
)

// DefaultSlowRequest is the default threshold for slow request warnings.
const DefaultSlowRequest = 200 * time.Millisecond

// unmatchedRoute labels requests no registered pattern serves.
const unmatchedRoute = "(unmatched)"

// RoutePatterns resolves the pattern that serves a request.
// *http.ServeMux implements it.
type RoutePatterns interface {
	Handler(r *http.Request) (h http.Handler, pattern string)
}

// untimed reports paths that are served without timing.
func untimed(path string) bool {
	return path == "/healthz" || strings.HasPrefix(path, "/static/")
}

// recordingWriter remembers the status sent through it.
type recordingWriter struct {
	http.ResponseWriter
	status int
}

func (rw *recordingWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// routeLabel returns the pattern serving r, such as
// "GET /api/clubs/{slug}/schedule", so that every club shares one perf row.
func routeLabel(routes RoutePatterns, r *http.Request) string {
	if routes != nil {
		if _, pattern := routes.Handler(r); pattern != "" {
			return pattern
		}
	}
	return r.Method + " " + unmatchedRoute
}

// Timing returns middleware that times each request under its route pattern.
// Requests at or above slow log slow_request at WARN, the rest log at DEBUG.
// A non-positive slow uses DefaultSlowRequest. A nil collector only logs.
func Timing(collector *perf.Collector, slow time.Duration, routes RoutePatterns) func(http.Handler) http.Handler {
	if slow <= 0 {
		slow = DefaultSlowRequest
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if untimed(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			route := routeLabel(routes, r)
			rw := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			defer func() {
				elapsed := time.Since(start)
				attrs := []any{
					"request_id", uuid.NewString(),
					"route", route,
					"path", r.URL.Path,
					"status", rw.status,
					"duration_ms", float64(elapsed.Microseconds()) / 1000.0,
				}
				if elapsed >= slow {
					slog.Warn("slow_request", attrs...)
				} else {
					slog.Debug("request", attrs...)
				}
				if collector != nil {
					collector.Record(perf.Entry{
						Kind:       perf.KindRequest,
						Path:       route,
						StatusCode: rw.status,
						DurationMs: float64(elapsed.Microseconds()) / 1000.0,
						Timestamp:  start,
					})
				}
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
