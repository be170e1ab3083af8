package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"smpeduli/pkg/metrics"
)

// Metrics records request counts and latency per chi route pattern, keeping
// label cardinality bounded regardless of path parameters.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		metrics.IncRequest(route, r.Method, strconv.Itoa(rw.status))
		metrics.ObserveDuration(route, time.Since(start).Seconds())
	})
}
