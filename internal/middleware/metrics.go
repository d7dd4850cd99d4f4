package middleware

import (
	"net/http"
	"time"

	"github.com/forgo/mergington/api/internal/metrics"
)

// unmatchedRoute labels requests no route pattern claimed
const unmatchedRoute = "unmatched"

// Metrics records request duration by route pattern. It must wrap the
// ServeMux directly so the matched pattern is visible after the call.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		start := time.Now()
		rec := newStatusRecorder(w)

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = unmatchedRoute
		}
		metrics.ObserveRequest(r.Method, route, rec.status, time.Since(start).Seconds())
	})
}
