// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels for roster changes
const (
	ResultOK         = "ok"
	ResultNotFound   = "not_found"
	ResultConflict   = "conflict"
	ResultInvalid    = "invalid"
	ResultStoreError = "error"
)

// UnknownActivity replaces the activity label when the store has not
// confirmed the name, so client input cannot mint new series.
const UnknownActivity = "unknown"

var (
	SignupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_signups_total",
			Help: "Total number of signup attempts by activity and result",
		},
		[]string{"activity", "result"},
	)

	UnregistersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_unregisters_total",
			Help: "Total number of unregister attempts by activity and result",
		},
		[]string{"activity", "result"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// Recorder counts roster changes. The zero value is ready to use.
type Recorder struct{}

// Signup records a signup attempt
func (Recorder) Signup(activity, result string) {
	SignupsTotal.WithLabelValues(activity, result).Inc()
}

// Unregister records an unregister attempt
func (Recorder) Unregister(activity, result string) {
	UnregistersTotal.WithLabelValues(activity, result).Inc()
}

// ObserveRequest records one served HTTP request
func ObserveRequest(method, route string, status int, seconds float64) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(seconds)
}

// Handler serves the default registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.Handler()
}
