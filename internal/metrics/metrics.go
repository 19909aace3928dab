// Package metrics exposes Prometheus collectors for the server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe to use through a nil pointer, in which case nothing is recorded.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpLatency      *prometheus.HistogramVec
	ratingsSubmitted *prometheus.CounterVec
	playersCreated   prometheus.Counter
	matchesCreated   prometheus.Counter
}

// New registers the collectors in a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matchrating_http_requests_total",
				Help: "Total number of handled HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		httpLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "matchrating_http_request_duration_seconds",
				Help:    "HTTP request latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		ratingsSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matchrating_ratings_submitted_total",
				Help: "Total number of upserted ratings.",
			},
			[]string{"source"},
		),
		playersCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "matchrating_players_resolved_total",
				Help: "Total number of player name resolutions that reached the store.",
			},
		),
		matchesCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "matchrating_matches_created_total",
				Help: "Total number of created matches.",
			},
		),
	}
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RatingsSubmitted counts ratings written by a create ("create") or a rating batch ("batch").
func (m *Metrics) RatingsSubmitted(source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ratingsSubmitted.WithLabelValues(source).Add(float64(n))
}

func (m *Metrics) PlayerResolved() {
	if m == nil {
		return
	}
	m.playersCreated.Inc()
}

func (m *Metrics) MatchCreated() {
	if m == nil {
		return
	}
	m.matchesCreated.Inc()
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
