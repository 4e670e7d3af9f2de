// Package metrics exposes Prometheus counters for the estimator and the
// HTTP API.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seenimoa/solarsim/internal/simulator"
)

// Metrics holds the collectors registered on its own registry, so several
// servers can coexist in one process (tests).
type Metrics struct {
	registry *prometheus.Registry

	Estimates          prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	EstimateDuration   prometheus.Histogram
	HTTPRequests       *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Estimates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "solarsim_estimates_total",
			Help: "Number of successful solar estimates",
		}),
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solarsim_validation_failures_total",
			Help: "Number of rejected estimate requests by kind",
		}, []string{"kind"}),
		EstimateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "solarsim_estimate_duration_seconds",
			Help:    "Time spent computing one estimate",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solarsim_http_requests_total",
			Help: "HTTP requests by route pattern and status code",
		}, []string{"route", "code"}),
	}
	m.registry.MustRegister(
		m.Estimates,
		m.ValidationFailures,
		m.EstimateDuration,
		m.HTTPRequests,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveEstimate records the outcome of one Estimate call.
func (m *Metrics) ObserveEstimate(start time.Time, err error) {
	if m == nil {
		return
	}
	m.EstimateDuration.Observe(time.Since(start).Seconds())
	if err == nil {
		m.Estimates.Inc()
		return
	}
	var ve *simulator.ValidationError
	if errors.As(err, &ve) {
		m.ValidationFailures.WithLabelValues(string(ve.Kind)).Inc()
	}
}

// ObserveBatch records the outcome of each item of a batch run.
func (m *Metrics) ObserveBatch(items []simulator.BatchItem) {
	if m == nil {
		return
	}
	for _, it := range items {
		switch {
		case it.Result != nil:
			m.Estimates.Inc()
		case it.Kind != "":
			m.ValidationFailures.WithLabelValues(string(it.Kind)).Inc()
		}
	}
}

// ObserveRequest counts a finished HTTP request.
func (m *Metrics) ObserveRequest(route string, code int) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
