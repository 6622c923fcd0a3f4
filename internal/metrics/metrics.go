// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the slice of metrics collection the handlers depend on; tests
// pass Noop.
type Recorder interface {
	RecordRequest(method, route string, status int, duration time.Duration)
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordRefreshDenied()
}

type Collector struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	latency       prometheus.Histogram
	loginSuccess  prometheus.Counter
	loginFailure  prometheus.Counter
	refreshDenied prometheus.Counter
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studiokit_http_requests_total",
			Help: "HTTP requests by method, route, and status code",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "studiokit_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studiokit_login_success_total",
			Help: "Successful logins",
		}),
		loginFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studiokit_login_failure_total",
			Help: "Rejected login attempts",
		}),
		refreshDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studiokit_refresh_denied_total",
			Help: "Refresh attempts denied by hash mismatch, absence, or rotation loss",
		}),
	}

	registry.MustRegister(
		c.requests,
		c.latency,
		c.loginSuccess,
		c.loginFailure,
		c.refreshDenied,
	)

	return c
}

func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.Observe(duration.Seconds())
}

func (c *Collector) RecordLoginSuccess() { c.loginSuccess.Inc() }
func (c *Collector) RecordLoginFailure() { c.loginFailure.Inc() }
func (c *Collector) RecordRefreshDenied() { c.refreshDenied.Inc() }

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Noop satisfies Recorder without collecting anything.
type Noop struct{}

func (Noop) RecordRequest(string, string, int, time.Duration) {}
func (Noop) RecordLoginSuccess()                              {}
func (Noop) RecordLoginFailure()                              {}
func (Noop) RecordRefreshDenied()                             {}
