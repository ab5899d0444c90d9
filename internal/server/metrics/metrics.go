// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels.
const (
	ResultSuccess            = "success"
	ResultEmailTaken         = "email_taken"
	ResultInvalidCredentials = "invalid_credentials"
	ResultNotFound           = "not_found"
	ResultInvalid            = "invalid"
	ResultError              = "error"
)

// Collector holds all server metrics together with the registry that
// serves them.
type Collector struct {
	registry *prometheus.Registry

	AuthAttemptsTotal   *prometheus.CounterVec
	GuardRejections     prometheus.Counter
	ResourceOpsTotal    *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewCollector creates the collectors and registers them, plus the Go and
// process collectors, on a fresh registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		AuthAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookmarks_auth_attempts_total",
				Help: "Signup and signin attempts by outcome",
			},
			[]string{"op", "result"},
		),
		GuardRejections: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "bookmarks_guard_rejections_total",
				Help: "Requests rejected for a missing, invalid, expired or revoked bearer token",
			},
		),
		ResourceOpsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookmarks_resource_ops_total",
				Help: "Bookmark operations by outcome",
			},
			[]string{"op", "result"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bookmarks_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	c.registry.MustRegister(
		c.AuthAttemptsTotal,
		c.GuardRejections,
		c.ResourceOpsTotal,
		c.HTTPRequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

func (c *Collector) AuthAttempt(op, result string) {
	c.AuthAttemptsTotal.WithLabelValues(op, result).Inc()
}

func (c *Collector) GuardRejected() {
	c.GuardRejections.Inc()
}

func (c *Collector) ResourceOp(op, result string) {
	c.ResourceOpsTotal.WithLabelValues(op, result).Inc()
}

func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	c.HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
