package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DurationBuckets are the fixed histogram bounds, in seconds, for
// request latencies.
var DurationBuckets = []float64{0.001, 0.005, 0.015, 0.05, 0.1, 0.5, 1, 5}

// Metrics owns the process-lifetime Prometheus registry and every
// instrument the service records into. It is constructed once at
// startup and handed to the router; nothing registers into the
// default global registry.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	LoadTestsTotal    prometheus.Counter
	ActiveConnections prometheus.Gauge
}

// New builds the registry with the HTTP instruments plus the standard
// Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests handled",
			},
			[]string{"method", "path", "status"},
		),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: DurationBuckets,
			},
			[]string{"method", "path"},
		),

		LoadTestsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "load_tests_total",
				Help: "Total CPU load tests started",
			},
		),

		ActiveConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_active_connections",
				Help: "Requests currently in flight",
			},
		),
	}

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.LoadTestsTotal,
		m.ActiveConnections,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler serves the registry in the text exposition format. An
// encoding failure surfaces as a plain 500 with the error as body.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}
