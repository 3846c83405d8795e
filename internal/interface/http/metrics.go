package http

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// serverMetrics records HTTP request counts and latency.
type serverMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// newServerMetrics creates and registers the HTTP metrics.
// A nil registry uses the default registerer.
func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &serverMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "challengehub",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by method, path and status.",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "challengehub",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency.",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"method", "path"},
		),
	}

	reg.MustRegister(m.requestsTotal, m.requestDuration)
	return m
}

func (m *serverMetrics) observe(method, path string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
