package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ══════════════════════════════════════════════════════════════════════════════
// METRICS MIDDLEWARE
// Prometheus counters and latency histograms per bot command. Exposed by
// the HTTP server's /metrics endpoint.
// ══════════════════════════════════════════════════════════════════════════════

// Metrics records per-command usage and latency.
type Metrics struct {
	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	updatesTotal    prometheus.Counter
	rateLimitedTotal prometheus.Counter
}

// NewMetrics creates bot metrics and registers them with the registerer.
// Pass prometheus.DefaultRegisterer in production.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "challengehub",
				Subsystem: "bot",
				Name:      "commands_total",
				Help:      "Handled bot commands by name and status.",
			},
			[]string{"command", "status"},
		),
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "challengehub",
				Subsystem: "bot",
				Name:      "command_duration_seconds",
				Help:      "Bot command handling latency.",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"command"},
		),
		updatesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "challengehub",
				Subsystem: "bot",
				Name:      "updates_total",
				Help:      "Telegram updates received.",
			},
		),
		rateLimitedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "challengehub",
				Subsystem: "bot",
				Name:      "rate_limited_total",
				Help:      "Commands dropped by the per-user rate limiter.",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(m.commandsTotal, m.commandDuration, m.updatesTotal, m.rateLimitedTotal)
	}
	return m
}

// ObserveUpdate counts one received update.
func (m *Metrics) ObserveUpdate() {
	m.updatesTotal.Inc()
}

// ObserveCommand records one handled command.
func (m *Metrics) ObserveCommand(command string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.commandsTotal.WithLabelValues(command, status).Inc()
	m.commandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

// ObserveRateLimited counts one dropped command.
func (m *Metrics) ObserveRateLimited() {
	m.rateLimitedTotal.Inc()
}
