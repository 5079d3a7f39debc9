package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the server. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	SummaryOutcomes  *prometheus.CounterVec
	UpstreamErrors   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ytsummarizer_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds, by route, method and status.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method", "status"},
		),
		RequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "ytsummarizer_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served.",
			},
		),
		SummaryOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytsummarizer_summary_outcomes_total",
				Help: "Summary requests by outcome (which extraction step succeeded, or why none ran).",
			},
			[]string{"outcome"},
		),
		UpstreamErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytsummarizer_upstream_errors_total",
				Help: "Failed calls to external providers, by provider.",
			},
			[]string{"provider"},
		),
	}

	reg.MustRegister(m.RequestDuration, m.RequestsInFlight, m.SummaryOutcomes, m.UpstreamErrors)
	return m
}

func (m *Metrics) SummaryOutcome(outcome string) {
	if m == nil {
		return
	}
	m.SummaryOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) UpstreamError(provider string) {
	if m == nil {
		return
	}
	m.UpstreamErrors.WithLabelValues(provider).Inc()
}
