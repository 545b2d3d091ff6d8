package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	ActiveSessions   prometheus.Gauge
	SessionEvents    *prometheus.CounterVec
	IntelExtracted   *prometheus.CounterVec
	BrainCalls       *prometheus.CounterVec
	ReportDispatches *prometheus.CounterVec
	EngagementTurns  prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of sessions not yet closed.",
		}),
		SessionEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Session lifecycle events by type.",
		}, []string{"event"}),
		IntelExtracted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intel_extracted_total",
			Help:      "Extracted intelligence items by category.",
		}, []string{"category"}),
		BrainCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "brain_calls_total",
			Help:      "External completion-service calls by operation and outcome.",
		}, []string{"op", "outcome"}),
		ReportDispatches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_dispatches_total",
			Help:      "Final report dispatch attempts by outcome.",
		}, []string{"outcome"}),
		EngagementTurns: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "engagement_turns",
			Help:      "Conversation turns completed when a session closes.",
			Buckets:   []float64{1, 2, 3, 5, 7, 10, 15},
		}),
	}
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
