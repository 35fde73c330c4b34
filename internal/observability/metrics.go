package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	ActiveInterviews  prometheus.Gauge
	InterviewEvents   *prometheus.CounterVec
	TurnsByIntent     *prometheus.CounterVec
	DecisionsByAction *prometheus.CounterVec
	TopicAdvances     *prometheus.CounterVec
	BridgeFallbacks   prometheus.Counter
	Satisfaction      prometheus.Histogram
	DecisionLatency   prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		ActiveInterviews: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_interviews",
			Help:      "Number of active guided interviews.",
		}),
		InterviewEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interview_events_total",
			Help:      "Interview lifecycle events by type.",
		}, []string{"event"}),
		TurnsByIntent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Processed user turns by classified intent.",
		}, []string{"intent"}),
		DecisionsByAction: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Turn decisions by resulting action.",
		}, []string{"action"}),
		TopicAdvances: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "topic_advances_total",
			Help:      "Topic advancements by reason.",
		}, []string{"reason"}),
		BridgeFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bridge_fallbacks_total",
			Help:      "Bridge compositions that used the deterministic fallback.",
		}),
		Satisfaction: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "topic_satisfaction",
			Help:      "Per-turn topic satisfaction scores.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		}),
		DecisionLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decision_latency_ms",
			Help:      "Latency of full turn decision processing in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		}),
	}
}

func (m *Metrics) ObserveDecisionLatency(d time.Duration) {
	m.DecisionLatency.Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
