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
	ActiveStreams       prometheus.Gauge
	Turns               *prometheus.CounterVec
	StreamEvents        *prometheus.CounterVec
	PersistenceFailures prometheus.Counter
	RecommendRequests   *prometheus.CounterVec
	TurnDuration        prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		ActiveStreams: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_streams",
			Help:      "Number of in-flight chat streams.",
		}),
		Turns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Completed conversation turns by outcome.",
		}, []string{"outcome"}),
		StreamEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_events_total",
			Help:      "Emitted stream events by type.",
		}, []string{"type"}),
		PersistenceFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_failures_total",
			Help:      "Memory store writes that failed and were swallowed.",
		}),
		RecommendRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommend_requests_total",
			Help:      "Recommendation queries by catalog filter.",
		}, []string{"catalog"}),
		TurnDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_duration_ms",
			Help:      "End-to-end duration of one streamed turn in milliseconds.",
			Buckets:   []float64{100, 300, 700, 1200, 2000, 3500, 6000, 10000},
		}),
	}
}

func (m *Metrics) ObserveTurnDuration(d time.Duration) {
	m.TurnDuration.Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
