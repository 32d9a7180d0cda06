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
	ActiveSessions  prometheus.Gauge
	ChunksProcessed *prometheus.CounterVec
	ChunksDropped   *prometheus.CounterVec
	EmotionLabels   *prometheus.CounterVec
	ProviderErrors  *prometheus.CounterVec
	PipelineLatency prometheus.Histogram
	PlaybackQueue   prometheus.Gauge
	TablesReloads   *prometheus.CounterVec
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of active viewer sessions.",
		}),
		ChunksProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "speech_chunks_total",
			Help:      "Speech chunks by outcome.",
		}, []string{"outcome"}),
		ChunksDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "speech_chunks_dropped_total",
			Help:      "Speech chunks dropped by stage.",
		}, []string{"stage"}),
		EmotionLabels: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emotion_labels_total",
			Help:      "Classified emotion labels.",
		}, []string{"label"}),
		ProviderErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "Backend errors by provider.",
		}, []string{"provider"}),
		PipelineLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_latency_ms",
			Help:      "Text-to-enqueued-audio latency per chunk in milliseconds.",
			Buckets:   []float64{10, 25, 50, 100, 200, 400, 800, 1500, 3000},
		}),
		PlaybackQueue: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "playback_queue_depth",
			Help:      "Items waiting in the playback queue.",
		}),
		TablesReloads: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persona_tables_reloads_total",
			Help:      "Persona table reload attempts by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) ObservePipelineLatency(d time.Duration) {
	m.PipelineLatency.Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
