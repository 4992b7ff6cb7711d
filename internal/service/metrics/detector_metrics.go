package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	detectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "levelscan",
			Subsystem: "detector",
			Name:      "detections_total",
			Help:      "Detections run, by endpoint and symbol",
		},
		[]string{"endpoint", "symbol"},
	)

	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "levelscan",
			Subsystem: "detector",
			Name:      "errors_total",
			Help:      "Errors by kind",
		},
		[]string{"kind"},
	)

	latencySeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "levelscan",
			Subsystem: "detector",
			Name:      "latency_seconds",
			Help:      "Latency of detection operations",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	alertsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "levelscan",
			Subsystem: "alerts",
			Name:      "published_total",
			Help:      "Zone alerts published to the pipeline",
		},
		[]string{"symbol"},
	)
)

// DetectorMetrics records detection and alerting metrics in Prometheus.
type DetectorMetrics struct{}

func NewDetectorMetrics() *DetectorMetrics {
	once.Do(func() {
		prometheus.MustRegister(detectionsTotal, errorsTotal, latencySeconds, alertsPublished)
	})
	return &DetectorMetrics{}
}

func (m *DetectorMetrics) RecordDetection(endpoint, symbol string) {
	detectionsTotal.WithLabelValues(endpoint, symbol).Inc()
}

func (m *DetectorMetrics) RecordError(kind string) {
	errorsTotal.WithLabelValues(kind).Inc()
}

func (m *DetectorMetrics) RecordLatency(op string, seconds float64) {
	latencySeconds.WithLabelValues(op).Observe(seconds)
}

func (m *DetectorMetrics) RecordAlertPublished(symbol string) {
	alertsPublished.WithLabelValues(symbol).Inc()
}
