package graph

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics collects execution metrics for triage runs.
//
// Metrics exposed (namespaced "triage_"):
//   - stage_latency_ms (histogram): node execution duration, labeled by
//     node_id and status (success/error/paused).
//   - retries_total (counter): node retry attempts, labeled by node_id and
//     reason.
//   - pauses_total (counter): runs suspended for review, labeled by node_id.
//   - runs_inflight (gauge): runs currently executing.
//
// Wire into an engine with WithMetrics. All methods are safe for concurrent
// use; a nil *PrometheusMetrics is a valid no-op receiver.
type PrometheusMetrics struct {
	stageLatency *prometheus.HistogramVec
	retries      *prometheus.CounterVec
	pauses       *prometheus.CounterVec
	runsInflight prometheus.Gauge
}

// NewPrometheusMetrics registers the triage metrics with the given registry.
// A nil registry uses prometheus.DefaultRegisterer.
func NewPrometheusMetrics(registry prometheus.Registerer) *PrometheusMetrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &PrometheusMetrics{
		stageLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "triage",
			Name:      "stage_latency_ms",
			Help:      "Stage execution duration in milliseconds",
			Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000},
		}, []string{"node_id", "status"}),
		retries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "triage",
			Name:      "retries_total",
			Help:      "Cumulative count of stage retry attempts",
		}, []string{"node_id", "reason"}),
		pauses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "triage",
			Name:      "pauses_total",
			Help:      "Runs suspended awaiting an external decision",
		}, []string{"node_id"}),
		runsInflight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "triage",
			Name:      "runs_inflight",
			Help:      "Runs currently executing",
		}),
	}
}

// RecordStageLatency observes one stage execution.
func (pm *PrometheusMetrics) RecordStageLatency(nodeID string, latency time.Duration, status string) {
	if pm == nil {
		return
	}
	pm.stageLatency.WithLabelValues(nodeID, status).Observe(float64(latency.Milliseconds()))
}

// IncrementRetries counts one retry attempt for a stage.
func (pm *PrometheusMetrics) IncrementRetries(nodeID, reason string) {
	if pm == nil {
		return
	}
	pm.retries.WithLabelValues(nodeID, reason).Inc()
}

// IncrementPauses counts one suspension.
func (pm *PrometheusMetrics) IncrementPauses(nodeID string) {
	if pm == nil {
		return
	}
	pm.pauses.WithLabelValues(nodeID).Inc()
}

// RunStarted increments the in-flight gauge.
func (pm *PrometheusMetrics) RunStarted() {
	if pm == nil {
		return
	}
	pm.runsInflight.Inc()
}

// RunFinished decrements the in-flight gauge.
func (pm *PrometheusMetrics) RunFinished() {
	if pm == nil {
		return
	}
	pm.runsInflight.Dec()
}
