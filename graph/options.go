package graph

import "time"

// Options configures engine execution behavior. Zero values are valid.
type Options struct {
	// MaxSteps limits a run to prevent routing cycles from looping forever.
	// Zero means no limit.
	MaxSteps int

	// DefaultNodeTimeout bounds each node execution unless the node's
	// NodePolicy overrides it. Zero means unbounded.
	DefaultNodeTimeout time.Duration

	// Metrics, when non-nil, receives latency, retry, and pause
	// observations.
	Metrics *PrometheusMetrics
}

// Option configures an Engine at construction.
type Option func(*Options)

// WithMaxSteps limits run length. Use the workflow depth plus headroom for
// loops.
func WithMaxSteps(n int) Option {
	return func(o *Options) { o.MaxSteps = n }
}

// WithDefaultNodeTimeout bounds node execution time engine-wide. Individual
// nodes override it via NodePolicy.Timeout.
func WithDefaultNodeTimeout(d time.Duration) Option {
	return func(o *Options) { o.DefaultNodeTimeout = d }
}

// WithMetrics enables Prometheus metrics collection.
//
//	registry := prometheus.NewRegistry()
//	metrics := graph.NewPrometheusMetrics(registry)
//	engine := graph.New(reducer, st, emitter, graph.WithMetrics(metrics))
func WithMetrics(m *PrometheusMetrics) Option {
	return func(o *Options) { o.Metrics = m }
}
