// Package metrics exposes Prometheus collectors for runs and node executions.
//
// A nil *Collector is valid and records nothing, so components can accept an
// optional collector without checking for it.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "erdos"

// Collector groups the engine's metrics.
type Collector struct {
	nodesTotal   *prometheus.CounterVec
	nodeDuration *prometheus.HistogramVec
	inFlight     prometheus.Gauge
	runsTotal    *prometheus.CounterVec
	runDuration  prometheus.Histogram
}

// NewCollector creates the engine's metrics and registers them with reg.
// Passing prometheus.DefaultRegisterer exposes them on the default /metrics
// handler; tests pass a fresh prometheus.NewRegistry().
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		// Labels: status (succeeded, failed, skipped)
		nodesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "nodes_total",
			Help:      "Total nodes that reached a terminal status",
		}, []string{"status"}),

		// Labels: status (succeeded, failed)
		nodeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "node_duration_seconds",
			Help:      "Time spent running node computations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),

		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "nodes_in_flight",
			Help:      "Node computations currently running",
		}),

		// Labels: outcome (ok, partial_failure, cancelled)
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "runs_total",
			Help:      "Total runs by outcome",
		}, []string{"outcome"}),

		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of runs",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}),
	}
}

// NodeStarted records a computation starting.
func (c *Collector) NodeStarted() {
	if c == nil {
		return
	}
	c.inFlight.Inc()
}

// NodeFinished records a computation finishing with the given status.
func (c *Collector) NodeFinished(status string, d time.Duration) {
	if c == nil {
		return
	}
	c.inFlight.Dec()
	c.nodeDuration.WithLabelValues(status).Observe(d.Seconds())
	c.nodesTotal.WithLabelValues(status).Inc()
}

// NodeSkipped records a node that was skipped without running.
func (c *Collector) NodeSkipped() {
	if c == nil {
		return
	}
	c.nodesTotal.WithLabelValues("skipped").Inc()
}

// RunFinished records a completed run.
func (c *Collector) RunFinished(outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.runsTotal.WithLabelValues(outcome).Inc()
	c.runDuration.Observe(d.Seconds())
}
