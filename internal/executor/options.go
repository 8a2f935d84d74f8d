package executor

import (
	"time"

	"github.com/vk/erdos/internal/metrics"
	"github.com/vk/erdos/internal/node"
)

// Event describes a status change of one node. Observers receive events on
// the coordination goroutine, in the order the changes are made.
type Event struct {
	NodeID string
	Status node.Status
	Err    error
}

// Option configures an Executor.
type Option func(*Executor)

// WithPolicy sets the failure policy. The default is ContinueElsewhere.
func WithPolicy(p FailurePolicy) Option {
	return func(e *Executor) { e.policy = p }
}

// WithDefaultTimeout bounds every node that has no timeout of its own.
func WithDefaultTimeout(d time.Duration) Option {
	return func(e *Executor) { e.defaultTimeout = d }
}

// WithMetrics records node metrics in c.
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Executor) { e.metrics = c }
}

// WithObserver registers a function called for every status change. It runs
// synchronously on the coordination goroutine and must not block.
func WithObserver(fn func(Event)) Option {
	return func(e *Executor) { e.observers = append(e.observers, fn) }
}
