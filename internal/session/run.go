package session

import (
	"context"
	"sync"

	"github.com/vk/erdos/internal/graph"
	"github.com/vk/erdos/internal/node"
	"github.com/vk/erdos/internal/nodestore"
	"github.com/vk/erdos/internal/scheduler"
)

// Run is a handle to one execution of a graph.
type Run struct {
	id    string
	graph *graph.Graph
	plan  scheduler.Plan
	state nodestore.Store

	cancel     chan struct{}
	cancelOnce sync.Once
	done       chan struct{}

	// result and err are written once, before done is closed.
	result *RunResult
	err    error
}

// ID returns the run's unique identifier.
func (r *Run) ID() string {
	return r.id
}

// Plan returns the frontiers the run executes.
func (r *Run) Plan() scheduler.Plan {
	return r.plan
}

// Graph returns the graph being executed.
func (r *Run) Graph() *graph.Graph {
	return r.graph
}

// Cancel requests cooperative cancellation: no new node starts, running
// nodes finish, and nodes that never started end Skipped. It is safe to call
// any number of times, including after the run has finished.
func (r *Run) Cancel() {
	r.cancelOnce.Do(func() { close(r.cancel) })
}

// Done is closed when the run has finished.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run finishes or ctx ends. Ending ctx does not cancel
// the run.
func (r *Run) Wait(ctx context.Context) (*RunResult, error) {
	select {
	case <-r.done:
		return r.result, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Status returns the current status of a node. It may be called while the
// run is in progress.
func (r *Run) Status(id string) (node.Status, bool) {
	return r.state.GetStatus(id)
}

// Result returns a node's recorded output and error.
func (r *Run) Result(id string) (any, error, bool) {
	e, ok := r.state.Entry(id)
	return e.Output, e.Err, ok
}

// Entry returns the full recorded state of a node.
func (r *Run) Entry(id string) (nodestore.Entry, bool) {
	return r.state.Entry(id)
}
