package executor

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/vk/erdos/internal/ctxlog"
	"github.com/vk/erdos/internal/graph"
	"github.com/vk/erdos/internal/metrics"
	"github.com/vk/erdos/internal/node"
	"github.com/vk/erdos/internal/nodestore"
	"github.com/vk/erdos/internal/scheduler"
)

// Executor runs graphs. It holds only configuration, so one Executor may run
// any number of graphs concurrently.
type Executor struct {
	policy         FailurePolicy
	defaultTimeout time.Duration
	metrics        *metrics.Collector
	observers      []func(Event)
	tracer         trace.Tracer
}

// New creates an Executor.
func New(opts ...Option) *Executor {
	e := &Executor{tracer: otel.Tracer("erdos/executor")}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the configured failure policy.
func (e *Executor) Policy() FailurePolicy {
	return e.policy
}

// Result summarizes a finished execution.
type Result struct {
	// Entries holds the final state of every node.
	Entries map[string]nodestore.Entry
	// MaxInFlight is the largest number of nodes observed Running at once.
	MaxInFlight int
	// Cancelled is set when cancellation stopped the run early.
	Cancelled bool
	// Aborted is set when the FailFast policy stopped the run early.
	Aborted bool
}

// Execute runs every node of g, at most limit at a time, recording progress
// in state. Closing cancel, or cancelling ctx, requests cooperative
// cancellation. Execute returns once every node is terminal.
//
// The limit bounds nodes in the Running state. A node that exceeds its
// timeout is marked Failed and its slot is released at once; a computation
// that ignores its context may keep running after that, so the number of
// live computations can briefly exceed limit.
//
// The returned error reports invalid arguments or a corrupted state store;
// node failures are recorded in the Result instead.
func (e *Executor) Execute(
	ctx context.Context,
	g *graph.Graph,
	plan scheduler.Plan,
	limit int,
	cancel <-chan struct{},
	state nodestore.Store,
) (*Result, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidConcurrency, limit)
	}
	if err := state.Init(g.IDs()); err != nil {
		return nil, fmt.Errorf("failed to initialize node state: %w", err)
	}

	ctx, span := e.tracer.Start(ctx, "executor.Execute", trace.WithAttributes(
		attribute.Int("erdos.nodes", g.Len()),
		attribute.Int("erdos.limit", limit),
		attribute.String("erdos.policy", e.policy.String()),
	))
	defer span.End()

	r := &run{
		e:       e,
		g:       g,
		plan:    plan,
		index:   plan.Index(),
		tracker: scheduler.NewTracker(g),
		state:   state,
		sem:     semaphore.NewWeighted(int64(limit)),
		cancel:  cancel,
		done:    make(chan completion, g.Len()),
		logger:  ctxlog.FromContext(ctx),
	}
	res := r.loop(ctx)

	span.SetAttributes(attribute.Int("erdos.max_in_flight", res.MaxInFlight))
	if res.Cancelled || res.Aborted {
		span.SetStatus(codes.Error, r.stopCause.Error())
	}
	if len(r.errs) > 0 {
		err := errors.Join(r.errs...)
		span.RecordError(err)
		return res, fmt.Errorf("node state store rejected an update: %w", err)
	}
	return res, nil
}

// completion is sent by a worker when its computation has finished.
type completion struct {
	id       string
	output   any
	err      error
	timedOut bool
	timeout  time.Duration
	elapsed  time.Duration
}

// run is the state of a single Execute call. Every field is owned by the
// coordination goroutine.
type run struct {
	e       *Executor
	g       *graph.Graph
	plan    scheduler.Plan
	index   map[string]int
	tracker *scheduler.Tracker
	state   nodestore.Store
	sem     *semaphore.Weighted
	cancel  <-chan struct{}
	done    chan completion
	logger  *slog.Logger

	ready       readyQueue
	inFlight    int
	maxInFlight int
	stopCause   error
	cancelled   bool
	aborted     bool
	errs        []error
}

func (r *run) loop(ctx context.Context) *Result {
	r.logger.Debug("Execution started.", "nodes", r.g.Len(), "frontiers", r.plan.Len())
	for _, id := range r.tracker.Initial() {
		r.markReady(id)
	}

	for {
		r.launch(ctx)
		if r.inFlight == 0 {
			break
		}
		r.finish(<-r.done)
	}

	if r.stopCause != nil {
		r.skipRemaining()
	}

	r.logger.Debug("Execution finished.", "maxInFlight", r.maxInFlight, "cancelled", r.cancelled, "aborted", r.aborted)
	return &Result{
		Entries:     r.state.Snapshot(),
		MaxInFlight: r.maxInFlight,
		Cancelled:   r.cancelled,
		Aborted:     r.aborted,
	}
}

// launch starts ready nodes while slots are free and no stop is requested.
func (r *run) launch(ctx context.Context) {
	for r.ready.Len() > 0 {
		if r.stopRequested(ctx) {
			return
		}
		if !r.sem.TryAcquire(1) {
			return
		}
		id := heap.Pop(&r.ready).(readyItem).id

		if upstream, failed := r.failedUpstream(id); failed {
			r.sem.Release(1)
			r.skip(id, &SkipError{NodeID: id, Cause: ErrUpstreamFailed, Upstream: upstream})
			continue
		}
		r.start(ctx, id)
	}
}

// stopRequested samples cancellation. Once a stop is observed it is sticky.
func (r *run) stopRequested(ctx context.Context) bool {
	if r.stopCause != nil {
		return true
	}
	select {
	case <-r.cancel:
		r.stop(ErrCancelled)
		r.cancelled = true
	case <-ctx.Done():
		r.stop(fmt.Errorf("%w: %w", ErrCancelled, context.Cause(ctx)))
		r.cancelled = true
	default:
		return false
	}
	return true
}

func (r *run) stop(cause error) {
	if r.stopCause == nil {
		r.logger.Info("Execution stopping, no further nodes will be started.", "cause", cause)
		r.stopCause = cause
	}
}

// failedUpstream reports whether any dependency of id did not succeed, and
// names the failed node at the root of it.
func (r *run) failedUpstream(id string) (string, bool) {
	deps, _ := r.g.DependenciesOf(id)
	for _, dep := range deps {
		st, _ := r.state.GetStatus(dep)
		switch st {
		case node.StatusFailed:
			return dep, true
		case node.StatusSkipped:
			var skipErr *SkipError
			if errors.As(r.state.GetError(dep), &skipErr) && skipErr.Upstream != "" {
				return skipErr.Upstream, true
			}
			return dep, true
		}
	}
	return "", false
}

func (r *run) start(ctx context.Context, id string) {
	n, _ := r.g.Node(id)
	deps, _ := r.g.DependenciesOf(id)
	inputs := make(node.Inputs, len(deps))
	for _, dep := range deps {
		out, _ := r.state.GetOutput(dep)
		inputs[dep] = out
	}

	r.setStatus(id, node.StatusRunning, nil)
	r.inFlight++
	r.maxInFlight = max(r.maxInFlight, r.inFlight)
	r.e.metrics.NodeStarted()

	timeout := n.Timeout()
	if timeout <= 0 {
		timeout = r.e.defaultTimeout
	}
	go r.e.work(ctx, n, inputs, timeout, r.done)
}

func (r *run) finish(c completion) {
	r.inFlight--
	r.sem.Release(1)
	logger := r.logger.With("nodeID", c.id, "elapsed", c.elapsed)

	if c.err == nil {
		r.e.metrics.NodeFinished("succeeded", c.elapsed)
		r.record(r.state.SetOutput(c.id, c.output))
		r.setStatus(c.id, node.StatusSucceeded, nil)
		logger.Debug("Node succeeded.")
		for _, next := range r.tracker.Complete(c.id) {
			r.markReady(next)
		}
		return
	}

	r.e.metrics.NodeFinished("failed", c.elapsed)
	nodeErr := &NodeError{NodeID: c.id, Err: c.err, TimedOut: c.timedOut, Timeout: c.timeout}
	r.record(r.state.SetError(c.id, nodeErr))
	r.setStatus(c.id, node.StatusFailed, nodeErr)
	logger.Error("Node failed.", "error", nodeErr)

	r.tracker.Complete(c.id)
	r.skipDescendants(c.id)

	if r.e.policy == FailFast {
		r.stop(ErrAborted)
		r.aborted = true
	}
}

// skipDescendants marks every not-yet-started transitive dependent of the
// failed node as skipped.
func (r *run) skipDescendants(failed string) {
	descendants, _ := r.g.Descendants(failed)
	for _, id := range descendants {
		st, _ := r.state.GetStatus(id)
		if st.IsTerminal() || st == node.StatusRunning {
			continue
		}
		r.skip(id, &SkipError{NodeID: id, Cause: ErrUpstreamFailed, Upstream: failed})
	}
}

// skipRemaining marks every node that never started as skipped with the
// stop cause. It runs after all in-flight computations have finished.
func (r *run) skipRemaining() {
	for _, id := range r.plan.Nodes() {
		st, _ := r.state.GetStatus(id)
		if st.IsTerminal() {
			continue
		}
		r.skip(id, &SkipError{NodeID: id, Cause: r.stopCause})
	}
}

func (r *run) skip(id string, cause *SkipError) {
	r.record(r.state.SetError(id, cause))
	r.setStatus(id, node.StatusSkipped, cause)
	r.e.metrics.NodeSkipped()
	r.logger.Debug("Node skipped.", "nodeID", id, "reason", cause)
	r.tracker.Complete(id)
}

// markReady queues a node whose dependencies are all terminal. Nodes already
// skipped because of an upstream failure stay skipped.
func (r *run) markReady(id string) {
	if st, _ := r.state.GetStatus(id); st != node.StatusPending {
		return
	}
	r.setStatus(id, node.StatusReady, nil)
	heap.Push(&r.ready, readyItem{frontier: r.index[id], id: id})
}

func (r *run) setStatus(id string, st node.Status, err error) {
	if r.record(r.state.SetStatus(id, st)) {
		r.e.notify(Event{NodeID: id, Status: st, Err: err})
	}
}

func (r *run) record(err error) bool {
	if err != nil {
		r.logger.Error("Node state update rejected.", "error", err)
		r.errs = append(r.errs, err)
		return false
	}
	return true
}

func (e *Executor) notify(ev Event) {
	for _, fn := range e.observers {
		fn(ev)
	}
}
