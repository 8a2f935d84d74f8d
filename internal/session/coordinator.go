package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vk/erdos/internal/ctxlog"
	"github.com/vk/erdos/internal/executor"
	"github.com/vk/erdos/internal/graph"
	"github.com/vk/erdos/internal/inmemorystore"
	"github.com/vk/erdos/internal/metrics"
	"github.com/vk/erdos/internal/node"
	"github.com/vk/erdos/internal/nodestore"
	"github.com/vk/erdos/internal/scheduler"
)

// ErrInvalidConcurrency is returned for a concurrency limit below one.
var ErrInvalidConcurrency = executor.ErrInvalidConcurrency

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithExecutorOptions configures the executor used for every run.
func WithExecutorOptions(opts ...executor.Option) Option {
	return func(c *Coordinator) { c.execOpts = append(c.execOpts, opts...) }
}

// WithMetrics records run and node metrics in m.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Coordinator) {
		c.metrics = m
		c.execOpts = append(c.execOpts, executor.WithMetrics(m))
	}
}

// WithStoreFactory replaces the per-run node state store.
func WithStoreFactory(fn func() nodestore.Store) Option {
	return func(c *Coordinator) { c.newStore = fn }
}

// Coordinator starts runs. It is safe for concurrent use.
type Coordinator struct {
	exec     *executor.Executor
	execOpts []executor.Option
	newStore func() nodestore.Store
	metrics  *metrics.Collector
	tracer   trace.Tracer
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		newStore: inmemorystore.New,
		tracer:   otel.Tracer("erdos/session"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.exec = executor.New(c.execOpts...)
	return c
}

// Start validates nodes, then begins executing them in the background with
// at most limit computations at once.
func (c *Coordinator) Start(ctx context.Context, nodes []*node.Node, limit int) (*Run, error) {
	g, err := graph.Build(ctx, nodes)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}
	return c.StartGraph(ctx, g, limit)
}

// StartGraph begins executing a graph built earlier. The graph may be shared
// by any number of concurrent runs.
func (c *Coordinator) StartGraph(ctx context.Context, g *graph.Graph, limit int) (*Run, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidConcurrency, limit)
	}

	r := &Run{
		id:     uuid.NewString(),
		graph:  g,
		plan:   scheduler.Frontiers(g),
		state:  c.newStore(),
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
	}
	// Seed the store so Status works before the executor gets going.
	if err := r.state.Init(g.IDs()); err != nil {
		return nil, fmt.Errorf("failed to initialize node state: %w", err)
	}

	logger := ctxlog.FromContext(ctx).With("runID", r.id)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Info("Run started.", "nodes", g.Len(), "frontiers", r.plan.Len(), "limit", limit)

	go c.execute(ctx, r, limit)
	return r, nil
}

// Run is Start followed by waiting for the result.
func (c *Coordinator) Run(ctx context.Context, nodes []*node.Node, limit int) (*RunResult, error) {
	r, err := c.Start(ctx, nodes, limit)
	if err != nil {
		return nil, err
	}
	<-r.Done()
	return r.result, r.err
}

// RunGraph is StartGraph followed by waiting for the result.
func (c *Coordinator) RunGraph(ctx context.Context, g *graph.Graph, limit int) (*RunResult, error) {
	r, err := c.StartGraph(ctx, g, limit)
	if err != nil {
		return nil, err
	}
	<-r.Done()
	return r.result, r.err
}

func (c *Coordinator) execute(ctx context.Context, r *Run, limit int) {
	defer close(r.done)

	ctx, span := c.tracer.Start(ctx, "session.Run", trace.WithAttributes(
		attribute.String("erdos.run_id", r.id),
	))
	defer span.End()

	logger := ctxlog.FromContext(ctx)
	started := time.Now()
	res, err := c.exec.Execute(ctx, r.graph, r.plan, limit, r.cancel, r.state)
	elapsed := time.Since(started)

	r.err = err
	if res != nil {
		r.result = newRunResult(r.id, res, elapsed)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("Run aborted by internal error.", "error", err)
		return
	}

	outcome := r.result.outcome()
	c.metrics.RunFinished(outcome, elapsed)
	if outcome != "ok" {
		span.SetStatus(codes.Error, outcome)
	}
	logger.Info("Run finished.",
		"outcome", outcome,
		"succeeded", len(r.result.Succeeded),
		"failed", len(r.result.Failed),
		"skipped", len(r.result.Skipped),
		"duration", elapsed,
	)
}
