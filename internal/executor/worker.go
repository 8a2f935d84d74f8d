package executor

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vk/erdos/internal/ctxlog"
	"github.com/vk/erdos/internal/node"
)

type outcome struct {
	output any
	err    error
}

// work runs one node's computation and reports the outcome on done.
func (e *Executor) work(ctx context.Context, n *node.Node, in node.Inputs, timeout time.Duration, done chan<- completion) {
	ctx, span := e.tracer.Start(ctx, "node "+n.ID(), trace.WithAttributes(
		attribute.String("erdos.node_id", n.ID()),
		attribute.String("erdos.node_kind", n.Kind()),
	))
	defer span.End()

	logger := ctxlog.FromContext(ctx).With("nodeID", n.ID())
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Node started.", "timeout", timeout)

	started := time.Now()
	c := completion{id: n.ID(), timeout: timeout}

	var res outcome
	if timeout <= 0 {
		res = compute(ctx, n, in)
	} else {
		res, c.timedOut = computeWithTimeout(ctx, n, in, timeout)
	}
	c.output, c.err = res.output, res.err
	c.elapsed = time.Since(started)

	if c.err != nil {
		span.RecordError(c.err)
		span.SetStatus(codes.Error, c.err.Error())
	}
	done <- c
}

// computeWithTimeout abandons the computation when its deadline passes. If
// the parent context ends first the computation is still awaited, since
// cancellation is cooperative.
func computeWithTimeout(ctx context.Context, n *node.Node, in node.Inputs, timeout time.Duration) (outcome, bool) {
	nctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results := make(chan outcome, 1)
	go func() { results <- compute(nctx, n, in) }()

	select {
	case res := <-results:
		timedOut := res.err != nil && ctx.Err() == nil && errors.Is(nctx.Err(), context.DeadlineExceeded)
		return res, timedOut
	case <-nctx.Done():
		if ctx.Err() == nil {
			return outcome{err: nctx.Err()}, true
		}
		return <-results, false
	}
}

// compute calls the node's computation, converting a panic into an error.
func compute(ctx context.Context, n *node.Node, in node.Inputs) (res outcome) {
	defer func() {
		if v := recover(); v != nil {
			res = outcome{err: &panicError{value: v}}
		}
	}()
	out, err := n.Compute(ctx, in)
	return outcome{output: out, err: err}
}
