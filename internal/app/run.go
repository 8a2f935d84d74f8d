package app

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vk/erdos/internal/ctxlog"
	"github.com/vk/erdos/internal/graph"
	"github.com/vk/erdos/internal/session"
	"github.com/vk/erdos/internal/telemetry"
)

// Run executes the main application logic: it loads the graph, prints the
// plan and, unless the app only validates, runs the graph and prints the
// report. Ending ctx cancels the run cooperatively. A run in which any node
// failed returns a *session.PartialFailureError.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:   "erdos",
		TraceExporter: a.config.TraceExporter,
	}, a.outW)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		err = errors.Join(err, shutdownTracing(context.WithoutCancel(ctx)))
	}()

	a.startHealthcheckServer()
	defer func() {
		err = errors.Join(err, a.closeHealthcheckServer(ctx))
	}()

	g, err := a.loadGraph(ctx)
	if err != nil {
		return err
	}
	if g.Len() == 0 {
		a.logger.Warn("No nodes found in graph, execution not required.")
		return nil
	}

	if a.config.ValidateOnly {
		a.printValidation(g)
		return nil
	}

	a.logger.Info("🚀 Starting concurrent execution...", "workers", a.config.WorkerCount)
	run, res, err := a.execute(ctx, g)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Info("🏁 Execution finished.", "runID", res.RunID, "duration", res.Duration)

	a.printReport(run, res)
	return res.Err()
}

// execute starts the run detached from ctx and cancels it cooperatively
// when ctx ends, so that in-flight nodes are allowed to finish.
func (a *App) execute(ctx context.Context, g *graph.Graph) (*session.Run, *session.RunResult, error) {
	run, err := a.coordinator.StartGraph(context.WithoutCancel(ctx), g, a.config.WorkerCount)
	if err != nil {
		return nil, nil, err
	}
	a.printPlan(run)

	var res *session.RunResult
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		select {
		case <-egCtx.Done():
			a.logger.Warn("Interrupted, cancelling run. Running nodes will finish.", "runID", run.ID())
			run.Cancel()
		case <-run.Done():
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		res, err = run.Wait(context.WithoutCancel(ctx))
		return err
	})

	err = eg.Wait()
	return run, res, err
}
