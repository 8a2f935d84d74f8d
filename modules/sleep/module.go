package sleep

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/erdos/internal/ctxlog"
	"github.com/vk/erdos/internal/handlers"
)

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Input defines the arguments for the sleep handler.
type Input struct {
	Duration string `cty:"duration"`
}

// Register registers the 'sleep' handler with the engine.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler("sleep", OnRunSleep)
}

// OnRunSleep waits for the configured duration, or until ctx ends.
func OnRunSleep(ctx context.Context, in handlers.Input) (any, error) {
	input := Input{Duration: "1s"}
	if err := handlers.DecodeArgs(in.Args, &input); err != nil {
		return nil, err
	}
	d, err := time.ParseDuration(input.Duration)
	if err != nil {
		return nil, fmt.Errorf("invalid duration %q: %w", input.Duration, err)
	}

	ctxlog.FromContext(ctx).Debug("Sleeping.", "duration", d)
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return map[string]any{"slept": d.String()}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
