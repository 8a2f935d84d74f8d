// Package fail provides a node kind that always fails. It is useful for
// exercising failure propagation in graph files.
package fail

import (
	"context"
	"errors"

	"github.com/vk/erdos/internal/handlers"
)

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Input defines the arguments for the fail handler.
type Input struct {
	Message string `cty:"message"`
}

// Register registers the 'fail' handler with the engine.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler("fail", OnRunFail)
}

// OnRunFail returns an error carrying the configured message.
func OnRunFail(_ context.Context, in handlers.Input) (any, error) {
	input := Input{Message: "failure requested"}
	if err := handlers.DecodeArgs(in.Args, &input); err != nil {
		return nil, err
	}
	return nil, errors.New(input.Message)
}
