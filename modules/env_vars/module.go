package env_vars

import (
	"context"
	"os"
	"strings"

	"github.com/vk/erdos/internal/handlers"
)

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Input defines the arguments for the env_vars handler.
type Input struct {
	// Prefix restricts the result to variables whose name starts with it.
	Prefix string `cty:"prefix"`
}

// Register registers the 'env_vars' handler with the engine.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler("env_vars", OnRunEnvVars)
}

// OnRunEnvVars returns the process environment as {"all": map[string]string}.
func OnRunEnvVars(_ context.Context, in handlers.Input) (any, error) {
	var input Input
	if err := handlers.DecodeArgs(in.Args, &input); err != nil {
		return nil, err
	}

	envMap := make(map[string]string)
	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 && strings.HasPrefix(pair[0], input.Prefix) {
			envMap[pair[0]] = pair[1]
		}
	}

	return map[string]any{"all": envMap}, nil
}
