package print

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/vk/erdos/internal/ctxlog"
	"github.com/vk/erdos/internal/handlers"
)

// Module implements the handlers.Module interface for this package.
type Module struct {
	// Out receives the printed lines. Defaults to os.Stdout.
	Out io.Writer
}

// Register registers the 'print' handler with the engine.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler("print", m.OnRunPrint)
}

// OnRunPrint writes the node's arguments and the results of its dependencies,
// one per line in sorted order, and returns the arguments as a plain map.
func (m *Module) OnRunPrint(ctx context.Context, in handlers.Input) (any, error) {
	ctxlog.FromContext(ctx).Info("Printing input")

	out := m.Out
	if out == nil {
		out = os.Stdout
	}

	args, err := handlers.ToGo(in.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to convert arguments: %w", err)
	}
	values, _ := args.(map[string]any)

	if len(values) == 0 && len(in.Deps) == 0 {
		fmt.Fprintf(out, "[%s]      (null)\n", in.NodeID)
		return values, nil
	}
	for _, k := range slices.Sorted(maps.Keys(values)) {
		fmt.Fprintf(out, "[%s]      %s = %v\n", in.NodeID, k, values[k])
	}
	for _, dep := range slices.Sorted(maps.Keys(in.Deps)) {
		fmt.Fprintf(out, "[%s]      <- %s = %v\n", in.NodeID, dep, in.Deps[dep])
	}
	return values, nil
}
