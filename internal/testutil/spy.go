package testutil

import (
	"context"
	"sync"

	"github.com/vk/erdos/internal/handlers"
)

// SpyModule registers a "spy" kind that records the inputs it was called
// with and returns its "value" argument, and a "failer" kind that returns Err.
type SpyModule struct {
	Err error

	mu    sync.Mutex
	calls map[string]handlers.Input
}

// NewSpyModule creates a SpyModule whose failer nodes return err.
func NewSpyModule(err error) *SpyModule {
	return &SpyModule{Err: err, calls: make(map[string]handlers.Input)}
}

// Register registers the "spy" and "failer" handlers.
func (m *SpyModule) Register(h *handlers.Handlers) {
	h.RegisterHandler("spy", m.onSpy)
	h.RegisterHandler("failer", func(context.Context, handlers.Input) (any, error) {
		return nil, m.Err
	})
}

func (m *SpyModule) onSpy(_ context.Context, in handlers.Input) (any, error) {
	m.mu.Lock()
	m.calls[in.NodeID] = in
	m.mu.Unlock()

	goArgs, err := handlers.ToGo(in.Args)
	if err != nil {
		return nil, err
	}
	values, _ := goArgs.(map[string]any)
	return values["value"], nil
}

// Called reports whether the spy node with the given ID ran, and its input.
func (m *SpyModule) Called(id string) (handlers.Input, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.calls[id]
	return in, ok
}
