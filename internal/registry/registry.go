package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/vk/erdos/internal/ctxlog"
	"github.com/vk/erdos/internal/node"
)

var (
	// ErrDuplicateIdentity is returned when a node identity is registered twice.
	ErrDuplicateIdentity = errors.New("duplicate node identity")
	// ErrInvalidNode is returned when a node fails basic validation.
	ErrInvalidNode = errors.New("invalid node")
)

// DuplicateError reports a rejected registration of an identity that is
// already present.
type DuplicateError struct {
	ID string
}

// Error implements the error interface.
func (e *DuplicateError) Error() string {
	return fmt.Sprintf("node '%s' is already registered", e.ID)
}

// Unwrap allows errors.Is(err, ErrDuplicateIdentity).
func (e *DuplicateError) Unwrap() error {
	return ErrDuplicateIdentity
}

// Registry stores node definitions keyed by identity.
type Registry struct {
	mu    sync.RWMutex
	nodes map[string]*node.Node
}

// New creates and initializes an empty Registry.
func New() *Registry {
	return &Registry{
		nodes: make(map[string]*node.Node),
	}
}

// Register adds a node. Registering an identity that already exists returns a
// *DuplicateError and leaves the registry unchanged.
func (r *Registry) Register(n *node.Node) error {
	if err := Validate(n); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.nodes[n.ID()]; exists {
		return &DuplicateError{ID: n.ID()}
	}
	r.nodes[n.ID()] = n
	return nil
}

// Add is a convenience wrapper that builds and registers a node in one call.
func (r *Registry) Add(id string, fn node.Computation, deps ...string) error {
	return r.Register(node.New(id, fn, deps))
}

// RegisterAll registers every node and reports all rejected registrations
// together. Accepted nodes stay registered even when others fail.
func (r *Registry) RegisterAll(ctx context.Context, nodes ...*node.Node) error {
	logger := ctxlog.FromContext(ctx)

	var errs []error
	for _, n := range nodes {
		if err := r.Register(n); err != nil {
			logger.Debug("Node registration rejected.", "error", err)
			errs = append(errs, err)
			continue
		}
		logger.Debug("Node registered.", "nodeID", n.ID(), "deps", strings.Join(n.Deps(), ","))
	}
	return errors.Join(errs...)
}

// Get returns the node registered under id.
func (r *Registry) Get(id string) (*node.Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.nodes[id]
	return n, ok
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.nodes)
}

// Snapshot returns the registered nodes sorted by identity.
func (r *Registry) Snapshot() []*node.Node {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*node.Node, 0, len(r.nodes))
	for _, n := range r.nodes {
		out = append(out, n)
	}
	slices.SortFunc(out, func(a, b *node.Node) int {
		return strings.Compare(a.ID(), b.ID())
	})
	return out
}
