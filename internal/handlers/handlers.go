// Package handlers maps node kinds named in graph files to the Go functions
// that perform their work, and binds file-defined node specifications to
// executable nodes.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/erdos/internal/config"
	"github.com/vk/erdos/internal/node"
)

// Input is everything a handler receives for one execution.
type Input struct {
	// NodeID is the identity of the node being executed.
	NodeID string
	// Args holds the node's static arguments as an object value.
	Args cty.Value
	// Deps holds the results of the node's dependencies.
	Deps node.Inputs
}

// Handler performs the work of one node kind.
type Handler func(ctx context.Context, in Input) (any, error)

// Module is implemented by every built-in module. Register adds the
// module's handlers to the table.
type Module interface {
	Register(h *Handlers)
}

// Handlers holds all the registered handlers.
type Handlers struct {
	all map[string]Handler
}

// New creates and initializes a new Handlers instance.
func New() *Handlers {
	return &Handlers{
		all: make(map[string]Handler),
	}
}

// RegisterHandler registers the Go function for a node kind.
func (h *Handlers) RegisterHandler(kind string, fn Handler) {
	if _, exists := h.all[kind]; exists {
		panic(fmt.Sprintf("handler for kind '%s' already registered", kind))
	}
	slog.Debug("Registering node handler.", "kind", kind)
	h.all[kind] = fn
}

// Get returns the handler for kind.
func (h *Handlers) Get(kind string) (Handler, bool) {
	fn, ok := h.all[kind]
	return fn, ok
}

// Kinds returns every registered kind in sorted order.
func (h *Handlers) Kinds() []string {
	return slices.Sorted(maps.Keys(h.all))
}

// Bind turns a node specification into an executable node whose
// computation calls the handler for the specification's kind.
func (h *Handlers) Bind(spec *config.NodeSpec) (*node.Node, error) {
	fn, ok := h.all[spec.Kind]
	if !ok {
		return nil, fmt.Errorf("%s: node '%s' has unknown kind '%s' (known kinds: %v)", spec.Source, spec.Name, spec.Kind, h.Kinds())
	}

	args := spec.Arguments
	if args.Type() == cty.NilType || args.IsNull() {
		args = cty.EmptyObjectVal
	}
	id := spec.Name
	compute := func(ctx context.Context, deps node.Inputs) (any, error) {
		return fn(ctx, Input{NodeID: id, Args: args, Deps: deps})
	}

	return node.New(id, compute, spec.DependsOn,
		node.WithKind(spec.Kind),
		node.WithTimeout(spec.Timeout),
		node.WithCost(spec.Cost),
	), nil
}

// BindAll binds every node of a model.
func (h *Handlers) BindAll(model *config.Model) ([]*node.Node, error) {
	nodes := make([]*node.Node, 0, len(model.Nodes))
	for _, spec := range model.Nodes {
		n, err := h.Bind(spec)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}
