// Package node defines the immutable unit of work executed by the engine and
// the status values a node moves through during a run.
package node

import (
	"context"
	"slices"
	"time"
)

// Inputs carries the results of a node's dependencies, keyed by dependency ID.
type Inputs map[string]any

// Computation is the work a node performs. It receives the results of all of
// its dependencies and returns its own result or an error.
type Computation func(ctx context.Context, in Inputs) (any, error)

// Node is a single vertex in the execution graph. Its fields are unexported
// so that a registered node cannot be mutated afterwards.
type Node struct {
	// id is the unique identity of the node within a graph.
	id string
	// kind names the handler a file-defined node was bound to. Empty for
	// nodes built directly in Go.
	kind string
	// deps holds the sorted, de-duplicated identities this node depends on.
	deps []string
	// compute is the node's computation.
	compute Computation
	// timeout bounds a single execution of compute. Zero means no node-level limit.
	timeout time.Duration
	// cost is an estimated weight used by critical path analysis.
	cost float64
}

// Option customizes a Node at construction time.
type Option func(*Node)

// WithTimeout sets a per-node execution timeout.
func WithTimeout(d time.Duration) Option {
	return func(n *Node) { n.timeout = d }
}

// WithKind records which handler kind produced the node.
func WithKind(kind string) Option {
	return func(n *Node) { n.kind = kind }
}

// WithCost sets the node's estimated cost.
func WithCost(cost float64) Option {
	return func(n *Node) { n.cost = cost }
}

// New creates a node. Duplicate dependency identities are collapsed and the
// remaining set is kept in sorted order.
func New(id string, fn Computation, deps []string, opts ...Option) *Node {
	n := &Node{
		id:      id,
		deps:    normalizeDeps(deps),
		compute: fn,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// ID returns the node's identity.
func (n *Node) ID() string {
	return n.id
}

// Kind returns the handler kind, if any.
func (n *Node) Kind() string {
	return n.kind
}

// Deps returns a copy of the node's dependency identities.
func (n *Node) Deps() []string {
	return slices.Clone(n.deps)
}

// HasComputation reports whether the node carries a computation.
func (n *Node) HasComputation() bool {
	return n.compute != nil
}

// Timeout returns the node-level timeout, or zero if none is set.
func (n *Node) Timeout() time.Duration {
	return n.timeout
}

// Cost returns the node's estimated cost.
func (n *Node) Cost() float64 {
	return n.cost
}

// Compute runs the node's computation.
func (n *Node) Compute(ctx context.Context, in Inputs) (any, error) {
	return n.compute(ctx, in)
}

func normalizeDeps(deps []string) []string {
	if len(deps) == 0 {
		return nil
	}
	out := slices.Clone(deps)
	slices.Sort(out)
	return slices.Compact(out)
}
