package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/erdos/internal/registry"
)

var (
	// ErrDuplicateIdentity is returned when two nodes share an identity.
	ErrDuplicateIdentity = registry.ErrDuplicateIdentity
	// ErrUnknownDependency is returned when a node depends on an identity
	// that is not part of the graph.
	ErrUnknownDependency = errors.New("unknown dependency")
	// ErrCycleDetected is returned when the dependency relation is cyclic.
	ErrCycleDetected = errors.New("cycle detected")
)

// GraphError describes why a set of nodes could not be built into a graph.
type GraphError struct {
	// Kind is one of the package's sentinel errors.
	Kind error
	// Node is the offending node, if any.
	Node string
	// Missing is the unresolved dependency for ErrUnknownDependency.
	Missing string
	// Cycle is the witness path for ErrCycleDetected.
	Cycle []string
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	switch {
	case errors.Is(e.Kind, ErrCycleDetected):
		return fmt.Sprintf("cycle detected: %s", strings.Join(e.Cycle, " -> "))
	case errors.Is(e.Kind, ErrUnknownDependency):
		return fmt.Sprintf("unknown dependency: node '%s' depends on '%s'", e.Node, e.Missing)
	case errors.Is(e.Kind, ErrDuplicateIdentity):
		return fmt.Sprintf("duplicate node identity: '%s'", e.Node)
	default:
		return fmt.Sprintf("invalid graph at node '%s': %v", e.Node, e.Kind)
	}
}

// Unwrap allows errors.Is against the Kind sentinel.
func (e *GraphError) Unwrap() error {
	return e.Kind
}
