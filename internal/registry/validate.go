package registry

import (
	"fmt"
	"slices"

	"github.com/vk/erdos/internal/node"
)

// Validate performs the checks that can be made on a node in isolation.
// Checks that need the whole graph (unknown dependencies, cycles) belong to
// the graph builder. A node listing itself as a dependency passes here and is
// reported by the builder as a cycle.
func Validate(n *node.Node) error {
	if n == nil {
		return fmt.Errorf("%w: node is nil", ErrInvalidNode)
	}
	if n.ID() == "" {
		return fmt.Errorf("%w: identity must not be empty", ErrInvalidNode)
	}
	if !n.HasComputation() {
		return fmt.Errorf("%w: node '%s' has no computation", ErrInvalidNode, n.ID())
	}
	if slices.Contains(n.Deps(), "") {
		return fmt.Errorf("%w: node '%s' declares an empty dependency identity", ErrInvalidNode, n.ID())
	}
	return nil
}
