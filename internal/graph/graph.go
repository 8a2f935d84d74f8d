package graph

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/vk/erdos/internal/ctxlog"
	"github.com/vk/erdos/internal/inmemorytopology"
	"github.com/vk/erdos/internal/node"
	"github.com/vk/erdos/internal/topologystore"
)

// Graph is a validated, immutable DAG of nodes.
type Graph struct {
	topology topologystore.Store
	ids      []string
}

// Build validates the given nodes and constructs a Graph. It has no side
// effects on its input.
func Build(ctx context.Context, nodes []*node.Node) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)

	if slices.Contains(nodes, nil) {
		return nil, fmt.Errorf("cannot build graph: nil node")
	}
	sorted := sortedByID(nodes)

	byID := make(map[string]*node.Node, len(sorted))
	for _, n := range sorted {
		if _, dup := byID[n.ID()]; dup {
			return nil, &GraphError{Kind: ErrDuplicateIdentity, Node: n.ID()}
		}
		byID[n.ID()] = n
	}

	for _, n := range sorted {
		for _, dep := range n.Deps() {
			if _, ok := byID[dep]; !ok {
				return nil, &GraphError{Kind: ErrUnknownDependency, Node: n.ID(), Missing: dep}
			}
		}
	}

	if cycle := findCycle(sorted, byID); cycle != nil {
		return nil, &GraphError{Kind: ErrCycleDetected, Node: cycle[0], Cycle: cycle}
	}

	topology := inmemorytopology.New()
	ids := make([]string, 0, len(sorted))
	for _, n := range sorted {
		if err := topology.AddNode(n); err != nil {
			return nil, fmt.Errorf("failed to add node '%s' to topology: %w", n.ID(), err)
		}
		ids = append(ids, n.ID())
	}
	for _, n := range sorted {
		for _, dep := range n.Deps() {
			if err := topology.AddDependency(dep, n.ID()); err != nil {
				return nil, fmt.Errorf("failed to link '%s' to '%s': %w", n.ID(), dep, err)
			}
		}
	}

	logger.Debug("Graph built.", "nodes", len(ids))
	return &Graph{topology: topology, ids: ids}, nil
}

const (
	white = iota
	grey
	black
)

// findCycle runs a three-color depth-first search over dependency edges and
// returns the first cycle found, or nil. Nodes and their dependencies are
// visited in sorted order, so the witness is deterministic.
func findCycle(sorted []*node.Node, byID map[string]*node.Node) []string {
	color := make(map[string]int, len(sorted))
	var path []string

	var visit func(id string) []string
	visit = func(id string) []string {
		color[id] = grey
		path = append(path, id)
		for _, dep := range byID[id].Deps() {
			switch color[dep] {
			case grey:
				start := slices.Index(path, dep)
				cycle := slices.Clone(path[start:])
				return append(cycle, dep)
			case white:
				if c := visit(dep); c != nil {
					return c
				}
			}
		}
		path = path[:len(path)-1]
		color[id] = black
		return nil
	}

	for _, n := range sorted {
		if color[n.ID()] == white {
			if c := visit(n.ID()); c != nil {
				return c
			}
		}
	}
	return nil
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.ids)
}

// IDs returns every node identity in sorted order.
func (g *Graph) IDs() []string {
	return slices.Clone(g.ids)
}

// Node returns the node with the given identity.
func (g *Graph) Node(id string) (*node.Node, bool) {
	return g.topology.GetNode(id)
}

// Nodes returns all nodes sorted by identity.
func (g *Graph) Nodes() []*node.Node {
	return g.topology.AllNodes()
}

// DependenciesOf returns the sorted identities the given node depends on.
func (g *Graph) DependenciesOf(id string) ([]string, error) {
	return g.topology.DependenciesOf(id)
}

// DependentsOf returns the sorted identities of nodes that depend on id.
func (g *Graph) DependentsOf(id string) ([]string, error) {
	return g.topology.DependentsOf(id)
}

// Roots returns the sorted identities of nodes without dependencies.
func (g *Graph) Roots() []string {
	var roots []string
	for _, id := range g.ids {
		deps, _ := g.topology.DependenciesOf(id)
		if len(deps) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

func sortedByID(nodes []*node.Node) []*node.Node {
	sorted := slices.Clone(nodes)
	slices.SortStableFunc(sorted, func(a, b *node.Node) int { return cmp.Compare(a.ID(), b.ID()) })
	return sorted
}
