package graph

import (
	"cmp"
	"slices"

	"github.com/vk/erdos/internal/node"
)

// StronglyConnectedComponents partitions an unvalidated set of nodes into
// strongly connected components using Kosaraju's algorithm. Dependencies on
// unknown identities are ignored. Each component is sorted, and components
// are ordered by their smallest member.
func StronglyConnectedComponents(nodes []*node.Node) [][]string {
	deps := make(map[string][]string, len(nodes))
	dependents := make(map[string][]string, len(nodes))
	var ids []string
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if _, seen := deps[n.ID()]; !seen {
			ids = append(ids, n.ID())
		}
		deps[n.ID()] = n.Deps()
	}
	slices.Sort(ids)
	for _, id := range ids {
		for _, dep := range deps[id] {
			if _, ok := deps[dep]; ok {
				dependents[dep] = append(dependents[dep], id)
			}
		}
	}

	visited := make(map[string]bool, len(ids))
	finished := make([]string, 0, len(ids))
	var first func(id string)
	first = func(id string) {
		visited[id] = true
		for _, dep := range deps[id] {
			if _, ok := deps[dep]; ok && !visited[dep] {
				first(dep)
			}
		}
		finished = append(finished, id)
	}
	for _, id := range ids {
		if !visited[id] {
			first(id)
		}
	}

	assigned := make(map[string]bool, len(ids))
	var components [][]string
	var second func(id string, comp *[]string)
	second = func(id string, comp *[]string) {
		assigned[id] = true
		*comp = append(*comp, id)
		for _, d := range dependents[id] {
			if !assigned[d] {
				second(d, comp)
			}
		}
	}
	for i := len(finished) - 1; i >= 0; i-- {
		id := finished[i]
		if assigned[id] {
			continue
		}
		var comp []string
		second(id, &comp)
		slices.Sort(comp)
		components = append(components, comp)
	}

	slices.SortFunc(components, func(a, b []string) int {
		return cmp.Compare(a[0], b[0])
	})
	return components
}

// FindCycles returns every strongly connected component that contains a
// cycle: components with more than one member, and single nodes that depend
// on themselves.
func FindCycles(nodes []*node.Node) [][]string {
	selfLoop := make(map[string]bool)
	for _, n := range nodes {
		if n != nil && slices.Contains(n.Deps(), n.ID()) {
			selfLoop[n.ID()] = true
		}
	}

	var cycles [][]string
	for _, comp := range StronglyConnectedComponents(nodes) {
		if len(comp) > 1 || selfLoop[comp[0]] {
			cycles = append(cycles, comp)
		}
	}
	return cycles
}
