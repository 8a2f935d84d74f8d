package graph

import (
	"fmt"
	"slices"
)

// TopologicalOrder returns every node identity such that each node appears
// after all of its dependencies. The order is the depth-first finishing order
// over dependency edges, with nodes and edges visited in sorted order.
func (g *Graph) TopologicalOrder() []string {
	visited := make(map[string]bool, len(g.ids))
	order := make([]string, 0, len(g.ids))

	var visit func(id string)
	visit = func(id string) {
		visited[id] = true
		deps, _ := g.topology.DependenciesOf(id)
		for _, dep := range deps {
			if !visited[dep] {
				visit(dep)
			}
		}
		order = append(order, id)
	}

	for _, id := range g.ids {
		if !visited[id] {
			visit(id)
		}
	}
	return order
}

// Ancestors returns, in sorted order, every node that id depends on directly
// or transitively.
func (g *Graph) Ancestors(id string) ([]string, error) {
	return g.closure(id, g.topology.DependenciesOf)
}

// Descendants returns, in sorted order, every node that depends on id
// directly or transitively.
func (g *Graph) Descendants(id string) ([]string, error) {
	return g.closure(id, g.topology.DependentsOf)
}

func (g *Graph) closure(id string, next func(string) ([]string, error)) ([]string, error) {
	if _, ok := g.topology.GetNode(id); !ok {
		return nil, fmt.Errorf("node '%s' not found in graph", id)
	}

	seen := map[string]bool{id: true}
	queue := []string{id}
	var out []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		adj, err := next(cur)
		if err != nil {
			return nil, err
		}
		for _, n := range adj {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
				queue = append(queue, n)
			}
		}
	}
	slices.Sort(out)
	return out, nil
}

// CriticalPath returns the chain of dependent nodes with the greatest total
// cost, ordered from the first dependency to the last dependent, together with
// that total. Ties are broken towards the lexicographically smaller identity.
// An empty graph yields a nil path and zero cost.
func (g *Graph) CriticalPath() ([]string, float64) {
	if len(g.ids) == 0 {
		return nil, 0
	}

	dist := make(map[string]float64, len(g.ids))
	prev := make(map[string]string, len(g.ids))
	for _, id := range g.TopologicalOrder() {
		n, _ := g.topology.GetNode(id)
		deps, _ := g.topology.DependenciesOf(id)

		best, bestDep := 0.0, ""
		for _, dep := range deps {
			if bestDep == "" || dist[dep] > best {
				best, bestDep = dist[dep], dep
			}
		}
		dist[id] = best + n.Cost()
		if bestDep != "" {
			prev[id] = bestDep
		}
	}

	end := g.ids[0]
	for _, id := range g.ids[1:] {
		if dist[id] > dist[end] {
			end = id
		}
	}

	var path []string
	for cur, ok := end, true; ok; cur, ok = prev[cur] {
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path, dist[end]
}
