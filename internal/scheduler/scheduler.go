package scheduler

import (
	"slices"

	"github.com/vk/erdos/internal/graph"
)

// Plan is an ordered list of frontiers. Every node of the graph appears in
// exactly one frontier, at an index strictly greater than that of each of its
// dependencies.
type Plan [][]string

// Frontiers computes the execution plan for a graph. An empty graph yields an
// empty plan.
func Frontiers(g *graph.Graph) Plan {
	t := NewTracker(g)
	plan := Plan{}
	for cur := t.Initial(); len(cur) > 0; {
		plan = append(plan, cur)
		var next []string
		for _, id := range cur {
			next = append(next, t.Complete(id)...)
		}
		slices.Sort(next)
		cur = next
	}
	return plan
}

// Index maps each node to the index of its frontier.
func (p Plan) Index() map[string]int {
	idx := make(map[string]int)
	for i, frontier := range p {
		for _, id := range frontier {
			idx[id] = i
		}
	}
	return idx
}

// Len returns the number of frontiers.
func (p Plan) Len() int {
	return len(p)
}

// Nodes returns every node in plan order.
func (p Plan) Nodes() []string {
	var out []string
	for _, frontier := range p {
		out = append(out, frontier...)
	}
	return out
}
