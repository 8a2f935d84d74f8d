package scheduler

import (
	"slices"

	"github.com/vk/erdos/internal/graph"
)

// Tracker counts unsatisfied dependencies and reports which nodes become
// ready as others complete. It is not safe for concurrent use; a single
// owner drives it.
type Tracker struct {
	g         *graph.Graph
	remaining map[string]int
	completed map[string]bool
}

// NewTracker creates a tracker for the given graph.
func NewTracker(g *graph.Graph) *Tracker {
	t := &Tracker{
		g:         g,
		remaining: make(map[string]int, g.Len()),
		completed: make(map[string]bool, g.Len()),
	}
	for _, id := range g.IDs() {
		deps, _ := g.DependenciesOf(id)
		t.remaining[id] = len(deps)
	}
	return t
}

// Initial returns the sorted identities of nodes with no dependencies.
func (t *Tracker) Initial() []string {
	return t.g.Roots()
}

// Complete marks id as finished, whatever its outcome, and returns the sorted
// identities of dependents whose dependencies are now all finished. Completing
// the same node twice, or an unknown node, returns nil.
func (t *Tracker) Complete(id string) []string {
	if t.completed[id] {
		return nil
	}
	if _, ok := t.remaining[id]; !ok {
		return nil
	}
	t.completed[id] = true

	dependents, _ := t.g.DependentsOf(id)
	var ready []string
	for _, d := range dependents {
		t.remaining[d]--
		if t.remaining[d] == 0 {
			ready = append(ready, d)
		}
	}
	slices.Sort(ready)
	return ready
}

// Remaining reports how many dependencies of id are not yet complete.
func (t *Tracker) Remaining(id string) int {
	return t.remaining[id]
}
