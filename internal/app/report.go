package app

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/vk/erdos/internal/executor"
	"github.com/vk/erdos/internal/graph"
	"github.com/vk/erdos/internal/scheduler"
	"github.com/vk/erdos/internal/session"
)

func (a *App) writePlan(plan scheduler.Plan) {
	fmt.Fprintf(a.outW, "Plan: %d node(s) in %d frontier(s)\n", len(plan.Nodes()), plan.Len())
	for i, frontier := range plan {
		fmt.Fprintf(a.outW, "  %d: %s\n", i, strings.Join(frontier, ", "))
	}
}

func (a *App) printPlan(run *session.Run) {
	a.writePlan(run.Plan())
}

// printValidation prints the plan and the graph's critical path.
func (a *App) printValidation(g *graph.Graph) {
	a.writePlan(scheduler.Frontiers(g))
	path, cost := g.CriticalPath()
	fmt.Fprintf(a.outW, "Critical path (cost %g): %s\n", cost, strings.Join(path, " -> "))
	fmt.Fprintln(a.outW, "Graph is valid.")
}

// printReport prints one line per node sorted by identity, then a summary.
func (a *App) printReport(run *session.Run, res *session.RunResult) {
	tw := tabwriter.NewWriter(a.outW, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tKIND\tSTATUS\tDETAIL")
	g := run.Graph()
	for _, id := range g.IDs() {
		kind := ""
		if n, ok := g.Node(id); ok {
			kind = n.Kind()
		}
		entry, _ := run.Entry(id)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", id, kind, entry.Status, detail(entry.Err))
	}
	_ = tw.Flush()

	summary := fmt.Sprintf("Run %s: %d succeeded, %d failed, %d skipped in %s",
		res.RunID, len(res.Succeeded), len(res.Failed), len(res.Skipped), res.Duration.Round(time.Millisecond))
	switch {
	case res.Aborted:
		summary += " (aborted)"
	case res.Cancelled:
		summary += " (cancelled)"
	}
	fmt.Fprintln(a.outW, summary)
}

// detail renders a node error without the wrapper prefixes the report
// columns already convey.
func detail(err error) string {
	if err == nil {
		return ""
	}
	var nodeErr *executor.NodeError
	if errors.As(err, &nodeErr) && !nodeErr.TimedOut {
		return nodeErr.Err.Error()
	}
	return err.Error()
}
