package session

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/vk/erdos/internal/executor"
	"github.com/vk/erdos/internal/node"
)

// RunResult aggregates the terminal state of every node in a run.
type RunResult struct {
	RunID     string
	Succeeded map[string]any
	Failed    map[string]error
	Skipped   map[string]error
	Duration  time.Duration
	// Cancelled is set when cancellation stopped the run early.
	Cancelled bool
	// Aborted is set when the FailFast policy stopped the run early.
	Aborted     bool
	MaxInFlight int
}

func newRunResult(id string, res *executor.Result, d time.Duration) *RunResult {
	rr := &RunResult{
		RunID:       id,
		Succeeded:   make(map[string]any),
		Failed:      make(map[string]error),
		Skipped:     make(map[string]error),
		Duration:    d,
		Cancelled:   res.Cancelled,
		Aborted:     res.Aborted,
		MaxInFlight: res.MaxInFlight,
	}
	for id, e := range res.Entries {
		switch e.Status {
		case node.StatusSucceeded:
			rr.Succeeded[id] = e.Output
		case node.StatusFailed:
			rr.Failed[id] = e.Err
		case node.StatusSkipped:
			rr.Skipped[id] = e.Err
		}
	}
	return rr
}

// OK reports whether no node failed.
func (r *RunResult) OK() bool {
	return len(r.Failed) == 0
}

// SucceededIDs returns the sorted identities of succeeded nodes.
func (r *RunResult) SucceededIDs() []string {
	return slices.Sorted(maps.Keys(r.Succeeded))
}

// FailedIDs returns the sorted identities of failed nodes.
func (r *RunResult) FailedIDs() []string {
	return slices.Sorted(maps.Keys(r.Failed))
}

// SkippedIDs returns the sorted identities of skipped nodes.
func (r *RunResult) SkippedIDs() []string {
	return slices.Sorted(maps.Keys(r.Skipped))
}

// Err returns a *PartialFailureError when any node failed, an error wrapping
// executor.ErrCancelled when the run was cancelled, and nil otherwise.
func (r *RunResult) Err() error {
	if !r.OK() {
		ids := r.FailedIDs()
		errs := make([]error, 0, len(ids))
		for _, id := range ids {
			errs = append(errs, r.Failed[id])
		}
		return &PartialFailureError{RunID: r.RunID, Failed: ids, Errs: errs}
	}
	if r.Cancelled {
		return fmt.Errorf("run %s: %w", r.RunID, executor.ErrCancelled)
	}
	return nil
}

func (r *RunResult) outcome() string {
	switch {
	case !r.OK():
		return "partial_failure"
	case r.Cancelled:
		return "cancelled"
	default:
		return "ok"
	}
}

// PartialFailureError reports a run that executed but in which some nodes
// failed.
type PartialFailureError struct {
	RunID  string
	Failed []string
	Errs   []error
}

// Error implements the error interface.
func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("run %s: %d node(s) failed: %s", e.RunID, len(e.Failed), strings.Join(e.Failed, ", "))
}

// Unwrap exposes the individual node errors.
func (e *PartialFailureError) Unwrap() []error {
	return e.Errs
}
