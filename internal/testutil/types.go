package testutil

import "time"

// ExecutionRecord holds the start and end times for a single node's execution.
type ExecutionRecord struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the two executions ran at the same time.
func (r *ExecutionRecord) Overlaps(other *ExecutionRecord) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// Before reports whether r finished before other started.
func (r *ExecutionRecord) Before(other *ExecutionRecord) bool {
	return !r.End.After(other.Start)
}
