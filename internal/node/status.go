package node

// Status represents the execution state of a node within a single run.
type Status int32

const (
	// StatusPending indicates the node is waiting for its dependencies.
	StatusPending Status = iota
	// StatusReady indicates all dependencies are terminal and the node is queued.
	StatusReady
	// StatusRunning indicates the node's computation is executing.
	StatusRunning
	// StatusSucceeded indicates the computation returned without error.
	StatusSucceeded
	// StatusFailed indicates the computation returned an error or timed out.
	StatusFailed
	// StatusSkipped indicates the node never ran, either because an upstream
	// node did not succeed or because the run was cancelled.
	StatusSkipped
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transitions can occur from s.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusSkipped:
		return true
	default:
		return false
	}
}
