package executor

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNodeComputationFailed matches every error recorded for a Failed node.
	ErrNodeComputationFailed = errors.New("node computation failed")
	// ErrNodeTimeout matches failures caused by a node exceeding its timeout.
	ErrNodeTimeout = errors.New("node timed out")
	// ErrCancelled matches skips caused by an external cancellation request.
	ErrCancelled = errors.New("execution cancelled")
	// ErrUpstreamFailed matches skips caused by a failed dependency.
	ErrUpstreamFailed = errors.New("upstream failure")
	// ErrAborted matches skips caused by the FailFast policy. It does not
	// match ErrCancelled.
	ErrAborted = errors.New("run aborted after node failure")
	// ErrInvalidConcurrency is returned for a concurrency limit below one.
	ErrInvalidConcurrency = errors.New("concurrency limit must be at least 1")
)

// NodeError is recorded for a node whose computation failed.
type NodeError struct {
	NodeID string
	// Err is the error returned by the computation, or the recovered panic.
	Err error
	// TimedOut is set when the node exceeded Timeout.
	TimedOut bool
	Timeout  time.Duration
}

// Error implements the error interface.
func (e *NodeError) Error() string {
	if e.TimedOut {
		return fmt.Sprintf("node '%s' timed out after %s", e.NodeID, e.Timeout)
	}
	return fmt.Sprintf("node '%s' failed: %v", e.NodeID, e.Err)
}

// Unwrap exposes ErrNodeComputationFailed, ErrNodeTimeout when applicable,
// and the underlying computation error.
func (e *NodeError) Unwrap() []error {
	errs := []error{ErrNodeComputationFailed}
	if e.TimedOut {
		errs = append(errs, ErrNodeTimeout)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// SkipError is recorded for a node that never ran.
type SkipError struct {
	NodeID string
	// Cause is ErrUpstreamFailed, ErrAborted or an error wrapping ErrCancelled.
	Cause error
	// Upstream is the failed node that caused the skip, if any.
	Upstream string
}

// Error implements the error interface.
func (e *SkipError) Error() string {
	if errors.Is(e.Cause, ErrUpstreamFailed) {
		return fmt.Sprintf("node '%s' skipped due to upstream failure of '%s'", e.NodeID, e.Upstream)
	}
	return fmt.Sprintf("node '%s' skipped: %v", e.NodeID, e.Cause)
}

// Unwrap returns Cause.
func (e *SkipError) Unwrap() error {
	return e.Cause
}

// panicError wraps a value recovered from a panicking computation.
type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}
