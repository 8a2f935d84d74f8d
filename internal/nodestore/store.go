// Package nodestore defines the interface for storing and retrieving the
// mutable execution state of nodes during a single run.
//
// # Why Node Store Exists
//
// The node store isolates per-run execution state (status, results, errors)
// from the immutable DAG structure managed by topologystore. A graph can be
// executed many times, even concurrently; every run owns a fresh node store,
// so runs never share mutable state.
//
// # Lifecycle and Usage
//
// The node store is:
//  1. Created at the start of a run.
//  2. Initialized with every node in Pending status.
//  3. Mutated only by the executor's coordination loop as nodes move through
//     their states.
//  4. Retained by the run for inspection once execution has finished.
//
// # State Transitions
//
//	Pending → Ready → Running → Succeeded | Failed
//	Pending | Ready → Skipped
package nodestore

import (
	"errors"

	"github.com/vk/erdos/internal/node"
)

// ErrInvalidTransition is returned when a status change is not allowed from
// the node's current status.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrUnknownNode is returned for identities the store was not initialized with.
var ErrUnknownNode = errors.New("unknown node")

// Entry is a point-in-time view of one node's execution state.
type Entry struct {
	Status node.Status
	Output any
	Err    error
}

// Store is the interface for managing the mutable execution state of nodes.
//
// Writes are expected from a single coordination point; reads may happen
// concurrently from any goroutine (e.g. a caller inspecting a running run),
// so implementations MUST be safe for concurrent use.
//
// See internal/inmemorystore for the reference implementation.
type Store interface {
	// Init registers every id in Pending status, discarding prior state.
	Init(ids []string) error

	// SetStatus moves a node to a new status, validating the transition.
	SetStatus(id string, status node.Status) error

	// GetStatus retrieves the current status of a node.
	GetStatus(id string) (node.Status, bool)

	// SetOutput records the result of a succeeded node.
	SetOutput(id string, output any) error

	// GetOutput retrieves the recorded result. ok is false if none was recorded.
	GetOutput(id string) (any, bool)

	// SetError records the error of a failed or skipped node.
	SetError(id string, nodeErr error) error

	// GetError retrieves the recorded error, or nil.
	GetError(id string) error

	// Entry returns the combined state of one node.
	Entry(id string) (Entry, bool)

	// Snapshot returns a copy of every node's state keyed by identity.
	Snapshot() map[string]Entry
}

// CanTransition reports whether a node may move from one status to another.
func CanTransition(from, to node.Status) bool {
	switch from {
	case node.StatusPending:
		return to == node.StatusReady || to == node.StatusSkipped
	case node.StatusReady:
		return to == node.StatusRunning || to == node.StatusSkipped
	case node.StatusRunning:
		return to == node.StatusSucceeded || to == node.StatusFailed
	default:
		return false
	}
}
