// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the nodestore.Store interface.
//
// A single mutex guards all entries. The executor is the only writer during a
// run, so the lock is uncontended apart from callers inspecting a run while it
// is in progress.
package inmemorystore
