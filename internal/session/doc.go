// Package session coordinates runs: it turns a set of nodes into a graph and
// plan, executes it in the background and exposes a handle for cancellation,
// inspection and waiting on the aggregated result.
//
// # Lifecycle
//
//  1. Start builds the graph. Structural errors are returned immediately and
//     no computation runs.
//  2. A fresh nodestore.Store is created for the run, so concurrent runs of
//     the same graph never share mutable state.
//  3. The executor runs on a background goroutine.
//  4. Wait returns a RunResult once every node is terminal.
package session
