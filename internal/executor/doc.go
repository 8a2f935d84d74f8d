// Package executor runs the nodes of a graph with bounded parallelism.
//
// # Execution Model
//
// A single coordination loop, running on the goroutine that called Execute,
// owns every write to the run's nodestore.Store. Computations run on worker
// goroutines and report their outcome back over a channel:
//
//	           ┌──────────────────────────┐
//	           │    coordination loop     │
//	           │ (ready heap, tracker,    │
//	           │  state writes, skips)    │
//	           └─────┬──────────────▲─────┘
//	      launch     │              │ completion
//	                 ▼              │
//	           ┌──────────────────────────┐
//	           │  worker goroutines       │
//	           │  (at most `limit`)       │
//	           └──────────────────────────┘
//
// A node is launched as soon as all of its dependencies are terminal and a
// concurrency slot is free. Ready nodes are started in plan order: lower
// frontier first, then identity.
//
// # Failures and Skips
//
// A failed computation marks its node Failed and every transitive dependent
// Skipped with a *SkipError naming the failed node. Under the default
// ContinueElsewhere policy unrelated nodes keep running; under FailFast the
// first failure stops all further launches.
//
// # Cancellation
//
// Cancellation is sampled before each launch. Once observed, no new node is
// started, computations already running are allowed to finish, and every
// node that never started ends Skipped with an error wrapping ErrCancelled.
//
// # Timeouts
//
// A node's own timeout, or the executor default, bounds each computation.
// When it expires the node fails with an error matching ErrNodeTimeout and
// the computation is abandoned.
package executor
