// Package graph validates a set of registered nodes and turns it into an
// immutable execution graph.
//
// # Why Graph Package Exists
//
// Nodes are registered independently and only name their dependencies by
// identity. Before anything may run, the engine needs to know that every
// named dependency exists and that the dependency relation has no cycles.
// Build performs both checks and, on success, returns a Graph whose adjacency
// is held in a topologystore.Store for constant-time lookups in both
// directions:
//
//	┌──────────────────────────────┐
//	│            Graph             │
//	│ (validated, read-only view)  │
//	└──────────────┬───────────────┘
//	               │
//	               ▼
//	      ┌─────────────────┐
//	      │ Topology Store  │
//	      │ deps-of /       │
//	      │ dependents-of   │
//	      └─────────────────┘
//
// # Structural Errors
//
// Build fails with a *GraphError whose Kind is one of ErrDuplicateIdentity,
// ErrUnknownDependency or ErrCycleDetected. Cycle errors carry a witness
// path whose first and last elements are the same node and in which every
// element depends on the next one.
//
// # Analysis
//
// Beyond validation the package offers read-only analysis over a built
// graph: a topological order, transitive ancestors and descendants, and the
// cost-weighted critical path. For sets of nodes that failed validation,
// StronglyConnectedComponents and FindCycles report every cyclic component,
// not just the first witness.
//
// # Thread-Safety
//
// A Graph is never mutated after Build returns, so it may be shared freely
// between concurrent runs.
package graph
