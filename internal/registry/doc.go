// Package registry holds the node definitions of a graph before it is built.
//
// Nodes are registered once under a unique identity and are read-only from
// then on. A registry is safe for concurrent registration; the graph builder
// consumes a sorted snapshot of it, so later registrations never affect a
// graph that has already been built.
package registry
