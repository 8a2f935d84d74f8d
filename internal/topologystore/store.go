// Package topologystore defines the interface for storing and retrieving the
// static structure of a dependency graph (DAG).
//
// # Why Topology Store Exists
//
// The topology store isolates the immutable DAG structure (nodes and their
// dependency relationships) from the mutable execution state of a run, which
// lives in a nodestore.Store. A single topology is shared by every run of a
// graph; each run gets its own node store.
//
// # Lifecycle and Usage
//
// The topology store is:
//  1. Created once per graph build.
//  2. Populated by the graph builder (nodes first, then dependency edges).
//  3. Read-only afterwards. The scheduler and executor query it concurrently
//     for "dependencies of" and "dependents of" lookups.
package topologystore

import "github.com/vk/erdos/internal/node"

// Store is the interface for managing the static topology of a DAG.
//
// Implementations MUST be safe for concurrent reads once population has
// finished, because several runs may execute against one graph at the same
// time.
//
// See internal/inmemorytopology for the reference implementation.
type Store interface {
	// AddNode registers a node in the topology. Adding the same node pointer
	// twice is a no-op; adding a different node under an existing identity
	// is an error.
	AddNode(n *node.Node) error

	// AddDependency records that the node 'to' depends on the node 'from',
	// i.e. an edge directed from dependency to dependent. Both nodes must
	// already exist.
	AddDependency(from, to string) error

	// GetNode retrieves a single node by identity.
	GetNode(id string) (*node.Node, bool)

	// AllNodes returns every node sorted by identity.
	AllNodes() []*node.Node

	// DependenciesOf returns the sorted identities 'id' depends on.
	// An unknown id is an error.
	DependenciesOf(id string) ([]string, error)

	// DependentsOf returns the sorted identities that depend on 'id'.
	// An unknown id is an error.
	DependentsOf(id string) ([]string, error)

	// Len returns the number of nodes.
	Len() int
}
