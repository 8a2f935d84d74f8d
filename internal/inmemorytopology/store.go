package inmemorytopology

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/vk/erdos/internal/node"
	"github.com/vk/erdos/internal/topologystore"
)

// Store implements the topologystore.Store interface using maps and a mutex
// for thread-safe concurrent access. Adjacency lists are kept sorted on
// insert so lookups only need to copy them.
type Store struct {
	mu         sync.RWMutex
	nodes      map[string]*node.Node
	deps       map[string][]string // Key: node ID, Value: sorted dependency IDs
	dependents map[string][]string // Key: node ID, Value: sorted dependent IDs
}

// New creates a new, empty in-memory topology store.
func New() topologystore.Store {
	return &Store{
		nodes:      make(map[string]*node.Node),
		deps:       make(map[string][]string),
		dependents: make(map[string][]string),
	}
}

// AddNode adds a new node to the store.
func (s *Store) AddNode(n *node.Node) error {
	if n == nil {
		return fmt.Errorf("cannot add nil node to topology")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := n.ID()
	if existing, exists := s.nodes[key]; exists {
		if existing == n {
			return nil
		}
		return fmt.Errorf("node '%s' already exists in topology", key)
	}
	s.nodes[key] = n
	return nil
}

// AddDependency creates a dependency link from one node to another.
func (s *Store) AddDependency(from, to string) error {
	if from == to {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", from, to)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[from]; !exists {
		return fmt.Errorf("dependency source node '%s' not found in topology", from)
	}
	if _, exists := s.nodes[to]; !exists {
		return fmt.Errorf("dependency target node '%s' not found in topology", to)
	}

	s.deps[to] = insertSorted(s.deps[to], from)
	s.dependents[from] = insertSorted(s.dependents[from], to)
	return nil
}

// GetNode retrieves a single node by its identity.
func (s *Store) GetNode(id string) (*node.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	return n, ok
}

// AllNodes returns a slice of all nodes in the topology, sorted by identity.
func (s *Store) AllNodes() []*node.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]*node.Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b *node.Node) int {
		return strings.Compare(a.ID(), b.ID())
	})
	return nodes
}

// DependenciesOf returns the identities of all nodes that the given node depends on.
func (s *Store) DependenciesOf(id string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.nodes[id]; !exists {
		return nil, fmt.Errorf("node '%s' not found in topology", id)
	}
	return slices.Clone(s.deps[id]), nil
}

// DependentsOf returns the identities of all nodes that depend on the given node.
func (s *Store) DependentsOf(id string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.nodes[id]; !exists {
		return nil, fmt.Errorf("node '%s' not found in topology", id)
	}
	return slices.Clone(s.dependents[id]), nil
}

// Len returns the number of nodes in the topology.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.nodes)
}

// insertSorted adds v to the sorted slice list unless it is already present.
func insertSorted(list []string, v string) []string {
	i, found := slices.BinarySearch(list, v)
	if found {
		return list
	}
	return slices.Insert(list, i, v)
}
