package inmemorystore

import (
	"fmt"
	"maps"
	"sync"

	"github.com/vk/erdos/internal/node"
	"github.com/vk/erdos/internal/nodestore"
)

// Store is an in-memory implementation of nodestore.Store.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*nodestore.Entry
}

// New creates a new, empty in-memory node state store.
func New() nodestore.Store {
	return &Store{entries: make(map[string]*nodestore.Entry)}
}

// Init resets the store and marks every id as pending.
func (s *Store) Init(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*nodestore.Entry, len(ids))
	for _, id := range ids {
		if _, dup := s.entries[id]; dup {
			return fmt.Errorf("node '%s' initialized twice", id)
		}
		s.entries[id] = &nodestore.Entry{Status: node.StatusPending}
	}
	return nil
}

// SetStatus updates the execution status of a specific node.
func (s *Store) SetStatus(id string, status node.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(id)
	if err != nil {
		return err
	}
	if !nodestore.CanTransition(e.Status, status) {
		return fmt.Errorf("%w for '%s': %s -> %s", nodestore.ErrInvalidTransition, id, e.Status, status)
	}
	e.Status = status
	return nil
}

// GetStatus retrieves the execution status of a specific node.
func (s *Store) GetStatus(id string) (node.Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return node.StatusPending, false
	}
	return e.Status, true
}

// SetOutput records the successful output of a node.
func (s *Store) SetOutput(id string, output any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(id)
	if err != nil {
		return err
	}
	e.Output = output
	return nil
}

// GetOutput retrieves the recorded output of a completed node.
func (s *Store) GetOutput(id string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok || e.Status != node.StatusSucceeded {
		return nil, false
	}
	return e.Output, true
}

// SetError records the failure error of a node.
func (s *Store) SetError(id string, nodeErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(id)
	if err != nil {
		return err
	}
	e.Err = nodeErr
	return nil
}

// GetError retrieves the recorded error of a node.
func (s *Store) GetError(id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.entries[id]; ok {
		return e.Err
	}
	return nil
}

// Entry returns a copy of one node's state.
func (s *Store) Entry(id string) (nodestore.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return nodestore.Entry{}, false
	}
	return *e, true
}

// Snapshot returns a copy of all entries.
func (s *Store) Snapshot() map[string]nodestore.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]nodestore.Entry, len(s.entries))
	for id, e := range maps.All(s.entries) {
		out[id] = *e
	}
	return out
}

// lookup must be called with s.mu held.
func (s *Store) lookup(id string) (*nodestore.Entry, error) {
	e, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", nodestore.ErrUnknownNode, id)
	}
	return e, nil
}
