package inmemorytopology

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/erdos/internal/node"
)

func newNode(id string) *node.Node {
	return node.New(id, func(context.Context, node.Inputs) (any, error) { return nil, nil }, nil)
}

func TestAddAndGetNode(t *testing.T) {
	s := New()
	n := newNode("a")

	require.NoError(t, s.AddNode(n))
	require.NoError(t, s.AddNode(n), "re-adding the same node must be idempotent")

	got, ok := s.GetNode("a")
	require.True(t, ok)
	assert.Same(t, n, got)
	assert.Equal(t, 1, s.Len())

	err := s.AddNode(newNode("a"))
	assert.ErrorContains(t, err, "already exists")

	assert.Error(t, s.AddNode(nil))
}

func TestDependencies(t *testing.T) {
	s := New()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.AddNode(newNode(id)))
	}

	// c depends on b and a; b depends on a.
	require.NoError(t, s.AddDependency("b", "c"))
	require.NoError(t, s.AddDependency("a", "c"))
	require.NoError(t, s.AddDependency("a", "b"))
	require.NoError(t, s.AddDependency("a", "b"), "duplicate edges collapse")

	deps, err := s.DependenciesOf("c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, deps)

	dependents, err := s.DependentsOf("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, dependents)

	deps, err = s.DependenciesOf("a")
	require.NoError(t, err)
	assert.Empty(t, deps)

	// Returned slices are copies.
	dependents[0] = "zzz"
	again, _ := s.DependentsOf("a")
	assert.Equal(t, []string{"b", "c"}, again)
}

func TestAddDependency_Errors(t *testing.T) {
	s := New()
	require.NoError(t, s.AddNode(newNode("a")))

	assert.ErrorContains(t, s.AddDependency("dne", "a"), "source node 'dne' not found")
	assert.ErrorContains(t, s.AddDependency("a", "dne"), "target node 'dne' not found")
	assert.ErrorContains(t, s.AddDependency("a", "a"), "self-referential edge")

	_, err := s.DependenciesOf("dne")
	assert.Error(t, err)
	_, err = s.DependentsOf("dne")
	assert.Error(t, err)
}

func TestAllNodes_Sorted(t *testing.T) {
	s := New()
	for _, id := range []string{"z", "m", "a"} {
		require.NoError(t, s.AddNode(newNode(id)))
	}

	var ids []string
	for _, n := range s.AllNodes() {
		ids = append(ids, n.ID())
	}
	assert.Equal(t, []string{"a", "m", "z"}, ids)
}
