package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/erdos/internal/node"
)

func noop(context.Context, node.Inputs) (any, error) { return nil, nil }

func TestRegister(t *testing.T) {
	t.Parallel()

	r := New()
	require.NoError(t, r.Add("a", noop))
	require.NoError(t, r.Add("b", noop, "a"))

	assert.Equal(t, 2, r.Len())
	b, ok := r.Get("b")
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, b.Deps())

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegister_Duplicate(t *testing.T) {
	t.Parallel()

	r := New()
	original := node.New("a", noop, nil)
	require.NoError(t, r.Register(original))

	err := r.Add("a", noop, "x")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateIdentity)
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "a", dup.ID)
	assert.EqualError(t, err, "node 'a' is already registered")

	// The failed call must not replace the original definition.
	got, _ := r.Get("a")
	assert.Same(t, original, got)
	assert.Equal(t, 1, r.Len())
}

func TestRegister_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		node *node.Node
		want string
	}{
		{"nil node", nil, "node is nil"},
		{"empty identity", node.New("", noop, nil), "identity must not be empty"},
		{"missing computation", node.New("a", nil, nil), "has no computation"},
		{"empty dependency", node.New("a", noop, []string{""}), "empty dependency identity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().Register(tt.node)
			assert.ErrorIs(t, err, ErrInvalidNode)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestRegisterAll(t *testing.T) {
	t.Parallel()

	r := New()
	err := r.RegisterAll(context.Background(),
		node.New("a", noop, nil),
		node.New("b", noop, nil),
		node.New("a", noop, nil),
		node.New("", noop, nil),
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateIdentity)
	assert.ErrorIs(t, err, ErrInvalidNode)
	assert.Equal(t, 2, r.Len())
}

func TestSnapshot_SortedByIdentity(t *testing.T) {
	t.Parallel()

	r := New()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, r.Add(id, noop))
	}

	snap := r.Snapshot()
	ids := make([]string, 0, len(snap))
	for _, n := range snap {
		ids = append(ids, n.ID())
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestRegister_Concurrent(t *testing.T) {
	t.Parallel()

	r := New()
	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Every id is registered twice, so exactly half the calls must fail.
			errs <- r.Add(fmt.Sprintf("n%d", i%50), noop)
		}(i)
	}
	wg.Wait()
	close(errs)

	failures := 0
	for err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrDuplicateIdentity)
			failures++
		}
	}
	assert.Equal(t, 50, failures)
	assert.Equal(t, 50, r.Len())
}
