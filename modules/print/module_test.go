package print

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/erdos/internal/handlers"
	"github.com/vk/erdos/internal/node"
)

func TestOnRunPrint(t *testing.T) {
	t.Parallel()

	// Arrange
	var buf bytes.Buffer
	m := &Module{Out: &buf}
	in := handlers.Input{
		NodeID: "report",
		Args: cty.ObjectVal(map[string]cty.Value{
			"message": cty.StringVal("hello"),
			"count":   cty.NumberIntVal(2),
		}),
		Deps: node.Inputs{"fetch": "ok"},
	}

	// Act
	out, err := m.OnRunPrint(context.Background(), in)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"message": "hello", "count": int64(2)}, out)
	assert.Equal(t,
		"[report]      count = 2\n"+
			"[report]      message = hello\n"+
			"[report]      <- fetch = ok\n",
		buf.String())
}

func TestOnRunPrint_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	_, err := (&Module{Out: &buf}).OnRunPrint(context.Background(), handlers.Input{NodeID: "a", Args: cty.EmptyObjectVal})
	require.NoError(t, err)
	assert.Equal(t, "[a]      (null)\n", buf.String())
}

func TestRegister(t *testing.T) {
	t.Parallel()

	h := handlers.New()
	(&Module{}).Register(h)
	_, ok := h.Get("print")
	assert.True(t, ok)
}
