package sleep

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/erdos/internal/handlers"
)

func args(d string) handlers.Input {
	return handlers.Input{NodeID: "s", Args: cty.ObjectVal(map[string]cty.Value{"duration": cty.StringVal(d)})}
}

func TestOnRunSleep(t *testing.T) {
	t.Parallel()

	out, err := OnRunSleep(context.Background(), args("5ms"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"slept": "5ms"}, out)
}

func TestOnRunSleep_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := OnRunSleep(ctx, args("1h"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOnRunSleep_InvalidDuration(t *testing.T) {
	t.Parallel()

	_, err := OnRunSleep(context.Background(), args("forever"))
	assert.ErrorContains(t, err, `invalid duration "forever"`)
}
