package socketio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/erdos/internal/handlers"
)

func input(attrs map[string]cty.Value) handlers.Input {
	return handlers.Input{NodeID: "ws", Args: cty.ObjectVal(attrs)}
}

func TestOnRunSocketIO_ArgumentErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		attrs map[string]cty.Value
		want  string
	}{
		{
			name:  "missing url",
			attrs: map[string]cty.Value{"on_event": cty.StringVal("pong")},
			want:  "argument 'url' is required",
		},
		{
			name:  "missing on_event",
			attrs: map[string]cty.Value{"url": cty.StringVal("http://127.0.0.1:1")},
			want:  "argument 'on_event' is required",
		},
		{
			name: "relative url",
			attrs: map[string]cty.Value{
				"url":      cty.StringVal("/socket.io/"),
				"on_event": cty.StringVal("pong"),
			},
			want: "is not absolute",
		},
		{
			name: "unknown argument",
			attrs: map[string]cty.Value{
				"url":   cty.StringVal("http://127.0.0.1:1"),
				"event": cty.StringVal("pong"),
			},
			want: "unsupported argument 'event'",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := OnRunSocketIO(context.Background(), input(tc.attrs))
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestOnRunSocketIO_UnreachableServer(t *testing.T) {
	t.Parallel()

	_, err := OnRunSocketIO(context.Background(), input(map[string]cty.Value{
		"url":       cty.StringVal("http://127.0.0.1:1/socket.io/"),
		"on_event":  cty.StringVal("pong"),
		"emit_data": cty.ObjectVal(map[string]cty.Value{"n": cty.NumberIntVal(1)}),
		"timeout":   cty.StringVal("200ms"),
	}))

	require.Error(t, err)
	assert.Regexp(t, "connection failed|timed out while waiting for initial connection", err.Error())
}
