package yaml

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	// Arrange
	path := writeFile(t, "grid.yaml", `nodes:
  - name: setup
    kind: print
  - name: fetch
    kind: sleep
    depends_on: [setup]
    timeout: 2s
    cost: 1.5
    arguments:
      duration: 100ms
      retries: 3
      nested:
        enabled: true
`)

	// Act
	model, err := NewLoader().Load(context.Background(), path)

	// Assert
	require.NoError(t, err)
	require.Len(t, model.Nodes, 2)

	setup := model.Nodes[0]
	assert.Equal(t, "setup", setup.Name)
	assert.Equal(t, "print", setup.Kind)
	assert.True(t, setup.Arguments.RawEquals(cty.EmptyObjectVal))
	assert.Equal(t, path+":2", setup.Source)

	fetch := model.Nodes[1]
	assert.Equal(t, []string{"setup"}, fetch.DependsOn)
	assert.Equal(t, 2*time.Second, fetch.Timeout)
	assert.Equal(t, 1.5, fetch.Cost)
	assert.Equal(t, path+":4", fetch.Source)
	assert.Equal(t, cty.StringVal("100ms"), fetch.Arguments.GetAttr("duration"))
	assert.True(t, fetch.Arguments.GetAttr("retries").RawEquals(cty.NumberIntVal(3)))
	assert.True(t, fetch.Arguments.GetAttr("nested").GetAttr("enabled").True())
}

func TestLoad_EmptyFile(t *testing.T) {
	t.Parallel()

	model, err := NewLoader().Load(context.Background(), writeFile(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Empty(t, model.Nodes)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown top-level key", "steps: []\n", "failed to decode YAML file"},
		{"unknown node key", "nodes:\n  - name: a\n    kind: print\n    runner: x\n", "failed to decode YAML file"},
		{"bad timeout", "nodes:\n  - name: a\n    kind: print\n    timeout: later\n", `node 'a': invalid timeout "later"`},
		{"malformed", "nodes: [\n", "failed to decode YAML file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewLoader().Load(context.Background(), writeFile(t, "grid.yaml", tt.content))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
