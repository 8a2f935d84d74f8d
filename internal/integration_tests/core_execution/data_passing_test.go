package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/erdos/internal/app"
	"github.com/vk/erdos/internal/node"
	"github.com/vk/erdos/internal/testutil"
)

// TestCoreExecution_DataPassing validates that every node receives exactly
// the results of its direct dependencies, keyed by their identities.
func TestCoreExecution_DataPassing(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	gridHCL := `
		node "spy" "source" {
			arguments {
				value = {
					name  = "erdos"
					ports = [80, 443]
				}
			}
		}
		node "spy" "scalar" {
			arguments {
				value = 42
			}
		}
		node "spy" "sink" {
			depends_on = ["source", "scalar"]
		}
		node "spy" "leaf" {
			depends_on = ["sink"]
		}
	`
	spy := testutil.NewSpyModule(nil)

	// --- Act ---
	result := testutil.RunIntegrationTest(t, app.Config{}, map[string]string{"main.hcl": gridHCL}, spy)

	// --- Assert ---
	require.NoError(t, result.Err)

	sink, ok := spy.Called("sink")
	require.True(t, ok)
	assert.Equal(t, node.Inputs{
		"source": map[string]any{"name": "erdos", "ports": []any{int64(80), int64(443)}},
		"scalar": int64(42),
	}, sink.Deps)

	leaf, ok := spy.Called("leaf")
	require.True(t, ok)
	assert.Equal(t, node.Inputs{"sink": nil}, leaf.Deps, "only direct dependencies are passed")

	source, ok := spy.Called("source")
	require.True(t, ok)
	assert.Empty(t, source.Deps)
}
