package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/erdos/internal/app"
	"github.com/vk/erdos/internal/testutil"
)

// TestHclFeatures_UnifiedLoading validates that nodes defined across HCL and
// YAML files in nested directories form a single graph.
func TestHclFeatures_UnifiedLoading(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"main.hcl": `
			node "spy" "root" {
				arguments {
					value = "from-hcl"
				}
			}
		`,
		"stages/build.yml": `
nodes:
  - name: build
    kind: spy
    depends_on: [root]
    arguments:
      value: from-yaml
`,
		"stages/deploy/deploy.hcl": `
			node "spy" "deploy" {
				depends_on = ["build"]
			}
		`,
	}
	spy := testutil.NewSpyModule(nil)

	// --- Act ---
	result := testutil.RunIntegrationTest(t, app.Config{}, files, spy)

	// --- Assert ---
	require.NoError(t, result.Err)
	build, ok := spy.Called("build")
	require.True(t, ok)
	assert.Equal(t, "from-hcl", build.Deps["root"])

	deploy, ok := spy.Called("deploy")
	require.True(t, ok)
	assert.Equal(t, "from-yaml", deploy.Deps["build"])
}

// TestHclFeatures_DuplicateAcrossFiles validates that a node name defined in
// two files is rejected with both locations.
func TestHclFeatures_DuplicateAcrossFiles(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"a.hcl":  `node "spy" "same" {}`,
		"b.yaml": "nodes:\n  - {name: same, kind: spy}\n",
	}

	result := testutil.RunIntegrationTest(t, app.Config{}, files, testutil.NewSpyModule(nil))

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "already defined at")
	assert.Contains(t, result.Err.Error(), "a.hcl:1")
}
