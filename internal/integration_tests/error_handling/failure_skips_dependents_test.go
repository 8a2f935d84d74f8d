package integration_tests

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/erdos/internal/app"
	"github.com/vk/erdos/internal/session"
	"github.com/vk/erdos/internal/testutil"
)

// TestErrorHandling_FailingNode_SkipsDependents validates that a failed node
// prevents every transitive dependent from running, while unrelated
// branches still complete.
func TestErrorHandling_FailingNode_SkipsDependents(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	expectedErr := errors.New("handler failed as expected")
	gridHCL := `
		node "failer" "A" {}
		node "spy" "B" {
			depends_on = ["A"]
		}
		node "spy" "C" {
			depends_on = ["B"]
		}
		node "spy" "D" {}
	`
	spy := testutil.NewSpyModule(expectedErr)

	// --- Act ---
	result := testutil.RunIntegrationTest(t, app.Config{}, map[string]string{"main.hcl": gridHCL}, spy)

	// --- Assert ---
	require.Error(t, result.Err)
	assert.ErrorIs(t, result.Err, expectedErr, "error chain should contain the injected error")

	var partial *session.PartialFailureError
	require.ErrorAs(t, result.Err, &partial)
	assert.Equal(t, []string{"A"}, partial.Failed)

	_, ranB := spy.Called("B")
	_, ranC := spy.Called("C")
	_, ranD := spy.Called("D")
	assert.False(t, ranB, "a node dependent on the failing node was executed")
	assert.False(t, ranC, "a transitive dependent of the failing node was executed")
	assert.True(t, ranD, "an independent node should still run")

	assert.Regexp(t, `C\s+spy\s+skipped\s+node 'C' skipped due to upstream failure of 'A'`, result.LogOutput)
}
