package integration_tests

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/erdos/internal/app"
	"github.com/vk/erdos/internal/executor"
	"github.com/vk/erdos/internal/testutil"
)

// TestErrorHandling_NodeTimeout_FailsRun validates that a node exceeding its
// own timeout fails with ErrNodeTimeout and its dependents are skipped.
func TestErrorHandling_NodeTimeout_FailsRun(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	gridHCL := `
		node "sleeper" "slow" {
			timeout = "20ms"
		}
		node "spy" "after" {
			depends_on = ["slow"]
		}
	`
	sleeper := testutil.NewMockSleeperModule(nil, time.Second)
	spy := testutil.NewSpyModule(nil)

	// --- Act ---
	start := time.Now()
	result := testutil.RunIntegrationTest(t, app.Config{}, map[string]string{"main.hcl": gridHCL}, sleeper, spy)

	// --- Assert ---
	require.Error(t, result.Err)
	assert.ErrorIs(t, result.Err, executor.ErrNodeTimeout)
	assert.Less(t, time.Since(start), 900*time.Millisecond, "the run should not wait for the abandoned computation")
	_, ranAfter := spy.Called("after")
	assert.False(t, ranAfter)
	assert.Contains(t, result.LogOutput, "node 'slow' timed out after 20ms")
}
