package integration_tests

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/erdos/internal/app"
	"github.com/vk/erdos/internal/testutil"
)

// TestErrorHandling_FailFast_StopsUnrelatedBranches validates that with the
// fail-fast policy no node starts after the first failure.
func TestErrorHandling_FailFast_StopsUnrelatedBranches(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	gridHCL := `
		node "failer" "A" {}
		node "spy" "B" {
			depends_on = ["A"]
		}
		node "spy" "Z" {}
	`
	spy := testutil.NewSpyModule(errors.New("stop"))
	cfg := app.Config{WorkerCount: 1, FailPolicy: "fail-fast"}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, cfg, map[string]string{"main.hcl": gridHCL}, spy)

	// --- Assert ---
	require.Error(t, result.Err)
	_, ranZ := spy.Called("Z")
	assert.False(t, ranZ, "fail-fast should have prevented Z from starting")
	assert.Regexp(t, `Z\s+spy\s+skipped\s+node 'Z' skipped: run aborted after node failure`, result.LogOutput)
	assert.Contains(t, result.LogOutput, "(aborted)")
}
