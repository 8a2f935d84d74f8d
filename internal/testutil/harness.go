package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/vk/erdos/internal/app"
	"github.com/vk/erdos/internal/handlers"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
}

// RunIntegrationTest provides a standardized harness for running integration tests
// using a default background context.
func RunIntegrationTest(t *testing.T, cfg app.Config, files map[string]string, modules ...handlers.Module) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, cfg, files, modules...)
}

// RunIntegrationTestWithContext writes files into a temporary graph directory,
// points cfg at it and runs the whole app. Modules replace the core modules
// when given.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, cfg app.Config, files map[string]string, modules ...handlers.Module) *HarnessResult {
	t.Helper()

	cfg.GridPath = app.WriteGraphFiles(t, files)
	testApp, logBuffer := app.SetupAppTest(t, cfg, modules...)

	runErr := testApp.Run(ctx)

	if os.Getenv("ERDOS_TEST_LOGS") == "true" {
		t.Logf("--- Run error for %s ---\n%v", t.Name(), runErr)
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
	}
}
