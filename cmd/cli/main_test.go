package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/erdos/internal/cli"
	"github.com/vk/erdos/internal/session"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600), "failed to set up test file")
	return path
}

func TestRun_LoadError(t *testing.T) {
	t.Parallel()

	// Arrange
	path := writeFile(t, "main.hcl", `
		node "print" "A" {
			arguments {
		// Missing closing brace here
	`)
	out := &bytes.Buffer{}

	// Act
	err := run(context.Background(), out, []string{path})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
	assert.Contains(t, err.Error(), "failed to parse HCL file")
}

func TestRun_Success(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "main.yaml", `
nodes:
  - name: hello
    kind: print
    arguments:
      message: world
`)
	out := &bytes.Buffer{}

	err := run(context.Background(), out, []string{"--log-level", "warn", path})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "[hello]      message = world")
	assert.Contains(t, out.String(), "1 succeeded, 0 failed, 0 skipped")
}

func TestRun_PartialFailure(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "main.hcl", `node "fail" "broken" {}`)

	err := run(context.Background(), &bytes.Buffer{}, []string{"--log-level", "error", path})

	var partial *session.PartialFailureError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, []string{"broken"}, partial.Failed)
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, []string{"-h"})

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}
