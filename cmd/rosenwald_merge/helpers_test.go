package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/nmrenyi/rosenwald-benchmark/internal/config"
)

// getBinaryPath returns the path to the rosenwald_merge binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "rosenwald_merge"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/ ./cmd/rosenwald_merge'", binaryPath)
	}

	return binaryPath
}

// clearEnv keeps a developer's .env from leaking into command tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvSourceDir, config.EnvOutputDir, config.EnvPrefixLength} {
		t.Setenv(k, "")
	}
}

// exportName builds a file name with the 92-character model-comparison prefix.
func exportName(rest string) string {
	return strings.Repeat("x", 92) + rest
}

func writeExport(t *testing.T, dir, rest, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, exportName(rest)), []byte(content), 0644))
}

// execute runs cmd with args and returns its stdout and stderr.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
