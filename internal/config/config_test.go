package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmrenyi/rosenwald-benchmark/internal/merging"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
source_dir: data/exports
output_dir: out
prefix_length: 0
verify_parts: false
header_check: strict
jobs: 4
continue_on_error: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "data/exports", cfg.SourceDir)
	assert.Equal(t, "out", cfg.OutputDir)
	require.NotNil(t, cfg.PrefixLength)
	assert.Equal(t, 0, *cfg.PrefixLength)
	require.NotNil(t, cfg.VerifyParts)
	assert.False(t, *cfg.VerifyParts)
	assert.Nil(t, cfg.Atomic)
	assert.Equal(t, "strict", cfg.HeaderCheck)
	assert.Equal(t, 4, cfg.Jobs)
	assert.True(t, cfg.ContinueOnError)
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"source_dir": "exports", "prefix_length": 92, "verbose": true}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "exports", cfg.SourceDir)
	assert.Equal(t, 92, *cfg.PrefixLength)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "config.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Config{}, *cfg)
}

func TestLoadConfig_UnknownKey(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "config.yaml", "source_directory: exports\n"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "config.yaml", "source_dir: [unclosed\n"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestDefault_MatchesOriginalConstants(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "exports", cfg.SourceDir)
	assert.Equal(t, "rosenwald-benchmark", cfg.OutputDir)
	assert.Equal(t, "*.tsv", cfg.FilePattern)
	assert.Equal(t, 92, cfg.Prefix())
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MissingFields(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'source_dir' is required")
	assert.Contains(t, err.Error(), "'output_dir' is required")
}

func TestValidate_Ranges(t *testing.T) {
	cfg := Default()
	cfg.PrefixLength = intPtr(-1)
	cfg.Jobs = MaxJobs + 1
	cfg.HeaderCheck = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'prefix_length' must be at least 0")
	assert.Contains(t, err.Error(), fmt.Sprintf("'jobs' must be at most %d", MaxJobs))
	assert.Contains(t, err.Error(), "'header_check' must be one of [off warn strict]")
}

func TestValidate_JobsLimitFollowsMaxJobs(t *testing.T) {
	cfg := Default()
	cfg.Jobs = MaxJobs
	assert.NoError(t, cfg.Validate())

	cfg.Jobs = MaxJobs + 1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("'jobs' must be at most %d", MaxJobs))
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvSourceDir:    "/data/in",
		EnvOutputDir:    " /data/out ",
		EnvPrefixLength: "10",
	}
	cfg := Config{SourceDir: "file-value"}

	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))
	assert.Equal(t, "/data/in", cfg.SourceDir)
	assert.Equal(t, "/data/out", cfg.OutputDir)
	assert.Equal(t, 10, cfg.Prefix())
}

func TestApplyEnv_BadPrefix(t *testing.T) {
	cfg := Config{}
	err := cfg.ApplyEnv(func(k string) string {
		if k == EnvPrefixLength {
			return "ninety-two"
		}
		return ""
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvPrefixLength)
}

func TestMergeWithDefaults(t *testing.T) {
	partial := Config{
		SourceDir:   "custom",
		VerifyParts: boolPtr(false),
		Verbose:     true,
	}

	merged := partial.MergeWithDefaults(Default())

	// Custom values should be preserved
	assert.Equal(t, "custom", merged.SourceDir)
	assert.False(t, *merged.VerifyParts)
	assert.True(t, merged.Verbose)

	// Default values should fill in unset fields
	assert.Equal(t, "rosenwald-benchmark", merged.OutputDir)
	assert.Equal(t, 92, *merged.PrefixLength)
	assert.True(t, *merged.Atomic)
	assert.Equal(t, 1, merged.Jobs)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{SourceDir: "x"}
	merged := cfg.MergeWithDefaults(Config{})
	assert.Equal(t, "x", merged.SourceDir)
	assert.Nil(t, merged.PrefixLength)
	assert.Equal(t, 92, merged.Prefix())
}

func TestPolicy(t *testing.T) {
	cfg := Config{
		PrefixLength:        intPtr(5),
		VerifyParts:         boolPtr(false),
		DropSecondaryHeader: boolPtr(false),
		HeaderCheck:         "strict",
		Atomic:              boolPtr(false),
	}

	p := cfg.Policy()
	assert.Equal(t, merging.Policy{
		PrefixLength:        5,
		VerifyParts:         false,
		DropSecondaryHeader: false,
		HeaderCheck:         merging.HeaderCheckStrict,
		Atomic:              false,
	}, p)

	assert.Equal(t, merging.DefaultPolicy(), (&Config{}).Policy())
}
