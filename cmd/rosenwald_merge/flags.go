package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nmrenyi/rosenwald-benchmark/internal/config"
)

// configFlags holds the flags shared by every subcommand that reads the source directory.
type configFlags struct {
	configPath   string
	sourceDir    string
	outputDir    string
	pattern      string
	prefixLength int
	verbose      bool
}

func (f *configFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to a YAML or JSON config file (values can be overridden by other flags)")
	cmd.Flags().StringVarP(&f.sourceDir, "source", "s", "", fmt.Sprintf("Directory holding the exported halves (default %q, env %s)", config.DefaultSourceDir, config.EnvSourceDir))
	cmd.Flags().StringVarP(&f.outputDir, "output", "o", "", fmt.Sprintf("Directory for merged pages (default %q, env %s)", config.DefaultOutputDir, config.EnvOutputDir))
	cmd.Flags().StringVar(&f.pattern, "pattern", "", "Glob selecting input files (default \"*.tsv\")")
	cmd.Flags().IntVar(&f.prefixLength, "prefix-length", 0, fmt.Sprintf("Characters to skip before the year-page token (default 92, env %s)", config.EnvPrefixLength))
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Print detailed debug information")
}

// resolve layers the config file, the environment and explicitly set flags
// over the defaults, in increasing order of precedence.
func (f *configFlags) resolve(cmd *cobra.Command, lookup func(string) string) (config.Config, error) {
	var cfg config.Config
	if f.configPath != "" {
		loaded, err := config.LoadConfig(f.configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	if lookup == nil {
		lookup = os.Getenv
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.SourceDir = f.sourceDir
	}
	if flags.Changed("output") {
		cfg.OutputDir = f.outputDir
	}
	if flags.Changed("pattern") {
		cfg.FilePattern = f.pattern
	}
	if flags.Changed("prefix-length") {
		n := f.prefixLength
		cfg.PrefixLength = &n
	}
	if f.verbose {
		cfg.Verbose = true
	}

	merged := cfg.MergeWithDefaults(config.Default())
	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}
