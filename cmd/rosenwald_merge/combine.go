package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nmrenyi/rosenwald-benchmark/internal/config"
	"github.com/nmrenyi/rosenwald-benchmark/internal/observability"
	"github.com/nmrenyi/rosenwald-benchmark/internal/pipeline"
)

type combineOptions struct {
	configFlags

	manifest            string
	jobs                int
	continueOnError     bool
	noVerifyParts       bool
	keepSecondaryHeader bool
	headerCheck         string
	noAtomic            bool
}

func newCombineCmd() *cobra.Command {
	opts := &combineOptions{}
	cmd := &cobra.Command{
		Use:   "combine",
		Short: "Merge every complete pair of halves into one file per page",
		Long: `Scans the source directory, groups files by year-page token and merges each
group of exactly two files. Groups with one or three and more files are skipped
with a warning.

Configuration can be loaded from a YAML or JSON file using --config. Environment
variables override the file and command-line flags override both.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCombine(cmd, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.manifest, "manifest", "", "Write a JSON run manifest to this path")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, fmt.Sprintf("Number of groups merged in parallel (1-%d, default 1)", config.MaxJobs))
	cmd.Flags().BoolVar(&opts.continueOnError, "continue-on-error", false, "Record I/O failures per group and keep going instead of halting")
	cmd.Flags().BoolVar(&opts.noVerifyParts, "no-verify-parts", false, "Trust lexical order instead of requiring -1/-2 part markers")
	cmd.Flags().BoolVar(&opts.keepSecondaryHeader, "keep-secondary-header", false, "Do not drop the first line of the second half")
	cmd.Flags().StringVar(&opts.headerCheck, "header-check", "", "Header consistency check: off, warn or strict (default warn)")
	cmd.Flags().BoolVar(&opts.noAtomic, "no-atomic", false, "Write output files in place instead of via temp file and rename")

	return cmd
}

func init() {
	rootCmd.AddCommand(newCombineCmd())
}

func (o *combineOptions) resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := o.resolve(cmd, os.Getenv)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("manifest") {
		cfg.Manifest = o.manifest
	}
	if flags.Changed("jobs") {
		cfg.Jobs = o.jobs
	}
	if o.continueOnError {
		cfg.ContinueOnError = true
	}
	if o.noVerifyParts {
		off := false
		cfg.VerifyParts = &off
	}
	if o.keepSecondaryHeader {
		off := false
		cfg.DropSecondaryHeader = &off
	}
	if flags.Changed("header-check") {
		cfg.HeaderCheck = o.headerCheck
	}
	if o.noAtomic {
		off := false
		cfg.Atomic = &off
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runCombine(cmd *cobra.Command, opts *combineOptions) error {
	cfg, err := opts.resolveConfig(cmd)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.SetVerbose(cfg.Verbose)
	printer.PrintStart()

	result, err := pipeline.Run(cmd.Context(), pipeline.RunOptions{
		Config:  cfg,
		Printer: printer,
	})
	if err != nil {
		if result != nil && result.Summary.Failed > 0 {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %d group(s) failed; see messages above\n", result.Summary.Failed)
		}
		return fmt.Errorf("combine failed: %w", err)
	}

	printer.PrintDone()
	return nil
}
