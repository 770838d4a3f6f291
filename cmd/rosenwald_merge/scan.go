package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nmrenyi/rosenwald-benchmark/internal/observability"
	"github.com/nmrenyi/rosenwald-benchmark/internal/pipeline"
)

type scanOptions struct {
	configFlags
}

func newScanCmd() *cobra.Command {
	opts := &scanOptions{}
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List year-page groups without writing anything",
		Long:  "Groups the source directory the same way combine does and prints each group with its file count, marking groups that are not exactly one pair.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.resolve(cmd, os.Getenv)
			if err != nil {
				return err
			}

			printer := observability.NewPrinter(cmd.OutOrStdout())
			printer.SetVerbose(cfg.Verbose)
			printer.Verbosef("Scanning %s (pattern %s, prefix %d)", cfg.SourceDir, cfg.FilePattern, cfg.Prefix())

			groups, err := pipeline.Scan(cfg)
			if err != nil {
				return err
			}
			printer.PrintGroups(groups)
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

func init() {
	rootCmd.AddCommand(newScanCmd())
}
