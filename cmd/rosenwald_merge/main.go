// Package main provides the entry point for the rosenwald-benchmark merge tool.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rosenwald_merge",
	Short: "Merge split TSV halves of Rosenwald benchmark pages",
	Long: `Combines paired TSV exports that hold the two halves of one benchmark page.
Each file name carries a fixed-length model-comparison prefix followed by a
year-page token (DDDD-DDDD). Files sharing a token are merged into
<output-dir>/<DDDD-DDDD>.tsv, dropping the header line of the second half.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
