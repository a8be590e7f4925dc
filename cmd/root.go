// =============================================================================
// POS Ingest - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands ('ingest', 'version') are attached
// to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (posingest)
//   ├── ingestCmd (posingest ingest)
//   └── versionCmd (posingest version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables verbose logging when set to true.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "posingest",
	Short: "POS Ingest - Turn messy point-of-sale exports into clean records",

	Long: `POS Ingest is a CLI tool that reads point-of-sale export files in whatever
shape a vendor produced them and turns them into clean, typed sales records.

Key Features:
  - Encoding detection with graceful fallbacks
  - Smart separator and sheet selection for CSV and Excel files
  - Automatic repair of misplaced headers, total rows, and currency columns
  - Fingerprint detection of twelve POS systems, extensible via YAML packs
  - Semantic column mapping, enrichment, and per-file quality scoring

Example Usage:
  posingest ingest                      # Ingest every file in the input directory
  posingest ingest --file sales.csv     # Ingest a single file
  posingest ingest --file x.csv --preview  # Inspect a file without ingesting it`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (default is config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
