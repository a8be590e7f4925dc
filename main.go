// =============================================================================
// POS Ingest - Main Entry Point
// =============================================================================
//
// This is the main entry point for the POS Ingest CLI application. It
// initializes the Cobra CLI framework and delegates command execution to the
// cmd package.
//
// USAGE:
//   posingest ingest        - Ingest all export files in the input directory
//   posingest version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : core ingestion pipeline (not for external import)
//   - pkg/           : shared utilities
//   - signatures/    : optional custom POS signature packs (YAML)
//
// =============================================================================

package main

import (
	"github.com/adityabandi/posingest/cmd"
)

func main() {
	cmd.Execute()
}
