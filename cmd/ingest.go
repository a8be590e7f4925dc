// =============================================================================
// POS Ingest - Ingest Command
// =============================================================================
//
// This file defines the 'ingest' command, the main command for turning POS
// export files into clean records.
//
// COMMAND USAGE:
//   posingest ingest [flags]
//
// FLAGS:
//   --file         : Ingest a single file instead of the input directory
//   --preview      : Analyze without transforming records
//   --no-auto-fix  : Disable the grid repair heuristics
//   --output       : Override the report output directory
//
// PROCESSING PIPELINE:
//   1. Load configuration and any signature packs
//   2. Discover export files in the input directory (or take --file)
//   3. For each file (concurrently): run the full ingestion pipeline
//   4. Write a JSON report per file, archive inputs on success
//   5. Print and write a batch summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/adityabandi/posingest/internal/config"
	"github.com/adityabandi/posingest/internal/ingest"
	"github.com/adityabandi/posingest/internal/pos"
	"github.com/adityabandi/posingest/pkg/fileutil"
)

// singleFilePath ingests one file instead of scanning the input directory.
var singleFilePath string

// previewMode stops after analysis and prints what would happen.
var previewMode bool

// noAutoFix disables the grid repair heuristics.
var noAutoFix bool

// outputOverride replaces the configured output directory.
var outputOverride string

// ingestCmd represents the 'ingest' command.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest POS export files into clean records",
	Long: `The ingest command reads point-of-sale export files, detects the source
system, maps columns onto a fixed semantic vocabulary, and writes one JSON
report per file with the transformed records, quality score, and insights.

Files are processed concurrently. Errors in one file do not affect the
others: a failed ingestion still produces a report carrying the failure
classification, suggestions, and whatever could be recovered.

On successful ingestion the input file is moved to the archive directory.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest()
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(
		&singleFilePath,
		"file",
		"",
		"Ingest a single file instead of scanning the input directory",
	)
	ingestCmd.Flags().BoolVar(
		&previewMode,
		"preview",
		false,
		"Analyze files without transforming records",
	)
	ingestCmd.Flags().BoolVar(
		&noAutoFix,
		"no-auto-fix",
		false,
		"Disable automatic repair of headers, total rows, and currency columns",
	)
	ingestCmd.Flags().StringVar(
		&outputOverride,
		"output",
		"",
		"Override the report output directory",
	)
}

// runIngest orchestrates the batch: config, discovery, concurrent ingestion,
// reports, archive, summary.
func runIngest() error {
	startTime := time.Now()

	fmt.Println("=== POS Ingest ===")
	fmt.Println("Loading configuration...")

	mainConfig, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}
	if outputOverride != "" {
		mainConfig.OutputDir = outputOverride
	}

	registry := pos.NewRegistry()
	if err := config.LoadSignaturePacks(mainConfig.SignaturesDir, registry); err != nil {
		return fmt.Errorf("failed to load signature packs: %w", err)
	}

	parser := ingest.New()
	parser.SetRegistry(registry)
	parser.SetAutoFix(mainConfig.AutoFix.Options())
	if !verbose {
		parser.SetLogger(quietLogger{})
	}

	manager := fileutil.NewManager(mainConfig.InputDir, mainConfig.OutputDir, mainConfig.InputArchiveDir)
	if err := manager.EnsureDirectories(); err != nil {
		return err
	}

	var inputFiles []string
	if singleFilePath != "" {
		if !fileutil.FileExists(singleFilePath) {
			return fmt.Errorf("file not found: %s", singleFilePath)
		}
		inputFiles = []string{singleFilePath}
	} else {
		fmt.Println("Discovering input files...")
		inputFiles, err = manager.DiscoverInputFiles()
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
	}
	if len(inputFiles) == 0 {
		fmt.Println("No export files found in the input directory.")
		return nil
	}
	fmt.Printf("Found %d file(s) to ingest\n", len(inputFiles))

	// Ingest concurrently, bounded by max_concurrency. Results flow through
	// a buffered channel so no goroutine blocks on the collector.
	var wg sync.WaitGroup
	results := make(chan *ingest.Result, len(inputFiles))
	sem := make(chan struct{}, mainConfig.MaxConcurrency)

	opts := ingest.Options{Preview: previewMode, DisableAutoFix: noAutoFix}
	for _, file := range inputFiles {
		wg.Add(1)
		go func(filePath string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			data, err := os.ReadFile(filePath)
			if err != nil {
				data = nil
			}
			results <- parser.Ingest(data, filepath.Base(filePath), opts)
		}(file)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	stats := ingest.NewStats()
	byName := map[string]*ingest.Result{}
	for res := range results {
		stats.Record(res)
		byName[res.Filename] = res
		if res.Success {
			if res.Preview != nil {
				fmt.Printf("  ✓ %s: %s (%.2f), %d rows, %d columns\n",
					res.Filename, res.Analysis.POSSystem, res.Analysis.Confidence,
					res.Preview.FileInfo.Rows, res.Preview.FileInfo.Columns)
			} else {
				fmt.Printf("  ✓ %s: %s, %d records, quality %.2f\n",
					res.Filename, res.Analysis.POSSystem,
					res.Processing.RecordsProcessed, res.QualityScore)
			}
		} else {
			fmt.Printf("  ✗ %s: %s\n", res.Filename, res.Error.Message)
			if !mainConfig.ShouldContinueOnError() {
				break
			}
		}
	}

	// Reports and archival run after collection so file moves never race
	// with in-flight reads.
	for _, file := range inputFiles {
		res, ok := byName[filepath.Base(file)]
		if !ok {
			continue
		}
		if path, err := manager.WriteReport(res.Filename, res); err != nil {
			fmt.Fprintf(os.Stderr, "  report error for %s: %v\n", res.Filename, err)
		} else if verbose {
			fmt.Printf("  report: %s\n", path)
		}
		if res.Success && !previewMode && singleFilePath == "" {
			if _, err := manager.ArchiveInputFile(file); err != nil {
				fmt.Fprintf(os.Stderr, "  archive error for %s: %v\n", res.Filename, err)
			}
		}
	}

	elapsed := time.Since(startTime)
	fmt.Println("\n=== Ingestion Complete ===")
	fmt.Printf("Total files:     %d\n", stats.FilesProcessed)
	fmt.Printf("Success rate:    %.0f%%\n", stats.SuccessRate*100)
	fmt.Printf("Time elapsed:    %s\n", elapsed)
	systems := make([]string, 0, len(stats.POSSystemsDetected))
	for sys := range stats.POSSystemsDetected {
		systems = append(systems, sys)
	}
	sort.Strings(systems)
	for _, sys := range systems {
		fmt.Printf("  detected %-12s %d\n", sys, stats.POSSystemsDetected[sys])
	}

	if _, err := manager.WriteSummary(stats); err != nil {
		fmt.Fprintf(os.Stderr, "summary error: %v\n", err)
	}
	return nil
}

// quietLogger drops debug and info chatter when --verbose is off.
type quietLogger struct{}

func (quietLogger) Debug(string, ...interface{}) {}
func (quietLogger) Info(string, ...interface{})  {}
func (quietLogger) Warn(msg string, args ...interface{}) {
	fmt.Printf("[WARN] "+msg+"\n", args...)
}
func (quietLogger) Error(msg string, args ...interface{}) {
	fmt.Printf("[ERROR] "+msg+"\n", args...)
}
