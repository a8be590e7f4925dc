// =============================================================================
// POS Ingest - File Utilities
// =============================================================================
//
// Manages the batch workflow's directories: discovering input exports,
// archiving them after successful ingestion, and writing JSON reports.
//
// =============================================================================

package fileutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ingestibleExtensions are the file types the loader understands.
var ingestibleExtensions = map[string]bool{
	".csv": true, ".txt": true, ".tsv": true,
	".xlsx": true, ".xls": true, ".xlsm": true, ".xlsb": true,
}

// Manager handles the input, output, and archive directories for a batch run.
type Manager struct {
	inputDir   string
	outputDir  string
	archiveDir string
}

// NewManager creates a Manager. Call EnsureDirectories before using it.
func NewManager(inputDir, outputDir, archiveDir string) *Manager {
	return &Manager{
		inputDir:   inputDir,
		outputDir:  outputDir,
		archiveDir: archiveDir,
	}
}

// EnsureDirectories creates any missing directories.
func (m *Manager) EnsureDirectories() error {
	for _, dir := range []string{m.inputDir, m.outputDir, m.archiveDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// DiscoverInputFiles returns every ingestible file directly under the input
// directory, sorted by name.
func (m *Manager) DiscoverInputFiles() ([]string, error) {
	entries, err := os.ReadDir(m.inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", m.inputDir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ingestibleExtensions[ext] {
			files = append(files, filepath.Join(m.inputDir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// ArchiveInputFile moves a processed input into the archive directory,
// prefixing a timestamp so repeated names never collide. Returns the archive
// path.
func (m *Manager) ArchiveInputFile(filePath string) (string, error) {
	base := filepath.Base(filePath)
	stamp := time.Now().Format("20060102_150405")
	dst := filepath.Join(m.archiveDir, stamp+"_"+base)
	if _, err := os.Stat(dst); err == nil {
		dst = filepath.Join(m.archiveDir, stamp+"_"+uuid.NewString()[:8]+"_"+base)
	}
	if err := moveFile(filePath, dst); err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", filePath, err)
	}
	return dst, nil
}

// WriteReport writes one ingestion result as an indented JSON file named
// after the source file plus a UUID. Returns the report path.
func (m *Manager) WriteReport(sourceName string, report any) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(sourceName), filepath.Ext(sourceName))
	name := fmt.Sprintf("%s_%s.json", stem, uuid.NewString())
	path := filepath.Join(m.outputDir, name)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report for %s: %w", sourceName, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return path, nil
}

// WriteSummary writes the batch summary JSON. Returns the summary path.
func (m *Manager) WriteSummary(summary any) (string, error) {
	name := fmt.Sprintf("summary_%s.json", time.Now().Format("20060102_150405"))
	path := filepath.Join(m.outputDir, name)

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write summary %s: %w", path, err)
	}
	return path, nil
}

// moveFile renames, falling back to copy+remove across filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
