// =============================================================================
// POS Ingest - Configuration Module
// =============================================================================
//
// Loads the engine configuration and any custom signature packs.
//
// CONFIGURATION FILES:
//   1. Main Config (config.yaml): directories, concurrency, auto-fix toggles
//   2. Signature Packs (signatures/*.yaml): extra POS signatures appended to
//      the built-in registry before ingestion starts
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/adityabandi/posingest/internal/autofix"
	"github.com/adityabandi/posingest/internal/pos"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration, loaded from
// config.yaml.
type MainConfig struct {
	// InputDir is the directory scanned for export files to ingest.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir is the directory where JSON reports are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir is where inputs are moved after successful ingestion.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// SignaturesDir holds optional signature-pack YAML files.
	// Default: "./signatures"
	SignaturesDir string `yaml:"signatures_dir"`

	// LogLevel controls verbosity: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// MaxConcurrency is the number of files ingested concurrently.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// ContinueOnError keeps a batch running past individual failures.
	// Default: true
	ContinueOnError *bool `yaml:"continue_on_error"`

	// AutoFix toggles the grid repair heuristics.
	AutoFix AutoFixConfig `yaml:"auto_fix"`
}

// AutoFixConfig mirrors the heuristic toggles. Nil pointers mean enabled.
type AutoFixConfig struct {
	FixHeaders   *bool `yaml:"fix_headers"`
	RemoveTotals *bool `yaml:"remove_totals"`
	SplitDates   *bool `yaml:"split_dates"`
	FixCurrency  *bool `yaml:"fix_currency"`
}

// Options converts the YAML toggles into autofix options.
func (c AutoFixConfig) Options() autofix.Options {
	opts := autofix.DefaultOptions()
	if c.FixHeaders != nil {
		opts.FixHeaders = *c.FixHeaders
	}
	if c.RemoveTotals != nil {
		opts.RemoveTotals = *c.RemoveTotals
	}
	if c.SplitDates != nil {
		opts.SplitDates = *c.SplitDates
	}
	if c.FixCurrency != nil {
		opts.FixCurrency = *c.FixCurrency
	}
	return opts
}

// ShouldContinueOnError resolves the pointer default.
func (c *MainConfig) ShouldContinueOnError() bool {
	if c.ContinueOnError == nil {
		return true
	}
	return *c.ContinueOnError
}

// =============================================================================
// LOADING
// =============================================================================

// LoadMainConfig reads and validates the main configuration. A missing file
// is not an error: defaults apply.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	config := &MainConfig{}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			applyMainConfigDefaults(config)
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	applyMainConfigDefaults(config)
	if err := validateMainConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.SignaturesDir == "" {
		config.SignaturesDir = "./signatures"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
}

func validateMainConfig(config *MainConfig) error {
	switch config.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", config.LogLevel)
	}
	return nil
}

// =============================================================================
// SIGNATURE PACKS
// =============================================================================

// signaturePack is the on-disk shape of one pack file.
type signaturePack struct {
	Signatures []pos.Signature `yaml:"signatures"`
}

// LoadSignaturePacks extends the registry with every *.yaml file under dir,
// in file-name order so registration stays deterministic. A missing
// directory is not an error.
func LoadSignaturePacks(dir string, registry *pos.Registry) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read signatures directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext == ".yaml" || ext == ".yml" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read signature pack %s: %w", path, err)
		}
		var pack signaturePack
		if err := yaml.Unmarshal(data, &pack); err != nil {
			return fmt.Errorf("failed to parse signature pack %s: %w", path, err)
		}
		for _, sig := range pack.Signatures {
			if err := registry.Add(sig); err != nil {
				return fmt.Errorf("signature pack %s: %w", path, err)
			}
		}
	}
	return nil
}
