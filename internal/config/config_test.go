package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adityabandi/posingest/internal/pos"
)

func TestLoadMainConfigDefaults(t *testing.T) {
	cfg, err := LoadMainConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadMainConfig: %v", err)
	}
	if cfg.InputDir != "./input" || cfg.MaxConcurrency != 4 {
		t.Errorf("defaults = %+v", cfg)
	}
	if !cfg.ShouldContinueOnError() {
		t.Error("continue_on_error should default to true")
	}
	opts := cfg.AutoFix.Options()
	if !opts.FixHeaders || !opts.RemoveTotals || !opts.SplitDates || !opts.FixCurrency {
		t.Errorf("auto-fix defaults = %+v", opts)
	}
}

func TestLoadMainConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
input_dir: /data/in
max_concurrency: 8
log_level: debug
continue_on_error: false
auto_fix:
  split_dates: false
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadMainConfig(path)
	if err != nil {
		t.Fatalf("LoadMainConfig: %v", err)
	}
	if cfg.InputDir != "/data/in" || cfg.MaxConcurrency != 8 {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.ShouldContinueOnError() {
		t.Error("continue_on_error should be false")
	}
	opts := cfg.AutoFix.Options()
	if opts.SplitDates {
		t.Error("split_dates should be disabled")
	}
	if !opts.FixHeaders {
		t.Error("unset toggles should stay enabled")
	}
}

func TestLoadMainConfigRejectsBadLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: loud\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadMainConfig(path); err == nil {
		t.Fatal("invalid log level must be rejected")
	}
}

func TestLoadSignaturePacks(t *testing.T) {
	dir := t.TempDir()
	pack := `
signatures:
  - name: chowbot
    identifiers: [chowbot]
    required_columns: [dish, units, takings]
    file_patterns: [chowbot_]
    confidence_boost: 0.2
`
	if err := os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte(pack), 0o644); err != nil {
		t.Fatal(err)
	}
	r := pos.NewRegistry()
	before := len(r.Signatures())
	if err := LoadSignaturePacks(dir, r); err != nil {
		t.Fatalf("LoadSignaturePacks: %v", err)
	}
	if len(r.Signatures()) != before+1 {
		t.Fatalf("signatures = %d, want %d", len(r.Signatures()), before+1)
	}
	last := r.Signatures()[len(r.Signatures())-1]
	if last.Name != "chowbot" || last.ConfidenceBoost != 0.2 {
		t.Errorf("loaded signature = %+v", last)
	}
}

func TestLoadSignaturePacksMissingDir(t *testing.T) {
	if err := LoadSignaturePacks(filepath.Join(t.TempDir(), "nope"), pos.NewRegistry()); err != nil {
		t.Fatalf("missing dir must not error: %v", err)
	}
}

func TestLoadSignaturePacksRejectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	pack := "signatures:\n  - name: square\n"
	if err := os.WriteFile(filepath.Join(dir, "dup.yaml"), []byte(pack), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := LoadSignaturePacks(dir, pos.NewRegistry()); err == nil {
		t.Fatal("duplicate names must be rejected")
	}
}
