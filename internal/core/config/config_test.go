package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "codeshape.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
version = 1

[paths]
project_root = "."
cache_dir = ".cache/codeshape"

[analysis]
encoding = "windows-1252"
require_known_language = true
default_view = "functions"
max_file_bytes = 2048

[output]
format = "json"
color = "never"

[scan]
workers = 3
exclude_dirs = [".git", "testdata"]
exclude_files = ["*.min.js", "*_gen.go"]

[cache]
enabled = false
capacity = 64
db_path = "cache.db"
prune_after = "168h"

[watch]
debounce = "1s"
rate_per_second = 5.5
burst = 10

[observability]
metrics_addr = "127.0.0.1:9464"
otlp_endpoint = "localhost:4317"
service_name = "shape"
enable_tracing = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Paths.CacheDir != ".cache/codeshape" {
		t.Errorf("unexpected cache dir %q", cfg.Paths.CacheDir)
	}
	if cfg.Analysis.Encoding != "windows-1252" || !cfg.Analysis.RequireKnownLanguage {
		t.Errorf("unexpected analysis section %+v", cfg.Analysis)
	}
	if cfg.Analysis.DefaultView != "functions" || cfg.Analysis.MaxFileBytes != 2048 {
		t.Errorf("unexpected analysis section %+v", cfg.Analysis)
	}
	if cfg.Output.Format != "json" || cfg.Output.Color != "never" {
		t.Errorf("unexpected output section %+v", cfg.Output)
	}
	if cfg.Scan.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.Scan.Workers)
	}
	if len(cfg.Scan.ExcludeDirs) != 2 || cfg.Scan.ExcludeDirs[1] != "testdata" {
		t.Errorf("unexpected exclude dirs %v", cfg.Scan.ExcludeDirs)
	}
	if len(cfg.Scan.ExcludeFiles) != 2 {
		t.Errorf("unexpected exclude files %v", cfg.Scan.ExcludeFiles)
	}
	if cfg.Cache.IsEnabled() {
		t.Error("expected cache to be disabled")
	}
	if cfg.Cache.Capacity != 64 || cfg.Cache.DBPath != "cache.db" || cfg.Cache.PruneAfter != 168*time.Hour {
		t.Errorf("unexpected cache section %+v", cfg.Cache)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("expected 1s debounce, got %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.RatePerSecond != 5.5 || cfg.Watch.Burst != 10 {
		t.Errorf("unexpected watch section %+v", cfg.Watch)
	}
	if cfg.Observability.MetricsAddr != "127.0.0.1:9464" || cfg.Observability.ServiceName != "shape" {
		t.Errorf("unexpected observability section %+v", cfg.Observability)
	}
	if !cfg.Observability.EnableTracing || cfg.Observability.OTLPEndpoint != "localhost:4317" {
		t.Errorf("unexpected observability section %+v", cfg.Observability)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "[output]\nformat = \"yaml\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("expected version 1, got %d", cfg.Version)
	}
	if cfg.Output.Format != "yaml" || cfg.Output.Color != "auto" {
		t.Errorf("unexpected output section %+v", cfg.Output)
	}
	if cfg.Analysis.Encoding != "utf-8" || cfg.Analysis.DefaultView != "all" {
		t.Errorf("unexpected analysis defaults %+v", cfg.Analysis)
	}
	if cfg.Analysis.MaxFileBytes != 10<<20 {
		t.Errorf("unexpected max file bytes %d", cfg.Analysis.MaxFileBytes)
	}
	if cfg.Watch.Debounce != 300*time.Millisecond {
		t.Errorf("expected default debounce 300ms, got %v", cfg.Watch.Debounce)
	}
	if !cfg.Cache.IsEnabled() || cfg.Cache.Capacity != 512 {
		t.Errorf("unexpected cache defaults %+v", cfg.Cache)
	}
	if cfg.Scan.Workers < 1 {
		t.Errorf("expected at least one worker, got %d", cfg.Scan.Workers)
	}
}

func TestLoadError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}

	path := writeConfig(t, "[scan\nworkers = 2\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed TOML")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"version", "version = 2\n", "unsupported config version"},
		{"encoding", "[analysis]\nencoding = \"klingon\"\n", "analysis.encoding"},
		{"view", "[analysis]\ndefault_view = \"everything\"\n", "analysis.default_view"},
		{"format", "[output]\nformat = \"xml\"\n", "output.format"},
		{"color", "[output]\ncolor = \"sometimes\"\n", "output.color"},
		{"workers", "[scan]\nworkers = -1\n", "scan.workers"},
		{"glob", "[scan]\nexclude_files = [\"[abc\"]\n", "scan.exclude_files[0]"},
		{"metrics addr", "[observability]\nmetrics_addr = \"localhost\"\n", "observability.metrics_addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadOrDefault_MissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("expected default config, got format %q", cfg.Output.Format)
	}
}

func TestLoadOrDefault_ExplicitPathMustExist(t *testing.T) {
	if _, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for explicit missing path")
	}
}

func TestLoadOrDefault_ReadsDefaultFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, DefaultFile), []byte("[cache]\ncapacity = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if cfg.Cache.Capacity != 7 {
		t.Errorf("expected capacity 7, got %d", cfg.Cache.Capacity)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("CODESHAPE_ANALYSIS_ENCODING", "latin1")
	t.Setenv("CODESHAPE_ANALYSIS_REQUIRE_KNOWN_LANGUAGE", "TRUE")
	t.Setenv("CODESHAPE_SCAN_WORKERS", "9")
	t.Setenv("CODESHAPE_SCAN_EXCLUDE_DIRS", "a, b,,c")
	t.Setenv("CODESHAPE_CACHE_ENABLED", "false")
	t.Setenv("CODESHAPE_CACHE_PRUNE_AFTER", "24h")
	t.Setenv("CODESHAPE_WATCH_DEBOUNCE", "2s")
	t.Setenv("CODESHAPE_WATCH_RATE_PER_SECOND", "1.5")
	t.Setenv("CODESHAPE_ANALYSIS_MAX_FILE_BYTES", "4096")
	t.Setenv("CODESHAPE_OBSERVABILITY_METRICS_ADDR", ":9000")

	cfg := DefaultConfig()
	ApplyEnvOverrides(cfg)

	if cfg.Analysis.Encoding != "latin1" || !cfg.Analysis.RequireKnownLanguage {
		t.Errorf("analysis overrides not applied: %+v", cfg.Analysis)
	}
	if cfg.Analysis.MaxFileBytes != 4096 {
		t.Errorf("expected max file bytes 4096, got %d", cfg.Analysis.MaxFileBytes)
	}
	if cfg.Scan.Workers != 9 {
		t.Errorf("expected 9 workers, got %d", cfg.Scan.Workers)
	}
	if got := strings.Join(cfg.Scan.ExcludeDirs, "|"); got != "a|b|c" {
		t.Errorf("unexpected exclude dirs %q", got)
	}
	if cfg.Cache.IsEnabled() {
		t.Error("expected cache disabled by env")
	}
	if cfg.Cache.PruneAfter != 24*time.Hour {
		t.Errorf("expected prune_after 24h, got %v", cfg.Cache.PruneAfter)
	}
	if cfg.Watch.Debounce != 2*time.Second || cfg.Watch.RatePerSecond != 1.5 {
		t.Errorf("watch overrides not applied: %+v", cfg.Watch)
	}
	if cfg.Observability.MetricsAddr != ":9000" {
		t.Errorf("unexpected metrics addr %q", cfg.Observability.MetricsAddr)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("overridden config failed validation: %v", err)
	}
}

func TestApplyEnvOverrides_IgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("CODESHAPE_SCAN_WORKERS", "many")
	t.Setenv("CODESHAPE_WATCH_DEBOUNCE", "soon")

	cfg := DefaultConfig()
	want := cfg.Scan.Workers
	ApplyEnvOverrides(cfg)

	if cfg.Scan.Workers != want {
		t.Errorf("expected workers to stay %d, got %d", want, cfg.Scan.Workers)
	}
	if cfg.Watch.Debounce != 300*time.Millisecond {
		t.Errorf("expected debounce to stay 300ms, got %v", cfg.Watch.Debounce)
	}
}
