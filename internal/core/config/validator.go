package config

import (
	"fmt"
	"net"
	"strings"

	"codeshape/internal/data/source"
	"codeshape/internal/engine/model"

	"github.com/gobwas/glob"
)

// Validate checks a config after defaults were applied. It is run again by
// callers that apply environment overrides.
func Validate(cfg *Config) error {
	validators := []func(*Config) error{
		validateVersion,
		validateAnalysis,
		validateOutput,
		validateScan,
		validateCache,
		validateWatch,
		validateObservability,
	}
	for _, validate := range validators {
		if err := validate(cfg); err != nil {
			return err
		}
	}
	return nil
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; the only supported version is 1", cfg.Version)
	}
	return nil
}

func validateAnalysis(cfg *Config) error {
	if _, err := source.Lookup(cfg.Analysis.Encoding); err != nil {
		return fmt.Errorf("analysis.encoding: %w", err)
	}
	if _, err := model.ParseView(cfg.Analysis.DefaultView); err != nil {
		return fmt.Errorf("analysis.default_view: %w", err)
	}
	if cfg.Analysis.MaxFileBytes < 0 {
		return fmt.Errorf("analysis.max_file_bytes must be >= 0, got %d", cfg.Analysis.MaxFileBytes)
	}
	return nil
}

func validateOutput(cfg *Config) error {
	switch strings.ToLower(strings.TrimSpace(cfg.Output.Format)) {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("output.format must be one of: text, json, yaml")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Output.Color)) {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("output.color must be one of: auto, always, never")
	}
	return nil
}

func validateScan(cfg *Config) error {
	if cfg.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers must be >= 1, got %d", cfg.Scan.Workers)
	}
	for i, dir := range cfg.Scan.ExcludeDirs {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("scan.exclude_dirs[%d] must not be empty", i)
		}
	}
	for i, pattern := range cfg.Scan.ExcludeFiles {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("scan.exclude_files[%d] must not be empty", i)
		}
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("scan.exclude_files[%d] %q: %w", i, pattern, err)
		}
	}
	return nil
}

func validateCache(cfg *Config) error {
	if cfg.Cache.Capacity < 0 {
		return fmt.Errorf("cache.capacity must be >= 0, got %d", cfg.Cache.Capacity)
	}
	if cfg.Cache.PruneAfter < 0 {
		return fmt.Errorf("cache.prune_after must not be negative")
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if cfg.Watch.RatePerSecond < 0 {
		return fmt.Errorf("watch.rate_per_second must be >= 0")
	}
	if cfg.Watch.RatePerSecond > 0 && cfg.Watch.Burst < 1 {
		return fmt.Errorf("watch.burst must be >= 1 when watch.rate_per_second is set")
	}
	return nil
}

func validateObservability(cfg *Config) error {
	addr := strings.TrimSpace(cfg.Observability.MetricsAddr)
	if addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("observability.metrics_addr %q: %w", addr, err)
	}
	return nil
}
