package config

import (
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultFile is the config file looked up when none is given.
const DefaultFile = "codeshape.toml"

type Config struct {
	Version       int           `toml:"version"`
	Paths         Paths         `toml:"paths"`
	Analysis      Analysis      `toml:"analysis"`
	Output        Output        `toml:"output"`
	Scan          Scan          `toml:"scan"`
	Cache         Cache         `toml:"cache"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
}

type Paths struct {
	ProjectRoot string `toml:"project_root"`
	CacheDir    string `toml:"cache_dir"`
}

type Analysis struct {
	Encoding             string `toml:"encoding"`
	RequireKnownLanguage bool   `toml:"require_known_language"`
	DefaultView          string `toml:"default_view"`
	MaxFileBytes         int64  `toml:"max_file_bytes"`
}

type Output struct {
	Format string `toml:"format"`
	Color  string `toml:"color"` // auto, always, never
}

type Scan struct {
	Workers      int      `toml:"workers"`
	ExcludeDirs  []string `toml:"exclude_dirs"`
	ExcludeFiles []string `toml:"exclude_files"` // glob patterns on the base name
}

type Cache struct {
	Enabled    *bool         `toml:"enabled"`
	Capacity   int           `toml:"capacity"`
	DBPath     string        `toml:"db_path"`     // empty keeps the cache in memory only
	PruneAfter time.Duration `toml:"prune_after"` // disk rows older than this are dropped on open; 0 keeps all
}

type Watch struct {
	Debounce      time.Duration `toml:"debounce"`
	RatePerSecond float64       `toml:"rate_per_second"`
	Burst         int           `toml:"burst"`
}

type Observability struct {
	MetricsAddr   string `toml:"metrics_addr"`
	OTLPEndpoint  string `toml:"otlp_endpoint"`
	ServiceName   string `toml:"service_name"`
	EnableTracing bool   `toml:"enable_tracing"`
}

func (c Cache) IsEnabled() bool {
	if c.Enabled == nil {
		return true
	}
	return *c.Enabled
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to the defaults
// when it does not. An empty path means DefaultFile in the working directory.
func LoadOrDefault(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultFile
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
	}
	return Load(path)
}

func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if strings.TrimSpace(cfg.Paths.CacheDir) == "" {
		cfg.Paths.CacheDir = ".codeshape"
	}

	if strings.TrimSpace(cfg.Analysis.Encoding) == "" {
		cfg.Analysis.Encoding = "utf-8"
	}
	if strings.TrimSpace(cfg.Analysis.DefaultView) == "" {
		cfg.Analysis.DefaultView = "all"
	}
	if cfg.Analysis.MaxFileBytes == 0 {
		cfg.Analysis.MaxFileBytes = 10 << 20
	}

	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = "text"
	}
	if strings.TrimSpace(cfg.Output.Color) == "" {
		cfg.Output.Color = "auto"
	}

	if cfg.Scan.Workers == 0 {
		cfg.Scan.Workers = runtime.NumCPU()
	}
	if cfg.Scan.ExcludeDirs == nil {
		cfg.Scan.ExcludeDirs = []string{".git", "node_modules", "vendor", "dist", "build"}
	}

	if cfg.Cache.Capacity == 0 {
		cfg.Cache.Capacity = 512
	}

	// Default debounce if not set.
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 300 * time.Millisecond
	}
	if cfg.Watch.RatePerSecond == 0 {
		cfg.Watch.RatePerSecond = 20
	}
	if cfg.Watch.Burst == 0 {
		cfg.Watch.Burst = 40
	}

	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = "codeshape"
	}
}
