package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: CODESHAPE_[SECTION]_[KEY] (e.g., CODESHAPE_SCAN_WORKERS).
func ApplyEnvOverrides(cfg *Config) {
	// Paths
	setEnvString(&cfg.Paths.ProjectRoot, "CODESHAPE_PATHS_PROJECT_ROOT")
	setEnvString(&cfg.Paths.CacheDir, "CODESHAPE_PATHS_CACHE_DIR")

	// Analysis
	setEnvString(&cfg.Analysis.Encoding, "CODESHAPE_ANALYSIS_ENCODING")
	setEnvBool(&cfg.Analysis.RequireKnownLanguage, "CODESHAPE_ANALYSIS_REQUIRE_KNOWN_LANGUAGE")
	setEnvString(&cfg.Analysis.DefaultView, "CODESHAPE_ANALYSIS_DEFAULT_VIEW")
	setEnvInt64(&cfg.Analysis.MaxFileBytes, "CODESHAPE_ANALYSIS_MAX_FILE_BYTES")

	// Output
	setEnvString(&cfg.Output.Format, "CODESHAPE_OUTPUT_FORMAT")
	setEnvString(&cfg.Output.Color, "CODESHAPE_OUTPUT_COLOR")

	// Scan
	setEnvInt(&cfg.Scan.Workers, "CODESHAPE_SCAN_WORKERS")
	setEnvList(&cfg.Scan.ExcludeDirs, "CODESHAPE_SCAN_EXCLUDE_DIRS")
	setEnvList(&cfg.Scan.ExcludeFiles, "CODESHAPE_SCAN_EXCLUDE_FILES")

	// Cache
	setEnvBoolPtr(&cfg.Cache.Enabled, "CODESHAPE_CACHE_ENABLED")
	setEnvInt(&cfg.Cache.Capacity, "CODESHAPE_CACHE_CAPACITY")
	setEnvString(&cfg.Cache.DBPath, "CODESHAPE_CACHE_DB_PATH")
	setEnvDuration(&cfg.Cache.PruneAfter, "CODESHAPE_CACHE_PRUNE_AFTER")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "CODESHAPE_WATCH_DEBOUNCE")
	setEnvFloat64(&cfg.Watch.RatePerSecond, "CODESHAPE_WATCH_RATE_PER_SECOND")
	setEnvInt(&cfg.Watch.Burst, "CODESHAPE_WATCH_BURST")

	// Observability
	setEnvString(&cfg.Observability.MetricsAddr, "CODESHAPE_OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, "CODESHAPE_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvString(&cfg.Observability.ServiceName, "CODESHAPE_OBSERVABILITY_SERVICE_NAME")
	setEnvBool(&cfg.Observability.EnableTracing, "CODESHAPE_OBSERVABILITY_ENABLE_TRACING")
}

func logOverride(key, val string) {
	slog.Debug("applying env override", "key", key, "value", val)
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		logOverride(key, val)
		*target = val
	}
}

func setEnvList(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		logOverride(key, val)
		var items []string
		for _, item := range strings.Split(val, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		*target = items
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			logOverride(key, val)
			*target = i
		}
	}
}

func setEnvInt64(target *int64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			logOverride(key, val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			logOverride(key, val)
			*target = b
		}
	}
}

func setEnvBoolPtr(target **bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.ToLower(val)); err == nil {
			logOverride(key, val)
			*target = &b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			logOverride(key, val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			logOverride(key, val)
			*target = d
		}
	}
}
