// Package ports declares the boundaries between the app layer and the
// adapters that drive it (CLI, watch loop) or that it drives (analyzer, cache).
package ports

import (
	"context"
	"time"

	"codeshape/internal/engine/analyzer"
	"codeshape/internal/engine/model"
	"codeshape/internal/engine/parser"
)

// Analyzer turns one source text into a record.
type Analyzer interface {
	Analyze(input string, opts analyzer.Options) (*model.Record, error)
	AnalyzeSource(path, text string) (*model.Record, error)
}

// ParserStatsReporter is implemented by analyzers that pool grammar parsers.
type ParserStatsReporter interface {
	ParserStats() []parser.PoolStats
}

// SourceReader loads and decodes a file.
type SourceReader interface {
	Read(path, encoding string) (string, error)
}

// RecordCache stores records by content key. Get returns a copy reported
// under file.
type RecordCache interface {
	Get(key, file string) (*model.Record, bool)
	Put(key string, rec *model.Record)
	Stats() CacheStats
	Close() error
}

// CacheStats is a snapshot of a RecordCache. Disk fields stay zero when the
// cache keeps no file.
type CacheStats struct {
	Entries     int    `json:"entries" yaml:"entries"`
	Capacity    int    `json:"capacity" yaml:"capacity"`
	DiskEnabled bool   `json:"diskEnabled" yaml:"diskEnabled"`
	DiskEntries int    `json:"diskEntries" yaml:"diskEntries"`
	DiskError   string `json:"diskError,omitempty" yaml:"diskError,omitempty"`
}

// AnalyzeRequest carries the per-call knobs of a single-file or text analysis.
// Zero values fall back to the loaded configuration.
type AnalyzeRequest struct {
	Encoding             string
	RequireKnownLanguage *bool
	View                 model.View
}

// ScanRequest defines a directory scan.
type ScanRequest struct {
	Root    string
	Workers int
	View    model.View
}

// FileResult is the outcome for one file of a scan or watch batch. Exactly
// one of Record and Err is set, unless Removed.
type FileResult struct {
	Path    string        `json:"path" yaml:"path"`
	Record  *model.Record `json:"record,omitempty" yaml:"record,omitempty"`
	Err     error         `json:"-" yaml:"-"`
	Error   string        `json:"error,omitempty" yaml:"error,omitempty"`
	Removed bool          `json:"removed,omitempty" yaml:"removed,omitempty"`
}

// ScanResult summarizes a completed scan. Files are ordered by path.
type ScanResult struct {
	RunID    string        `json:"runId" yaml:"runId"`
	Root     string        `json:"root" yaml:"root"`
	Started  time.Time     `json:"started" yaml:"started"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Analyzed int           `json:"analyzed" yaml:"analyzed"`
	Failed   int           `json:"failed" yaml:"failed"`
	Files    []FileResult  `json:"files" yaml:"files"`
}

// WatchUpdate is emitted once per debounced batch of changes.
type WatchUpdate struct {
	Results []FileResult
}

// AnalysisService is the use-case surface the CLI drives.
type AnalysisService interface {
	AnalyzeFile(ctx context.Context, path string, req AnalyzeRequest) (*model.Record, error)
	AnalyzeText(ctx context.Context, text string, req AnalyzeRequest) (*model.Record, error)
	Scan(ctx context.Context, req ScanRequest) (ScanResult, error)
	Watch(ctx context.Context, paths []string, handler func(WatchUpdate)) error
}
