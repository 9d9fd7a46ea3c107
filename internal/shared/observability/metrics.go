package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codeshape_parsing_seconds",
		Help:    "Time spent building a syntax tree for a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"dialect"})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codeshape_analysis_seconds",
		Help:    "Time spent analyzing a source text end to end.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language", "path"})

	AnalysisTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codeshape_analysis_total",
		Help: "Total number of analysis calls by language and outcome.",
	}, []string{"language", "outcome"})

	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codeshape_cache_lookups_total",
		Help: "Result cache lookups by tier and result.",
	}, []string{"tier", "result"})

	ScanFilesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codeshape_scan_files_total",
		Help: "Files visited by directory scans by outcome.",
	}, []string{"outcome"})

	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "codeshape_scan_seconds",
		Help:    "Wall time of a directory scan.",
		Buckets: prometheus.DefBuckets,
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codeshape_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)

// Analysis path labels.
const (
	PathTree     = "tree"
	PathFallback = "fallback"
)

// Outcome labels.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)
