// Package app wires configuration, the analyzer, the result cache and the
// file watcher into the use cases the CLI drives.
package app

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"codeshape/internal/core/config"
	"codeshape/internal/core/errors"
	"codeshape/internal/core/ports"
	"codeshape/internal/data/cache"
	"codeshape/internal/data/source"
	"codeshape/internal/engine/analyzer"
	"codeshape/internal/engine/language"
	"codeshape/internal/engine/model"
	"codeshape/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Dependencies lets callers replace the collaborators New would build.
// Nil fields are built from the config.
type Dependencies struct {
	Analyzer ports.Analyzer
	Reader   ports.SourceReader
	Cache    ports.RecordCache
	Logger   *slog.Logger
}

type App struct {
	cfgMu sync.RWMutex
	cfg   *config.Config

	analyzer ports.Analyzer
	reader   ports.SourceReader
	cache    ports.RecordCache
	logger   *slog.Logger

	watching atomic.Bool
}

var _ ports.AnalysisService = (*App)(nil)

func New(cfg *config.Config) (*App, error) {
	return NewWithDependencies(cfg, Dependencies{})
}

func NewWithDependencies(cfg *config.Config, deps Dependencies) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	reader := deps.Reader
	if reader == nil {
		reader = source.NewReader(cfg.Analysis.MaxFileBytes)
	}

	an := deps.Analyzer
	if an == nil {
		an = analyzer.New(analyzer.WithReader(reader), analyzer.WithLogger(logger))
	}

	rc := deps.Cache
	if rc == nil && cfg.Cache.IsEnabled() {
		built, err := buildCache(cfg, logger)
		if err != nil {
			return nil, err
		}
		rc = built
	}

	return &App{
		cfg:      cfg,
		analyzer: an,
		reader:   reader,
		cache:    rc,
		logger:   logger,
	}, nil
}

func buildCache(cfg *config.Config, logger *slog.Logger) (*cache.Cache, error) {
	var store *cache.Store
	if cfg.Cache.DBPath != "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		paths, err := config.ResolvePaths(cfg, cwd)
		if err != nil {
			return nil, err
		}
		store, err = cache.Open(paths.CacheDBPath)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "open result cache")
		}
		logger.Debug("result cache opened", "path", store.Path())
		if age := cfg.Cache.PruneAfter; age > 0 {
			removed, err := store.Prune(time.Now().Add(-age))
			if err != nil {
				logger.Warn("cache prune failed", "path", store.Path(), "error", err)
			} else if removed > 0 {
				logger.Info("pruned stale cache entries", "path", store.Path(), "removed", removed, "older_than", age)
			}
		}
	}
	return cache.New(cfg.Cache.Capacity, store, logger), nil
}

// Config returns the active configuration. It may be swapped by SetConfig
// while a watch is running.
func (a *App) Config() *config.Config {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return a.cfg
}

// SetConfig replaces the configuration used by later calls. Cache and reader
// limits keep the values they were built with.
func (a *App) SetConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	a.cfgMu.Lock()
	a.cfg = cfg
	a.cfgMu.Unlock()
	a.logger.Info("configuration updated")
}

func (a *App) Close() error {
	if a.cache == nil {
		return nil
	}
	return a.cache.Close()
}

func (a *App) options(req ports.AnalyzeRequest) analyzer.Options {
	cfg := a.Config()
	view, err := model.ParseView(cfg.Analysis.DefaultView)
	if err != nil {
		view = model.ViewAll
	}
	opts := analyzer.Options{
		Encoding:             cfg.Analysis.Encoding,
		RequireKnownLanguage: cfg.Analysis.RequireKnownLanguage,
		View:                 view,
	}
	if req.Encoding != "" {
		opts.Encoding = req.Encoding
	}
	if req.RequireKnownLanguage != nil {
		opts.RequireKnownLanguage = *req.RequireKnownLanguage
	}
	if req.View != "" {
		opts.View = req.View
	}
	return opts
}

func (a *App) AnalyzeFile(ctx context.Context, path string, req ports.AnalyzeRequest) (*model.Record, error) {
	ctx, span := observability.Tracer().Start(ctx, "app.AnalyzeFile",
		trace.WithAttributes(attribute.String("path", path)))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, err := a.analyzeFile(path, a.options(req))
	return finishSpan(span, rec, err)
}

func (a *App) AnalyzeText(ctx context.Context, text string, req ports.AnalyzeRequest) (*model.Record, error) {
	ctx, span := observability.Tracer().Start(ctx, "app.AnalyzeText",
		trace.WithAttributes(attribute.Int("bytes", len(text))))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := a.options(req)
	if a.cache == nil {
		opts.IsRawText = true
		rec, err := a.analyzer.Analyze(text, opts)
		return finishSpan(span, rec, err)
	}

	lang := language.FromContent(text)
	key := cache.Key(string(lang), string(language.DialectFor("")), text)
	name := language.SyntheticName(lang)
	if rec, ok := a.cache.Get(key, name); ok {
		a.logger.Debug("cache hit", "path", name, "language", lang)
		return finishSpan(span, rec.Filter(opts.View), nil)
	}

	rec, err := a.analyzer.Analyze(text, analyzer.Options{IsRawText: true})
	if err != nil {
		return finishSpan(span, nil, err)
	}
	a.cache.Put(key, rec)
	return finishSpan(span, rec.Filter(opts.View), nil)
}

// analyzeFile consults the cache by content hash before analyzing. Unknown
// languages bypass it so the analyzer can apply RequireKnownLanguage before
// anything is read.
func (a *App) analyzeFile(path string, opts analyzer.Options) (*model.Record, error) {
	lang := language.FromPath(path)
	if a.cache == nil || lang == language.Unknown {
		return a.analyzer.Analyze(path, opts)
	}

	text, err := a.reader.Read(path, opts.Encoding)
	if err != nil {
		return nil, errors.Stage(err, errors.StageRead, path, string(lang))
	}

	key := cache.Key(string(lang), string(language.DialectFor(path)), text)
	if rec, ok := a.cache.Get(key, path); ok {
		a.logger.Debug("cache hit", "path", path, "language", lang)
		return rec.Filter(opts.View), nil
	}

	rec, err := a.analyzer.AnalyzeSource(path, text)
	if err != nil {
		return nil, err
	}
	a.cache.Put(key, rec)
	return rec.Filter(opts.View), nil
}

func finishSpan(span trace.Span, rec *model.Record, err error) (*model.Record, error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if stage := errors.StageOf(err); stage != "" {
			span.SetAttributes(attribute.String("stage", stage))
		}
		return nil, err
	}
	span.SetAttributes(
		attribute.String("language", rec.Language),
		attribute.Bool("partial", rec.Partial),
	)
	return rec, nil
}

func fileResult(path string, rec *model.Record, err error) ports.FileResult {
	if err != nil {
		return ports.FileResult{Path: path, Err: err, Error: err.Error()}
	}
	return ports.FileResult{Path: path, Record: rec}
}

func requireHandler(handler func(ports.WatchUpdate)) error {
	if handler == nil {
		return errors.New(errors.CodeValidationError, "watch handler is required")
	}
	return nil
}
