package app

import (
	"context"
	"os"

	"codeshape/internal/core/ports"
	"codeshape/internal/core/watcher"
	"codeshape/internal/shared/observability"
	"codeshape/internal/shared/util"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Watch analyzes changed files under paths until ctx is cancelled, calling
// handler once per debounced batch. Analyses are paced by the configured
// rate limit. Cancellation is the normal way to stop and returns nil.
func (a *App) Watch(ctx context.Context, paths []string, handler func(ports.WatchUpdate)) error {
	if err := requireHandler(handler); err != nil {
		return err
	}
	if len(paths) == 0 {
		paths = []string{"."}
	}

	cfg := a.Config()
	limiter := util.NewLimiter(cfg.Watch.RatePerSecond, cfg.Watch.Burst)

	w, err := watcher.NewWatcher(cfg.Watch.Debounce, cfg.Scan.ExcludeDirs, cfg.Scan.ExcludeFiles, func(changed []string) {
		a.handleChanges(ctx, changed, limiter, handler)
	})
	if err != nil {
		return err
	}
	if err := w.Watch(paths); err != nil {
		_ = w.Close()
		return err
	}

	a.watching.Store(true)
	defer a.watching.Store(false)
	a.logger.Info("watching for changes", "paths", paths, "debounce", cfg.Watch.Debounce)

	<-ctx.Done()
	err = w.Close()
	<-w.Done()
	a.logger.Info("watch stopped")
	return err
}

func (a *App) handleChanges(ctx context.Context, changed []string, limiter *util.Limiter, handler func(ports.WatchUpdate)) {
	ctx, span := observability.Tracer().Start(ctx, "app.HandleChanges",
		trace.WithAttributes(attribute.Int("files", len(changed))))
	defer span.End()

	opts := a.options(ports.AnalyzeRequest{})
	update := ports.WatchUpdate{Results: make([]ports.FileResult, 0, len(changed))}
	for _, path := range changed {
		if err := limiter.Wait(ctx, 1); err != nil {
			return
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			update.Results = append(update.Results, ports.FileResult{Path: path, Removed: true})
			continue
		}
		rec, err := a.analyzeFile(path, opts)
		if err != nil {
			a.logger.Warn("analysis failed", "path", path, "error", err)
		}
		update.Results = append(update.Results, fileResult(path, rec, err))
	}
	handler(update)
}
