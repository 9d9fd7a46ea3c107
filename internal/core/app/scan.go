package app

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"codeshape/internal/core/errors"
	"codeshape/internal/core/ports"
	"codeshape/internal/engine/language"
	"codeshape/internal/shared/observability"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Scan analyzes every file under req.Root whose language is known, using at
// most req.Workers concurrent analyses. Per-file failures are reported in the
// result; only cancellation and walk errors fail the scan.
func (a *App) Scan(ctx context.Context, req ports.ScanRequest) (ports.ScanResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "app.Scan",
		trace.WithAttributes(attribute.String("root", req.Root)))
	defer span.End()

	cfg := a.Config()
	root := req.Root
	if root == "" {
		root = "."
	}

	info, err := os.Stat(root)
	if err != nil {
		return ports.ScanResult{}, failSpan(span, errors.AddContext(
			errors.Wrap(err, errors.CodeNotFound, "scan root not found"), errors.CtxPath, root))
	}
	if !info.IsDir() {
		return ports.ScanResult{}, failSpan(span, errors.AddContext(
			errors.New(errors.CodeValidationError, "scan root must be a directory"), errors.CtxPath, root))
	}

	files, err := CollectFiles(root, cfg.Scan.ExcludeDirs, cfg.Scan.ExcludeFiles)
	if err != nil {
		return ports.ScanResult{}, failSpan(span, errors.AddContext(err, errors.CtxOperation, "collect_files"))
	}

	workers := req.Workers
	if workers < 1 {
		workers = cfg.Scan.Workers
	}
	if workers < 1 {
		workers = 1
	}

	result := ports.ScanResult{
		RunID:   uuid.NewString(),
		Root:    root,
		Started: time.Now().UTC(),
		Files:   make([]ports.FileResult, len(files)),
	}
	span.SetAttributes(
		attribute.String("run_id", result.RunID),
		attribute.Int("files", len(files)),
		attribute.Int("workers", workers),
	)

	opts := a.options(ports.AnalyzeRequest{View: req.View})
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := a.analyzeFile(path, opts)
			result.Files[i] = fileResult(path, rec, err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ports.ScanResult{}, failSpan(span, err)
	}

	for _, fr := range result.Files {
		if fr.Err != nil {
			result.Failed++
			observability.ScanFilesTotal.WithLabelValues(observability.OutcomeError).Inc()
			a.logger.Debug("file analysis failed", "path", fr.Path, "error", fr.Err)
			continue
		}
		result.Analyzed++
		observability.ScanFilesTotal.WithLabelValues(observability.OutcomeOK).Inc()
	}

	result.Duration = time.Since(result.Started)
	observability.ScanDuration.Observe(result.Duration.Seconds())
	a.logger.Info("scan complete",
		"run_id", result.RunID,
		"root", root,
		"analyzed", result.Analyzed,
		"failed", result.Failed,
		"duration", result.Duration,
	)
	return result, nil
}

// CollectFiles walks root and returns the sorted paths of files with a known
// language, skipping directories and base names matched by the globs.
func CollectFiles(root string, excludeDirs, excludeFiles []string) ([]string, error) {
	dirGlobs, err := compileGlobs(excludeDirs, "exclude dir")
	if err != nil {
		return nil, err
	}
	fileGlobs, err := compileGlobs(excludeFiles, "exclude file")
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		base := filepath.Base(path)
		if d.IsDir() {
			if path != root && matchAny(dirGlobs, base) {
				return filepath.SkipDir
			}
			return nil
		}

		if language.FromPath(path) == language.Unknown || matchAny(fileGlobs, base) {
			observability.ScanFilesTotal.WithLabelValues(observability.OutcomeSkipped).Inc()
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func compileGlobs(patterns []string, label string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, "invalid "+label+" pattern "+p)
		}
		out = append(out, g)
	}
	return out, nil
}

func matchAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
