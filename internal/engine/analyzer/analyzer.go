// Package analyzer is the entry point of the engine: it classifies source
// text, routes it to the tree extractor or the fallback pattern extractor,
// and returns a normalized record.
package analyzer

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"codeshape/internal/core/errors"
	"codeshape/internal/data/source"
	"codeshape/internal/engine/fallback"
	"codeshape/internal/engine/language"
	"codeshape/internal/engine/model"
	"codeshape/internal/engine/parser"
	"codeshape/internal/shared/observability"
)

// SourceReader loads and decodes a file. Encoding labels are interpreted by
// the reader.
type SourceReader interface {
	Read(path, encoding string) (string, error)
}

// Options controls one Analyze call.
type Options struct {
	Encoding             string
	IsRawText            bool
	RequireKnownLanguage bool
	View                 model.View
}

type Analyzer struct {
	reader    SourceReader
	builder   *parser.Builder
	extractor *parser.Extractor
	logger    *slog.Logger
}

type Option func(*Analyzer)

func WithReader(r SourceReader) Option {
	return func(a *Analyzer) { a.reader = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// New returns an analyzer. Grammars are loaded once here; the analyzer is
// safe for concurrent use.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{extractor: parser.NewExtractor()}
	for _, opt := range opts {
		opt(a)
	}
	if a.reader == nil {
		a.reader = source.NewReader(0)
	}
	a.builder = parser.NewBuilder(nil)
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Analyze treats input as a file path, or as the source itself when
// opts.IsRawText is set. Raw text is classified by content and reported
// under a synthetic name such as "temp.py".
func (a *Analyzer) Analyze(input string, opts Options) (*model.Record, error) {
	var (
		rec *model.Record
		err error
	)
	if opts.IsRawText {
		lang := language.FromContent(input)
		rec, err = a.run(input, language.SyntheticName(lang), lang, language.DialectFor(""))
	} else {
		rec, err = a.analyzePath(input, opts)
	}
	if err != nil {
		return nil, err
	}
	return rec.Filter(opts.View), nil
}

func (a *Analyzer) analyzePath(path string, opts Options) (*model.Record, error) {
	lang := language.FromPath(path)
	if lang == language.Unknown && opts.RequireKnownLanguage {
		de := &errors.DomainError{
			Code:    errors.CodeUnsupportedLanguage,
			Message: fmt.Sprintf("unsupported file type %q", filepath.Ext(path)),
		}
		observability.AnalysisTotal.WithLabelValues(string(lang), observability.OutcomeSkipped).Inc()
		return nil, de.WithContext(errors.CtxPath, path)
	}

	text, err := a.reader.Read(path, opts.Encoding)
	if err != nil {
		a.logger.Debug("read failed", "path", path, "language", lang, "stage", errors.StageRead, "error", err)
		observability.AnalysisTotal.WithLabelValues(string(lang), observability.OutcomeError).Inc()
		return nil, errors.Stage(err, errors.StageRead, path, string(lang))
	}
	return a.run(text, path, lang, language.DialectFor(path))
}

// ParserStats reports the tree builder's parser pool per dialect.
func (a *Analyzer) ParserStats() []parser.PoolStats {
	return a.builder.PoolStats()
}

// AnalyzeSource analyzes text that was already read, classifying it by path.
func (a *Analyzer) AnalyzeSource(path, text string) (*model.Record, error) {
	return a.run(text, path, language.FromPath(path), language.DialectFor(path))
}

func (a *Analyzer) run(text, file string, lang language.Language, dialect language.Dialect) (*model.Record, error) {
	start := time.Now()
	kind := observability.PathFallback
	if language.UsesGrammar(lang) {
		kind = observability.PathTree
	}

	var (
		rec *model.Record
		err error
	)
	if kind == observability.PathTree {
		rec, err = a.extract(text, file, lang, dialect)
	} else {
		a.logger.Debug("routing to fallback extractor", "path", file, "language", lang)
		rec = fallback.Extract(text, lang)
		rec.File = file
	}

	observability.AnalysisDuration.WithLabelValues(string(lang), kind).Observe(time.Since(start).Seconds())
	outcome := observability.OutcomeOK
	if err != nil {
		outcome = observability.OutcomeError
	}
	observability.AnalysisTotal.WithLabelValues(string(lang), outcome).Inc()
	return rec, err
}

func (a *Analyzer) extract(text, file string, lang language.Language, dialect language.Dialect) (*model.Record, error) {
	tree, err := a.builder.Build([]byte(text), file, dialect)
	if err != nil {
		a.logger.Debug("parse failed", "path", file, "language", lang, "stage", errors.StageParse, "error", err)
		return nil, errors.Stage(err, errors.StageParse, file, string(lang))
	}
	defer tree.Close()

	rec, err := a.extractor.Extract(tree, file)
	if err != nil {
		a.logger.Debug("extract failed", "path", file, "language", lang, "stage", errors.StageExtract, "error", err)
		return nil, errors.Stage(err, errors.StageExtract, file, string(lang))
	}
	return rec, nil
}
