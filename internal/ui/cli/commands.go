package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	coreapp "codeshape/internal/core/app"
	"codeshape/internal/core/config"
	"codeshape/internal/core/ports"
	"codeshape/internal/engine/language"
	"codeshape/internal/engine/model"
	"codeshape/internal/ui/report"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	text         string
	stdin        bool
	view         string
	format       string
	encoding     string
	requireKnown bool
}

func newAnalyzeCommand(rt *runtime) *cobra.Command {
	var opts analyzeOptions
	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze one file, or source text given with --text or --stdin",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request(cmd)
			if err != nil {
				return err
			}
			format, err := rt.format(opts.format)
			if err != nil {
				return err
			}

			rawText, hasText, err := opts.source(cmd, rt.streams.In)
			if err != nil {
				return err
			}
			switch {
			case hasText && len(args) > 0:
				return usageError{fmt.Errorf("a path cannot be combined with --text or --stdin")}
			case !hasText && len(args) == 0:
				return usageError{fmt.Errorf("a path, --text or --stdin is required")}
			}

			app, err := rt.application(cmd.Context())
			if err != nil {
				return err
			}

			var rec *model.Record
			if hasText {
				rec, err = app.AnalyzeText(cmd.Context(), rawText, req)
			} else {
				rec, err = app.AnalyzeFile(cmd.Context(), args[0], req)
			}
			if err != nil {
				return err
			}
			return report.Render(rt.streams.Out, rec, format, rt.renderOptions())
		},
	}

	cmd.Flags().StringVar(&opts.text, "text", "", "Analyze this source text instead of a file")
	cmd.Flags().BoolVar(&opts.stdin, "stdin", false, "Read source text from standard input")
	cmd.Flags().StringVar(&opts.view, "view", "", "Listing to show: all, functions, classes, variables, dependencies")
	cmd.Flags().StringVar(&opts.format, "format", "", "Output format: text, json, yaml")
	cmd.Flags().StringVar(&opts.encoding, "encoding", "", "Encoding of the file (WHATWG label, e.g. utf-8, windows-1252)")
	cmd.Flags().BoolVar(&opts.requireKnown, "require-known", false, "Fail on files whose extension maps to no known language")
	cmd.MarkFlagsMutuallyExclusive("text", "stdin")
	return cmd
}

func (o analyzeOptions) request(cmd *cobra.Command) (ports.AnalyzeRequest, error) {
	req := ports.AnalyzeRequest{Encoding: o.encoding}
	if o.view != "" {
		view, err := model.ParseView(o.view)
		if err != nil {
			return req, usageError{err}
		}
		req.View = view
	}
	if cmd.Flags().Changed("require-known") {
		req.RequireKnownLanguage = &o.requireKnown
	}
	return req, nil
}

func (o analyzeOptions) source(cmd *cobra.Command, in io.Reader) (string, bool, error) {
	switch {
	case o.stdin:
		data, err := io.ReadAll(in)
		if err != nil {
			return "", false, fmt.Errorf("read stdin: %w", err)
		}
		return string(data), true, nil
	case cmd.Flags().Changed("text"):
		return o.text, true, nil
	}
	return "", false, nil
}

func newScanCommand(rt *runtime) *cobra.Command {
	var (
		workers int
		format  string
		view    string
	)
	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Analyze every source file under a directory",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := rt.format(format)
			if err != nil {
				return err
			}
			req := ports.ScanRequest{Root: ".", Workers: workers}
			if len(args) == 1 {
				req.Root = args[0]
			}
			if view != "" {
				v, err := model.ParseView(view)
				if err != nil {
					return usageError{err}
				}
				req.View = v
			}

			app, err := rt.application(cmd.Context())
			if err != nil {
				return err
			}
			res, err := app.Scan(cmd.Context(), req)
			if err != nil {
				return err
			}
			return report.RenderScan(rt.streams.Out, res, f, rt.renderOptions())
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent analyses (default from config)")
	cmd.Flags().StringVar(&format, "format", "", "Output format: text, json, yaml")
	cmd.Flags().StringVar(&view, "view", "", "Listing kept in each record: all, functions, classes, variables, dependencies")
	return cmd
}

func newWatchCommand(rt *runtime) *cobra.Command {
	var (
		metricsAddr string
		format      string
		ui          bool
	)
	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-analyze files as they change",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := rt.format(format)
			if err != nil {
				return err
			}
			if ui && format != "" && f != report.FormatText {
				return usageError{fmt.Errorf("--ui cannot be combined with --format %s", f)}
			}
			if metricsAddr == "" {
				metricsAddr = rt.cfg.Observability.MetricsAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if ui {
				restore, err := rt.logToFile()
				if err != nil {
					return err
				}
				defer restore()
			}

			app, err := rt.application(ctx)
			if err != nil {
				return err
			}

			if metricsAddr != "" {
				server := NewObservabilityServer(metricsAddr, coreapp.NewHealthService(app))
				if err := server.Start(ctx); err != nil {
					return err
				}
				defer server.Stop(context.Background())
			}

			if rt.cfgPath != "" {
				reloader := config.NewWatcher(rt.cfgPath, app.SetConfig)
				if err := reloader.Start(ctx); err != nil {
					slog.Warn("config hot reload unavailable", "path", rt.cfgPath, "error", err)
				} else {
					defer reloader.Stop()
				}
			}

			if ui {
				return runWatchUI(ctx, rt, app, args, tea.WithAltScreen())
			}
			opts := rt.renderOptions()
			return app.Watch(ctx, args, func(u ports.WatchUpdate) {
				if err := report.RenderUpdate(rt.streams.Out, u, f, opts); err != nil {
					slog.Error("failed to render update", "error", err)
				}
			})
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve /metrics and /health on this address (host:port)")
	cmd.Flags().StringVar(&format, "format", "", "Output format: text, json, yaml")
	cmd.Flags().BoolVar(&ui, "ui", false, "Show the latest results in an interactive terminal table")
	return cmd
}

type languageInfo struct {
	Language   string   `json:"language" yaml:"language"`
	Analysis   string   `json:"analysis" yaml:"analysis"`
	Extensions []string `json:"extensions" yaml:"extensions"`
}

func languageTable() []languageInfo {
	byLang := language.ExtensionsByLanguage()
	out := make([]languageInfo, 0, len(byLang))
	for lang, exts := range byLang {
		analysis := "pattern match"
		if language.UsesGrammar(lang) {
			analysis = "syntax tree"
		}
		out = append(out, languageInfo{Language: string(lang), Analysis: analysis, Extensions: exts})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Language < out[j].Language })
	return out
}

func newLanguagesCommand(rt *runtime) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List recognized languages and their file extensions",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := rt.format(format)
			if err != nil {
				return err
			}
			rows := languageTable()
			if f != report.FormatText {
				return report.Write(rt.streams.Out, rows, f)
			}

			t := table.New().Headers("LANGUAGE", "ANALYSIS", "EXTENSIONS")
			for _, row := range rows {
				t.Row(row.Language, row.Analysis, strings.Join(row.Extensions, " "))
			}
			_, err = fmt.Fprintln(rt.streams.Out, t.Render())
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "Output format: text, json, yaml")
	return cmd
}
