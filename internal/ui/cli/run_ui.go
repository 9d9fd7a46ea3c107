package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	coreapp "codeshape/internal/core/app"
	"codeshape/internal/core/config"
	"codeshape/internal/core/ports"

	tea "github.com/charmbracelet/bubbletea"
)

const watchLogFile = "watch.log"

// runWatchUI drives app.Watch behind the terminal table until the user quits
// or ctx ends.
func runWatchUI(ctx context.Context, rt *runtime, app *coreapp.App, paths []string, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if len(paths) == 0 {
		paths = []string{"."}
	}
	opts = append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithInput(rt.streams.In),
		tea.WithOutput(rt.streams.Out),
	}, opts...)
	p := tea.NewProgram(newWatchModel(paths), opts...)

	watchErr := make(chan error, 1)
	go func() {
		err := app.Watch(ctx, paths, func(u ports.WatchUpdate) {
			p.Send(updateMsg{results: u.Results, at: time.Now()})
		})
		if err != nil {
			p.Send(watchErrMsg{err: err})
		}
		watchErr <- err
	}()

	_, err := p.Run()
	cancel()
	if werr := <-watchErr; werr != nil {
		return werr
	}
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// logToFile sends slog output to a file under the cache directory while the
// UI owns the terminal. The returned func restores the previous logger.
func (r *runtime) logToFile() (func(), error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	paths, err := config.ResolvePaths(r.cfg, cwd)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(paths.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	logPath := filepath.Join(paths.CacheDir, watchLogFile)
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", logPath, err)
	}

	previous := slog.Default()
	level := slog.LevelInfo
	if previous.Enabled(context.Background(), slog.LevelDebug) {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
	return func() {
		slog.SetDefault(previous)
		_ = f.Close()
	}, nil
}
