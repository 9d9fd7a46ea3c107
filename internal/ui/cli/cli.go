// Package cli is the command-line front end: it loads configuration, builds
// the app and renders results.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const versionString = "1.0.0"

// Streams are the process streams the commands read from and write to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

type globalOptions struct {
	configPath string
	verbose    bool
}

// usageError marks mistakes in how the command was invoked.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// Run executes the command line and returns the process exit code: 0 on
// success, 1 when the command failed, 2 on invalid usage.
func Run(ctx context.Context, args []string, streams Streams) int {
	rt := &runtime{streams: streams}
	root := newRootCommand(rt)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if closeErr := rt.close(ctx); err == nil {
		err = closeErr
	}
	if err == nil {
		return 0
	}
	fmt.Fprintln(streams.Err, "error:", err)

	var ue usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}

func newRootCommand(rt *runtime) *cobra.Command {
	var opts globalOptions
	streams := rt.streams

	root := &cobra.Command{
		Use:   "codeshape",
		Short: "Extract the declaration structure of source files",
		Long: `codeshape lists the functions, classes, variables, imports, exports and
dependency references found in source files. JavaScript and TypeScript get a
full syntax-tree analysis; other languages get a best-effort pattern match.`,
		Version:       versionString,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configureLogging(streams.Err, opts.verbose)
			return rt.load(cmd.Context(), opts.configPath)
		},
	}
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file (default ./"+configFileHint+" when present)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newAnalyzeCommand(rt),
		newScanCommand(rt),
		newWatchCommand(rt),
		newLanguagesCommand(rt),
	)
	return root
}

// usageArgs turns argument-count failures into usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func configureLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
