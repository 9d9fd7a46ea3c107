package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	coreapp "codeshape/internal/core/app"
	"codeshape/internal/core/config"
	"codeshape/internal/shared/observability"
	"codeshape/internal/ui/report"

	"github.com/mattn/go-isatty"
)

const configFileHint = config.DefaultFile

// runtime holds what PersistentPreRunE loaded for the subcommand.
type runtime struct {
	streams Streams
	cfg     *config.Config
	cfgPath string // empty when running on defaults

	app             *coreapp.App
	shutdownTracing func(context.Context) error
}

func (r *runtime) load(_ context.Context, path string) error {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	config.ApplyEnvOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	r.cfg = cfg
	r.cfgPath = path
	if path == "" {
		if _, err := os.Stat(config.DefaultFile); err == nil {
			r.cfgPath = config.DefaultFile
		}
	}
	return nil
}

// application builds the app on first use so commands that never analyze
// anything do not open the cache or start tracing.
func (r *runtime) application(ctx context.Context) (*coreapp.App, error) {
	if r.app != nil {
		return r.app, nil
	}
	if r.cfg == nil {
		return nil, errors.New("configuration not loaded")
	}

	if r.cfg.Observability.EnableTracing {
		shutdown, err := observability.InitTracing(ctx, r.cfg.Observability.OTLPEndpoint, r.cfg.Observability.ServiceName)
		if err != nil {
			return nil, err
		}
		r.shutdownTracing = shutdown
	}

	app, err := coreapp.New(r.cfg)
	if err != nil {
		return nil, err
	}
	r.app = app
	return app, nil
}

func (r *runtime) close(ctx context.Context) error {
	var errs []error
	if r.app != nil {
		errs = append(errs, r.app.Close())
		r.app = nil
	}
	if r.shutdownTracing != nil {
		errs = append(errs, r.shutdownTracing(ctx))
		r.shutdownTracing = nil
	}
	return errors.Join(errs...)
}

func (r *runtime) format(flag string) (report.Format, error) {
	value := flag
	if value == "" {
		value = r.cfg.Output.Format
	}
	f, err := report.ParseFormat(value)
	if err != nil {
		return "", usageError{err}
	}
	return f, nil
}

func (r *runtime) renderOptions() report.RenderOptions {
	return report.RenderOptions{Color: colorEnabled(r.cfg.Output.Color, r.streams.Out)}
}

// colorEnabled resolves the auto mode by checking whether out is a terminal.
func colorEnabled(mode string, out any) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
