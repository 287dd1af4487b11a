package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/storefront/internal/app"
	"github.com/roach88/storefront/internal/config"
	"github.com/roach88/storefront/internal/persist"
)

// session is one command's view of the hydrated stores.
type session struct {
	ctx context.Context
	app *app.App
	out *OutputFormatter
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, err
	}
	if opts.Database != "" {
		cfg.DBPath = opts.Database
	}
	if opts.Backend != "" {
		cfg.Backend = opts.Backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withSession opens and hydrates the stores, runs fn, then closes the
// gateway. Persistence failures during fn are logged by the stores and
// never change fn's result.
func withSession(cmd *cobra.Command, opts *RootOptions, fn func(s *session) error) error {
	out := newFormatter(cmd, opts)

	cfg, err := loadConfig(opts)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}
	setupLogging(opts.Verbose, cfg.SlogLevel())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := app.Open(ctx, cfg, persist.Options{})
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeStorage, err.Error(), map[string]string{"backend": cfg.Backend})
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			slog.Error("error closing gateway", "error", closeErr)
		}
	}()

	if err := a.Hydrate(ctx); err != nil {
		return WrapExitError(ExitCommandError, "hydrate stores", err)
	}
	out.VerboseLog("backend=%s seed=%t", cfg.Backend, cfg.Seed)
	return fn(&session{ctx: ctx, app: a, out: out})
}

func newFormatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
