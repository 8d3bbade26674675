package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/selfcare/internal/catalog"
	"github.com/roach88/selfcare/internal/config"
	"github.com/roach88/selfcare/internal/logging"
	"github.com/roach88/selfcare/internal/model"
	"github.com/roach88/selfcare/internal/profile"
	"github.com/roach88/selfcare/internal/store"
)

// App is the wired stack a command runs against.
type App struct {
	Config  config.Config
	Logger  *zap.Logger
	Catalog *catalog.Catalog
	Store   store.Backend
	Manager *profile.Manager
	Out     *OutputFormatter

	closeLog func() error
}

// openApp loads configuration and opens storage. The caller must Close
// the returned App.
func (o *RootOptions) openApp(cmd *cobra.Command) (*App, error) {
	out := o.formatter(cmd)

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.Driver != "" {
		cfg.Storage.Driver = o.Driver
	}
	if o.DBPath != "" {
		cfg.Storage.Path = o.DBPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid config", err)
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		File:    cfg.Logging.File,
		Verbose: o.Verbose,
		Output:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to set up logging", err)
	}

	cat, err := catalog.Load()
	if err != nil {
		closeLog()
		return nil, WrapExitError(ExitCommandError, "failed to load catalog", err)
	}
	logger.Debug("catalog loaded",
		zap.Int("questionnaires", len(cat.Questionnaires())),
		zap.Int("techniques", len(cat.Techniques())),
	)

	backend, err := store.Open(commandContext(cmd), cfg.StoreOptions())
	if err != nil {
		closeLog()
		return nil, WrapExitError(ExitCommandError, "failed to open storage", err)
	}
	logger.Debug("storage opened", zap.String("driver", cfg.Storage.Driver))

	mgrOpts := []profile.Option{profile.WithLogger(logger)}
	if cfg.Persistence.WriteFailure == config.WriteFailureWarn {
		mgrOpts = append(mgrOpts, profile.WithWriteFailureHandler(func(key string, err error) {
			out.Warn("could not save %s: %v", key, err)
		}))
	}

	return &App{
		Config:   cfg,
		Logger:   logger,
		Catalog:  cat,
		Store:    backend,
		Manager:  profile.NewManager(backend, cat, mgrOpts...),
		Out:      out,
		closeLog: closeLog,
	}, nil
}

// Close releases storage and flushes logs.
func (a *App) Close() error {
	err := a.Store.Close()
	if a.closeLog != nil {
		err = errors.Join(err, a.closeLog())
	}
	return err
}

// Session restores the logged-in user's session.
func (a *App) Session(ctx context.Context) (*profile.Session, error) {
	sess, err := a.Manager.Resume(ctx)
	if model.HasCode(err, model.CodeNoSession) {
		return nil, model.NewValidationError(model.CodeNoSession, "not logged in: run 'selfcare login' or 'selfcare register'")
	}
	return sess, err
}

// withApp opens the App, runs fn and closes the App. Domain errors from fn
// are reported through the formatter.
func (o *RootOptions) withApp(cmd *cobra.Command, fn func(ctx context.Context, app *App) error) (err error) {
	app, err := o.openApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil && err == nil {
			err = WrapExitError(ExitCommandError, "failed to close storage", cerr)
		}
	}()

	if err := fn(commandContext(cmd), app); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return err
		}
		return app.Out.Fail(err)
	}
	return nil
}

// withSession is withApp for commands that need a logged-in user.
func (o *RootOptions) withSession(cmd *cobra.Command, fn func(ctx context.Context, app *App, sess *profile.Session) error) error {
	return o.withApp(cmd, func(ctx context.Context, app *App) error {
		sess, err := app.Session(ctx)
		if err != nil {
			return err
		}
		return fn(ctx, app, sess)
	})
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
