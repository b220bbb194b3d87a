package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fastygo/dashboard/internal/app"
	"github.com/fastygo/dashboard/internal/config"
	"github.com/fastygo/dashboard/pkg/logger"
)

type options struct {
	apiURL    string
	store     string
	logLevel  string
	ephemeral bool

	app *app.App
}

func newRootCmd() (*cobra.Command, *options) {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "dashboard",
		Short:         "Classroom dashboard client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api-url", "", "backend base URL (overrides API_BASE_URL)")
	flags.StringVar(&opts.store, "store", "", "token store: bolt, file, redis or memory (overrides TOKEN_STORE)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
	flags.BoolVar(&opts.ephemeral, "ephemeral", false, "keep the session in memory only")

	cmd.AddCommand(
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newStatusCmd(opts),
		newOpenCmd(opts),
		newServeCmd(opts),
	)
	return cmd, opts
}

func (o *options) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if o.apiURL != "" {
		cfg.API.BaseURL = o.apiURL
	}
	if o.store != "" {
		cfg.Token.Store = o.store
	}
	if o.ephemeral {
		cfg.Token.Store = config.StoreMemory
	}
	if o.logLevel != "" {
		cfg.Logger.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Output:   cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	o.app = a
	return nil
}

func (o *options) teardown(ctx context.Context) error {
	if o.app == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := o.app.Close(ctx)
	_ = o.app.Logger.Sync()
	if err != nil {
		o.app.Logger.Error("shutdown failed", zap.Error(err))
	}
	return err
}
