package cli

import (
	"context"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/secmon-lab/charforge/pkg/cli/config"
	"github.com/secmon-lab/charforge/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, args []string, version string) error {
	app := newApp(version, os.Stdout)

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %s\n", err.Error())
		return err
	}

	return nil
}

func newApp(version string, w io.Writer) *cli.Command {
	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var storageCfg config.Storage
	var closers []func()

	flags := loggerCfg.Flags()
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)

	return &cli.Command{
		Name:    "charforge",
		Usage:   "Build a Dungeons and Dragons character prompt from selectable attributes",
		Version: version,
		Writer:  w,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closers = append(closers, f)

			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return ctx, err
			}
			closers = append(closers, flush)

			logging.Default().Debug("Starting charforge",
				"logger", loggerCfg,
				"sentry", sentryCfg.LogAttrs(),
				"storage", storageCfg.LogAttrs(),
			)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdField(&storageCfg),
			cmdValue(&storageCfg),
			cmdSelect(&storageCfg),
			cmdRender(&storageCfg),
			cmdGenerate(&storageCfg),
			cmdImport(&storageCfg),
			cmdServe(&storageCfg),
		},
	}
}
