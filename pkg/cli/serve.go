package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/charforge/pkg/cli/config"
	httpctrl "github.com/secmon-lab/charforge/pkg/controller/http"
	"github.com/secmon-lab/charforge/pkg/usecase"
	"github.com/secmon-lab/charforge/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe(storageCfg *config.Storage) *cli.Command {
	var addr string
	var accessLog bool
	var captureCfg config.Capture

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       "127.0.0.1:8080",
			Sources:     cli.EnvVars("CHARFORGE_ADDR"),
			Destination: &addr,
		},
		&cli.BoolFlag{
			Name:        "access-log",
			Usage:       "Log every HTTP request",
			Value:       true,
			Sources:     cli.EnvVars("CHARFORGE_ACCESS_LOG"),
			Destination: &accessLog,
		},
	}
	flags = append(flags, captureCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP API server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("Configuration",
				"storage", storageCfg.LogAttrs(),
				"capture", captureCfg.LogAttrs(),
			)

			capturer, err := captureCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure capture")
			}
			var opts []usecase.Option
			if capturer != nil {
				opts = append(opts, usecase.WithCapturer(capturer))
			}

			s, err := openSession(ctx, c, storageCfg, opts...)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(s.uc, httpctrl.WithAccessLog(accessLog)),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logging.Default().Info("Context canceled, shutting down")
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logging.Default().Info("Server shutdown completed")
			return nil
		},
	}
}
