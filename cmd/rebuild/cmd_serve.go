package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	intakeadapter "github.com/rebuildintel/rebuild-go/internal/adapters/intake"
	"github.com/rebuildintel/rebuild-go/internal/config"
	httpserver "github.com/rebuildintel/rebuild-go/internal/infrastructure/http"
	"github.com/rebuildintel/rebuild-go/internal/infrastructure/intake"
)

// serveCmd runs the HTTP API and, when configured, the intake watcher.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reuse analysis HTTP service",
	Long: `Starts the HTTP API (process, export, reports, health) and optionally the
drop-directory intake watcher. Stops cleanly on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		process, cleanup, err := buildProcessUseCase(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Intake.Enabled {
			if err := os.MkdirAll(cfg.Intake.Dir, 0755); err != nil {
				return err
			}
			watcher, err := intakeadapter.NewFSNotifyWatcher(nil)
			if err != nil {
				return err
			}
			defer watcher.Stop()

			runner := intake.NewRunner(watcher, intakeadapter.NewMultiLoader(), process, logger)
			go func() {
				if err := runner.Run(ctx, cfg.Intake.Dir); err != nil {
					logger.Error("intake runner stopped", zap.Error(err))
				}
			}()
		}

		server := httpserver.NewServer(process, logger, cfg.Server.Addr)
		if err := server.Start(ctx); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}
