package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/fsentity/internal/server"
)

func (a *app) newServeCmd() *cobra.Command {
	var root, port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a directory over HTTP",
		Long: `Serve downloads and listings of a directory tree below /files, with
health and Prometheus metrics endpoints. SIGINT and SIGTERM shut the
server down gracefully.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if root != "" {
				a.cfg.Server.Root = root
			}
			if port != "" {
				a.cfg.Server.Port = port
			}

			srv, err := server.NewServer(a.cfg, a.logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.Run(ctx); err != nil {
				a.logger.Error("Server stopped with error", zap.Error(err))
				return err
			}
			if ctx.Err() == context.Canceled {
				a.logger.Info("Server exited")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "directory to serve (overrides config)")
	cmd.Flags().StringVar(&port, "port", "", "port to listen on (overrides config)")
	return cmd
}
