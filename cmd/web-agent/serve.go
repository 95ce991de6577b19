package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mpulaparthi/web-agent/pkg/invocation"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve invocations over HTTP",
	Long: `Serve the hosting runtime contract:

  POST /invocations   {"prompt": "..."} -> {"response": "..."} or {"error": "..."}
  GET  /ping          health check
  GET  /metrics       Prometheus metrics

SIGINT or SIGTERM stops accepting requests and waits for in-flight
invocations up to server.shutdown_timeout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		a, err := newApp(ctx, cfg, eventPrinter(cmd.ErrOrStderr(), cfg.Secrets()))
		if err != nil {
			return err
		}
		defer a.Close()

		srv := invocation.NewServer(a.handler,
			invocation.WithAddr(cfg.Server.Addr),
			invocation.WithRequestTimeout(cfg.Server.RequestTimeout),
			invocation.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		)
		if err := srv.Serve(ctx); err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}
