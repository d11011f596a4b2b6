package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"organizer/internal/api"

	"github.com/spf13/cobra"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Serves the JSON API used by the browser client. Listings are cached and
invalidated by a filesystem watcher for as long as the server runs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := openService(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()
		if err := svc.Watch(ctx); err != nil {
			return err
		}

		if listenAddr != "" {
			cfg.Server.ListenAddr = listenAddr
		}
		return api.New(svc, cfg.Server).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (default from config)")
}
