package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"market-scout/api"
	"market-scout/services"
)

var servePort *string

func init() {
	servePort = serveCmd.Flags().String("port", "", "Port to listen on (defaults to HTTP_PORT).")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--port <port>]",
	Short: "Runs the REST API until interrupted.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		market, err := current.marketService()
		if err != nil {
			return err
		}
		port := *servePort
		if port == "" {
			port = current.cfg.HTTPPort
		}

		handlers := api.NewHandlers(api.Deps{
			Market:      market,
			Events:      current.events,
			Subscribers: current.subscribers,
			Describer:   services.NewDescriber(current.cfg.MaxImagePixels),
			Advisor:     services.NewAdvisor(current.catalog.FAQ),
			Catalog:     current.catalog,
			Defaults:    api.SearchDefaults{Pages: current.cfg.PagesToScrape, Pause: current.cfg.Pause()},
			Logger:      current.logger,
		})
		if current.cfg.AdminCode == "" {
			current.logger.Warn("[serve] ADMIN_CODE is not set, admin routes are disabled")
		}
		server := api.NewServer(port, handlers, current.cfg.AdminCode, current.logger)

		errCh := make(chan error, 1)
		go func() { errCh <- server.Start() }()

		select {
		case err := <-errCh:
			return err
		case <-cmd.Context().Done():
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Stop(ctx); err != nil {
			return err
		}
		return <-errCh
	},
}
