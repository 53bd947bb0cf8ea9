package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/marquee/internal/config"
	"github.com/jackzampolin/marquee/internal/home"
	"github.com/jackzampolin/marquee/internal/server"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Marquee server",
	Long: `Start the Marquee HTTP server.

The server dispatches scrape jobs, serves job status and results,
and generates promo notes and cover images via the configured providers.

On first run a default config file is written to the home directory.
The config file is watched; provider changes apply without a restart.

Examples:
  marquee serve                    # Start on default port 8000
  marquee serve --port 3000        # Start on custom port
  marquee serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Set up logger
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		// Get home directory
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		// Seed a default config on first run
		if cfgFile == "" && !h.ConfigExists() {
			if err := config.WriteDefault(h.ConfigPath()); err != nil {
				return err
			}
			logger.Info("wrote default config", "path", h.ConfigPath())
		}

		cfgMgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfgMgr.WatchConfig()

		// Flags override the config file
		host := cfgMgr.Get().Server.Host
		port := cfgMgr.Get().Server.Port
		if cmd.Flags().Changed("host") {
			host = serveHost
		}
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			Home:          h,
			ConfigManager: cfgMgr,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().IntVar(&servePort, "port", 8000, "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
