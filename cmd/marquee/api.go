package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/marquee/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running Marquee server via HTTP.

These commands require a running server (marquee serve).
Use --server to specify a custom server URL.

Examples:
  marquee api scrape 2026/02/09 2026/02/15   # Start a scrape job
  marquee api status <job-id>                # Poll job progress
  marquee api results                        # Show the latest results
  marquee api download                       # Download the zip bundle`,
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8000", "Server URL",
	)

	// Health endpoints
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.StatusEndpoint{}).Command(getServerURL))

	// Job endpoints
	apiCmd.AddCommand((&endpoints.ScrapeEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.JobStatusEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ListJobsEndpoint{}).Command(getServerURL))

	// Results endpoints
	apiCmd.AddCommand((&endpoints.ResultsEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.JobResultsEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.DownloadEndpoint{}).Command(getServerURL))

	// Derived asset endpoints
	apiCmd.AddCommand((&endpoints.NoteEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.TitlePageEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ArtifactsEndpoint{}).Command(getServerURL))

	rootCmd.AddCommand(apiCmd)
}
