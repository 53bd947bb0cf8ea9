package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/marquee/internal/api"
	"github.com/jackzampolin/marquee/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "marquee",
	Short: "Netflix catalog scraper with AI-generated promo assets",
	Long: `Marquee scrapes the Netflix new-release catalog over a date range
and turns the results into ready-to-post promo material.

Each scrape job produces:
  - A record per title (name, release date, watch link, poster)
  - A downloadable zip bundle with a CSV manifest and poster images
  - An AI-written recommendation note for the date range
  - An AI-generated cover image for the post`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.marquee/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "marquee home directory (default: ~/.marquee)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
