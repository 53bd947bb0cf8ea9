package endpoints

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/marquee/internal/api"
	"github.com/jackzampolin/marquee/internal/results"
	"github.com/jackzampolin/marquee/internal/svcctx"
)

const bundleFilename = "netflix_data.zip"

// DownloadEndpoint handles GET /api/download.
type DownloadEndpoint struct{}

func (e *DownloadEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/download", e.handler
}

func (e *DownloadEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Download export bundle
//	@Description	Stream a zip of the latest result manifest plus its poster images
//	@Tags			results
//	@Produce		application/zip
//	@Success		200	{file}		binary
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/download [get]
func (e *DownloadEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.ResultsFrom(r.Context())
	posters := svcctx.PostersFrom(r.Context())
	if store == nil || posters == nil {
		writeError(w, http.StatusServiceUnavailable, "results store not initialized")
		return
	}

	// Probe availability before committing to a 200 with zip headers.
	if _, err := store.Latest(); err != nil {
		if errors.Is(err, results.ErrNotAvailable) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", bundleFilename))

	if err := store.WriteBundle(w, posters); err != nil {
		// Headers are gone; log via the request-scoped logger and give up.
		if logger := svcctx.LoggerFrom(r.Context()); logger != nil {
			logger.Error("bundle write failed", "error", err)
		}
	}
}

func (e *DownloadEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outputFile string
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the latest results as a zip bundle",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			body, err := client.GetRaw(cmd.Context(), "/api/download")
			if err != nil {
				return err
			}
			defer body.Close()

			if outputFile == "" {
				outputFile = bundleFilename
			}
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outputFile, err)
			}
			defer f.Close()

			n, err := io.Copy(f, body)
			if err != nil {
				return fmt.Errorf("failed to write bundle: %w", err)
			}
			fmt.Printf("Wrote %s (%d bytes)\n", outputFile, n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path")
	return cmd
}
