package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/marquee/internal/api"
	"github.com/jackzampolin/marquee/internal/svcctx"
)

// ScrapeRequest is the request body for starting a scrape job.
type ScrapeRequest struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// ScrapeResponse is the response for starting a scrape job.
type ScrapeResponse struct {
	JobID string `json:"job_id"`
}

// ScrapeEndpoint handles POST /api/scrape.
type ScrapeEndpoint struct{}

func (e *ScrapeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/scrape", e.handler
}

func (e *ScrapeEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Start a scrape job
//	@Description	Dispatch an asynchronous catalog scrape over a date range
//	@Tags			jobs
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ScrapeRequest	true	"Date range (YYYY/M/D)"
//	@Success		202		{object}	ScrapeResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/scrape [post]
func (e *ScrapeEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.StartDate == "" || req.EndDate == "" {
		writeError(w, http.StatusBadRequest, "start_date and end_date are required")
		return
	}

	dispatcher := svcctx.DispatcherFrom(r.Context())
	if dispatcher == nil {
		writeError(w, http.StatusServiceUnavailable, "dispatcher not initialized")
		return
	}

	jobID := dispatcher.StartJob(req.StartDate, req.EndDate)
	writeJSON(w, http.StatusAccepted, ScrapeResponse{JobID: jobID})
}

func (e *ScrapeEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "scrape [start-date] [end-date]",
		Short: "Start a scrape job over a date range",
		Long: `Start an asynchronous scrape job. Dates use YYYY/M/D.

The command returns immediately with a job ID.
Use 'marquee api status <job-id>' to poll progress.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req ScrapeRequest
			if len(args) > 0 {
				req.StartDate = args[0]
			}
			if len(args) > 1 {
				req.EndDate = args[1]
			}

			client := api.NewClient(getServerURL())
			var resp ScrapeResponse
			if err := client.Post(cmd.Context(), "/api/scrape", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
