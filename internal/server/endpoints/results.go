package endpoints

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/marquee/internal/api"
	"github.com/jackzampolin/marquee/internal/jobs"
	"github.com/jackzampolin/marquee/internal/results"
	"github.com/jackzampolin/marquee/internal/svcctx"
)

// ResultsEndpoint handles GET /api/results.
type ResultsEndpoint struct{}

func (e *ResultsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/results", e.handler
}

func (e *ResultsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Latest results
//	@Description	Return the most recently completed job's finalized result set.
//	@Description	Returns an empty list when no job has completed yet.
//	@Tags			results
//	@Produce		json
//	@Success		200	{array}	jobs.Result
//	@Router			/api/results [get]
func (e *ResultsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.ResultsFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "results store not initialized")
		return
	}

	latest, err := store.Latest()
	if err != nil {
		if errors.Is(err, results.ErrNotAvailable) {
			writeJSON(w, http.StatusOK, []jobs.Result{})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, latest)
}

func (e *ResultsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "results",
		Short: "Show the latest completed job's results",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var res []jobs.Result
			if err := client.Get(cmd.Context(), "/api/results", &res); err != nil {
				return err
			}
			return api.Output(res)
		},
	}
}

// JobResultsEndpoint handles GET /api/results/{job_id}.
type JobResultsEndpoint struct{}

func (e *JobResultsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/results/{job_id}", e.handler
}

func (e *JobResultsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Results for one job
//	@Description	Return the finalized result set of a specific completed job
//	@Tags			results
//	@Produce		json
//	@Param			job_id	path	string	true	"Job ID"
//	@Success		200		{array}	jobs.Result
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/results/{job_id} [get]
func (e *JobResultsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("job_id")
	if jobID == "" {
		writeError(w, http.StatusBadRequest, "job_id is required")
		return
	}

	store := svcctx.ResultsFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "results store not initialized")
		return
	}

	res, err := store.ForJob(jobID)
	if err != nil {
		if errors.Is(err, results.ErrNotAvailable) {
			writeError(w, http.StatusNotFound, "no finalized results for job")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (e *JobResultsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "job-results <job-id>",
		Short: "Show a specific job's finalized results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var res []jobs.Result
			if err := client.Get(cmd.Context(), "/api/results/"+args[0], &res); err != nil {
				return err
			}
			return api.Output(res)
		},
	}
}
