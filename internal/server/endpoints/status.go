package endpoints

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/marquee/internal/api"
	"github.com/jackzampolin/marquee/internal/jobs"
	"github.com/jackzampolin/marquee/internal/svcctx"
)

// JobStatusEndpoint handles GET /api/status/{job_id}.
type JobStatusEndpoint struct{}

func (e *JobStatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/status/{job_id}", e.handler
}

func (e *JobStatusEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Poll job status
//	@Description	Return the latest committed snapshot of a job: status, logs, count, results
//	@Tags			jobs
//	@Produce		json
//	@Param			job_id	path		string	true	"Job ID"
//	@Success		200		{object}	jobs.Snapshot
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/status/{job_id} [get]
func (e *JobStatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("job_id")
	if jobID == "" {
		writeError(w, http.StatusBadRequest, "job_id is required")
		return
	}

	registry := svcctx.JobsFrom(r.Context())
	if registry == nil {
		writeError(w, http.StatusServiceUnavailable, "job registry not initialized")
		return
	}

	rec, err := registry.Get(jobID)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rec.Snapshot())
}

func (e *JobStatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Poll a job's status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var snap jobs.Snapshot
			if err := client.Get(cmd.Context(), "/api/status/"+args[0], &snap); err != nil {
				return err
			}
			return api.Output(snap)
		},
	}
}

// ListJobsEndpoint handles GET /api/jobs.
type ListJobsEndpoint struct{}

func (e *ListJobsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/jobs", e.handler
}

func (e *ListJobsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List jobs
//	@Description	Return snapshots of every job known to this process
//	@Tags			jobs
//	@Produce		json
//	@Success		200	{array}	jobs.Snapshot
//	@Router			/api/jobs [get]
func (e *ListJobsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	registry := svcctx.JobsFrom(r.Context())
	if registry == nil {
		writeError(w, http.StatusServiceUnavailable, "job registry not initialized")
		return
	}
	writeJSON(w, http.StatusOK, registry.List())
}

func (e *ListJobsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List all jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var snaps []jobs.Snapshot
			if err := client.Get(cmd.Context(), "/api/jobs", &snaps); err != nil {
				return err
			}
			return api.Output(snaps)
		},
	}
}
