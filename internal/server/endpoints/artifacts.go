package endpoints

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/marquee/internal/api"
	"github.com/jackzampolin/marquee/internal/assets"
	"github.com/jackzampolin/marquee/internal/svcctx"
)

// ArtifactsEndpoint handles GET /api/artifacts/{job_id}.
type ArtifactsEndpoint struct{}

func (e *ArtifactsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/artifacts/{job_id}", e.handler
}

func (e *ArtifactsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Poll derived artifacts
//	@Description	Return the note and title image artifact states for a job
//	@Tags			assets
//	@Produce		json
//	@Param			job_id	path		string	true	"Job ID"
//	@Success		200		{object}	assets.JobSnapshot
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/artifacts/{job_id} [get]
func (e *ArtifactsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("job_id")
	if jobID == "" {
		writeError(w, http.StatusBadRequest, "job_id is required")
		return
	}

	tracker := svcctx.ArtifactsFrom(r.Context())
	if tracker == nil {
		writeError(w, http.StatusServiceUnavailable, "artifact tracker not initialized")
		return
	}

	snap, err := tracker.Get(jobID)
	if err != nil {
		if errors.Is(err, assets.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no artifacts for job")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

func (e *ArtifactsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "artifacts <job-id>",
		Short: "Show a job's note and cover image artifact states",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var snap assets.JobSnapshot
			if err := client.Get(cmd.Context(), "/api/artifacts/"+args[0], &snap); err != nil {
				return err
			}
			return api.Output(snap)
		},
	}
}
