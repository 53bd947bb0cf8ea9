package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/marquee/internal/api"
	"github.com/jackzampolin/marquee/internal/assets"
	"github.com/jackzampolin/marquee/internal/svcctx"
)

// NoteRequest is the request body for generating an editorial note.
type NoteRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Count     int    `json:"count"`
	Title     string `json:"title,omitempty"`
	Hashtags  string `json:"hashtags,omitempty"`
}

// NoteResponse carries the generated note text.
type NoteResponse struct {
	Note string `json:"note"`
}

// NoteEndpoint handles POST /api/note. Unlike the dispatcher-triggered
// pipeline this call is synchronous: the caller gets the text back directly.
type NoteEndpoint struct{}

func (e *NoteEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/note", e.handler
}

func (e *NoteEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Generate an editorial note
//	@Description	Generate a social post draft for a date range and item count
//	@Tags			assets
//	@Accept			json
//	@Produce		json
//	@Param			request	body		NoteRequest	true	"Note inputs"
//	@Success		200		{object}	NoteResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Router			/api/note [post]
func (e *NoteEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pipeline := svcctx.NotePipelineFrom(r.Context())
	if pipeline == nil {
		writeError(w, http.StatusServiceUnavailable, "note pipeline not initialized")
		return
	}

	note, err := pipeline.Generate(r.Context(), assets.NoteRequest{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Count:     req.Count,
		Title:     req.Title,
		Hashtags:  req.Hashtags,
	})
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, NoteResponse{Note: note})
}

func (e *NoteEndpoint) Command(getServerURL func() string) *cobra.Command {
	var count int
	var title, hashtags string
	cmd := &cobra.Command{
		Use:   "note <start-date> <end-date>",
		Short: "Generate an editorial note for a date range",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp NoteResponse
			if err := client.Post(cmd.Context(), "/api/note", NoteRequest{
				StartDate: args[0],
				EndDate:   args[1],
				Count:     count,
				Title:     title,
				Hashtags:  hashtags,
			}, &resp); err != nil {
				return err
			}
			fmt.Println(resp.Note)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 0, "Number of titles the note covers")
	cmd.Flags().StringVar(&title, "title", "", "Override the note title line")
	cmd.Flags().StringVar(&hashtags, "hashtags", "", "Override the hashtag set")
	return cmd
}
