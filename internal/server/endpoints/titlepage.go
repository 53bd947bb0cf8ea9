package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/marquee/internal/api"
	"github.com/jackzampolin/marquee/internal/assets"
	"github.com/jackzampolin/marquee/internal/svcctx"
)

// TitlePageRequest is the request body for generating a cover image.
type TitlePageRequest struct {
	DateRange string `json:"date_range"`
	Caption   string `json:"caption,omitempty"`
}

// TitlePageResponse references the generated image by filename.
type TitlePageResponse struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// TitlePageEndpoint handles POST /api/title. The generated image is stored
// under the titlepages directory and served at /titlepages/{filename}.
type TitlePageEndpoint struct{}

func (e *TitlePageEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/title", e.handler
}

func (e *TitlePageEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Generate a cover image
//	@Description	Generate a title page image for a formatted date range
//	@Tags			assets
//	@Accept			json
//	@Produce		json
//	@Param			request	body		TitlePageRequest	true	"Cover inputs"
//	@Success		200		{object}	TitlePageResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Router			/api/title [post]
func (e *TitlePageEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req TitlePageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DateRange == "" {
		writeError(w, http.StatusBadRequest, "date_range is required")
		return
	}

	pipeline := svcctx.TitleImagePipelineFrom(r.Context())
	if pipeline == nil {
		writeError(w, http.StatusServiceUnavailable, "title image pipeline not initialized")
		return
	}

	filename, err := pipeline.Generate(r.Context(), "title_"+uuid.New().String(), assets.TitleImageRequest{
		DateRange: req.DateRange,
		Caption:   req.Caption,
	})
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, TitlePageResponse{
		Filename: filename,
		URL:      "/titlepages/" + filename,
	})
}

func (e *TitlePageEndpoint) Command(getServerURL func() string) *cobra.Command {
	var caption string
	cmd := &cobra.Command{
		Use:   "title <date-range>",
		Short: "Generate a cover image for a date range label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp TitlePageResponse
			if err := client.Post(cmd.Context(), "/api/title", TitlePageRequest{
				DateRange: args[0],
				Caption:   caption,
			}, &resp); err != nil {
				return err
			}
			fmt.Printf("Generated: %s\n", resp.URL)
			return nil
		},
	}
	cmd.Flags().StringVar(&caption, "caption", "", "Override the cover caption")
	return cmd
}
