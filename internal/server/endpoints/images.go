package endpoints

import (
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/marquee/internal/imagestore"
	"github.com/jackzampolin/marquee/internal/svcctx"
)

// PosterImageEndpoint serves scraped poster images at GET /images/{filename}.
type PosterImageEndpoint struct{}

func (e *PosterImageEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/images/{filename}", e.handler
}

func (e *PosterImageEndpoint) RequiresInit() bool { return true }

func (e *PosterImageEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	serveImage(w, r, svcctx.PostersFrom(r.Context()))
}

func (e *PosterImageEndpoint) Command(_ func() string) *cobra.Command {
	return nil // No CLI command for raw images
}

// TitlePageImageEndpoint serves generated covers at GET /titlepages/{filename}.
type TitlePageImageEndpoint struct{}

func (e *TitlePageImageEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/titlepages/{filename}", e.handler
}

func (e *TitlePageImageEndpoint) RequiresInit() bool { return true }

func (e *TitlePageImageEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	serveImage(w, r, svcctx.TitlePagesFrom(r.Context()))
}

func (e *TitlePageImageEndpoint) Command(_ func() string) *cobra.Command {
	return nil
}

func serveImage(w http.ResponseWriter, r *http.Request, store *imagestore.Store) {
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "image store not initialized")
		return
	}

	filename := r.PathValue("filename")
	if filename == "" {
		writeError(w, http.StatusBadRequest, "filename is required")
		return
	}

	f, err := store.Resolve(filename)
	if err != nil {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	io.Copy(w, f)
}
