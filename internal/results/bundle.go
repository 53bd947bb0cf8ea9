package results

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"path"

	"github.com/jackzampolin/marquee/internal/imagestore"
	"github.com/jackzampolin/marquee/internal/jobs"
)

// manifestName is the CSV manifest at the root of every export bundle.
const manifestName = "records.csv"

// PosterResolver resolves a stored poster filename to its bytes.
type PosterResolver interface {
	Resolve(filename string) (io.ReadCloser, error)
}

var _ PosterResolver = (*imagestore.Store)(nil)

// WriteBundle streams a zip of the latest result set to w: a CSV manifest
// plus an images/ directory holding every referenced poster. Posters that
// cannot be resolved are skipped rather than failing the export.
func (s *Store) WriteBundle(w io.Writer, posters PosterResolver) error {
	results, err := s.Latest()
	if err != nil {
		return err
	}
	return writeBundle(w, results, posters)
}

func writeBundle(w io.Writer, results []jobs.Result, posters PosterResolver) error {
	zw := zip.NewWriter(w)

	manifest, err := zw.Create(manifestName)
	if err != nil {
		return fmt.Errorf("failed to create manifest entry: %w", err)
	}

	cw := csv.NewWriter(manifest)
	if err := cw.Write([]string{"Title", "Release Date", "Watch URL", "Poster Filename"}); err != nil {
		return fmt.Errorf("failed to write manifest header: %w", err)
	}
	for _, res := range results {
		row := []string{res.Title, res.ReleaseDate, res.WatchURL, res.PosterFilename}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write manifest row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush manifest: %w", err)
	}

	for _, res := range results {
		if res.PosterFilename == "" || res.PosterFilename == "N/A" {
			continue
		}
		if err := copyPoster(zw, posters, res.PosterFilename); err != nil {
			// Missing or unreadable posters don't fail the bundle.
			continue
		}
	}

	return zw.Close()
}

func copyPoster(zw *zip.Writer, posters PosterResolver, filename string) error {
	rc, err := posters.Resolve(filename)
	if err != nil {
		return err
	}
	defer rc.Close()

	entry, err := zw.Create(path.Join("images", filename))
	if err != nil {
		return err
	}
	_, err = io.Copy(entry, rc)
	return err
}
