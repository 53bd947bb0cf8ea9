// Package imagestore manages poster images on disk, keyed by filename.
//
// Filenames are derived from sanitized titles and are global to the store:
// once a poster for a title has been written it is treated as read-only and
// re-downloads for the same filename are skipped.
package imagestore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/avast/retry-go/v4"
)

const (
	// browserUserAgent is sent on poster downloads; the CDN rejects
	// requests without a browser-looking agent.
	browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	downloadAttempts = 3
	downloadDelay    = 2 * time.Second
)

// Store is a directory-backed poster image store.
type Store struct {
	dir    string
	client *http.Client
}

// New creates a Store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &Store{
		dir: dir,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the on-disk path for a stored filename.
func (s *Store) Path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

// Exists reports whether a poster is already stored under filename.
func (s *Store) Exists(filename string) bool {
	_, err := os.Stat(s.Path(filename))
	return err == nil
}

// Resolve opens the stored poster for reading. The caller closes it.
func (s *Store) Resolve(filename string) (io.ReadCloser, error) {
	f, err := os.Open(s.Path(filename))
	if err != nil {
		return nil, fmt.Errorf("poster %s not resolvable: %w", filename, err)
	}
	return f, nil
}

// Save writes poster bytes under filename, replacing any previous content.
func (s *Store) Save(filename string, r io.Reader) error {
	f, err := os.Create(s.Path(filename))
	if err != nil {
		return fmt.Errorf("failed to create poster file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("failed to write poster %s: %w", filename, err)
	}
	return nil
}

// Download fetches a poster from url and stores it under filename. If the
// file already exists the download is skipped. Transient HTTP failures are
// retried with a fixed delay.
func (s *Store) Download(ctx context.Context, url, filename string) error {
	if s.Exists(filename) {
		return nil
	}

	return retry.Do(
		func() error { return s.fetch(ctx, url, filename) },
		retry.Context(ctx),
		retry.Attempts(downloadAttempts),
		retry.Delay(downloadDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
}

func (s *Store) fetch(ctx context.Context, url, filename string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("poster download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("poster download failed: status %d", resp.StatusCode)
	}

	return s.Save(filename, resp.Body)
}

// SanitizeFilename converts a title into a safe poster filename. Letters and
// digits in any script are kept, so CJK titles map to distinct filenames.
func SanitizeFilename(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	name := strings.TrimSpace(b.String())
	if runes := []rune(name); len(runes) > 50 {
		name = strings.TrimSpace(string(runes[:50]))
	}
	if name == "" {
		name = "untitled"
	}
	return name + ".jpg"
}
