package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/jackzampolin/marquee/internal/imagestore"
	"github.com/jackzampolin/marquee/internal/jobs"
)

const (
	// DefaultCatalogURL is the Netflix new-to-watch catalog page.
	DefaultCatalogURL = "https://about.netflix.com/zh_cn/new-to-watch"

	// dateLayout matches the catalog's date labels, e.g. "2026/2/9".
	dateLayout = "2006/1/2"

	// targetPosterWidth is requested from the image CDN in place of the
	// thumbnail size the catalog page embeds.
	targetPosterWidth = 450

	// outOfRangeBuffer tolerates a few non-sequential items before the
	// extractor decides it has walked past the start of the range.
	outOfRangeBuffer = 3

	catalogAttempts = 3
	catalogDelay    = 5 * time.Second

	browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var (
	watchLinkRe = regexp.MustCompile(`<a[^>]*href="([^"]*/watch/[^"]*)"[^>]*>`)
	ariaLabelRe = regexp.MustCompile(`aria-label="([^"]+)"`)
	dateLabelRe = regexp.MustCompile(`\d{4}/\d{1,2}/\d{1,2}`)
	imgSrcRe    = regexp.MustCompile(`<img[^>]*src="([^"]+)"`)
)

// NetflixExtractor pulls the new-to-watch catalog page and extracts one
// result per title container, downloading each poster into the image store.
type NetflixExtractor struct {
	baseURL string
	client  *http.Client
	posters *imagestore.Store
}

// NewNetflixExtractor creates an extractor that stores posters in store.
// baseURL overrides the catalog page when non-empty.
func NewNetflixExtractor(store *imagestore.Store, baseURL string) *NetflixExtractor {
	if baseURL == "" {
		baseURL = DefaultCatalogURL
	}
	return &NetflixExtractor{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
		posters: store,
	}
}

// item is one raw title container before validation.
type item struct {
	title     string
	dateLabel string
	watchURL  string
	posterURL string
}

// Run fetches the catalog and walks its title containers newest-first,
// emitting one result per in-range title. Items newer than endDate are
// skipped; after a few consecutive items older than startDate the walk stops.
func (e *NetflixExtractor) Run(ctx context.Context, startDate, endDate string, onProgress func(string), onResult func(jobs.Result)) error {
	start, err := parseRangeDate(startDate)
	if err != nil {
		return fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := parseRangeDate(endDate)
	if err != nil {
		return fmt.Errorf("invalid end date %q: %w", endDate, err)
	}

	onProgress(fmt.Sprintf("Opening: %s", e.baseURL))
	page, err := e.fetchCatalog(ctx)
	if err != nil {
		return fmt.Errorf("catalog unreachable: %w", err)
	}

	seen := make(map[string]bool)
	outOfRange := 0

	for _, it := range parseContainers(page) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if it.title == "" || seen[it.title] {
			continue
		}

		if itemDate, ok := parseItemDate(it.dateLabel); ok {
			if end != nil && itemDate.After(*end) {
				continue
			}
			if start != nil && itemDate.Before(*start) {
				onProgress(fmt.Sprintf("Reached item dated %s (older than %s).", it.dateLabel, startDate))
				outOfRange++
				if outOfRange > outOfRangeBuffer {
					break
				}
				continue
			}
		}
		outOfRange = 0

		res, err := e.processItem(ctx, it)
		if err != nil {
			var ierr *ItemError
			if errors.As(err, &ierr) {
				onProgress(fmt.Sprintf("Skipping %s: %v", ierr.Title, ierr.Err))
				continue
			}
			return err
		}

		seen[it.title] = true
		onResult(res)
	}

	return nil
}

// processItem turns one raw container into a validated result, downloading
// its poster. Poster failures degrade the row rather than skipping it, same
// as a missing poster element.
func (e *NetflixExtractor) processItem(ctx context.Context, it item) (jobs.Result, error) {
	if it.watchURL == "" {
		return jobs.Result{}, itemErr(it.title, errors.New("no watch link"))
	}

	posterFilename := "N/A"
	if it.posterURL != "" {
		posterFilename = imagestore.SanitizeFilename(it.title)
		if err := e.posters.Download(ctx, highResURL(it.posterURL), posterFilename); err != nil {
			posterFilename = "N/A"
		}
	}

	dateLabel := it.dateLabel
	if dateLabel == "" {
		dateLabel = "Unknown"
	}

	return jobs.Result{
		Title:          it.title,
		ReleaseDate:    dateLabel,
		WatchURL:       it.watchURL,
		PosterFilename: posterFilename,
	}, nil
}

func (e *NetflixExtractor) fetchCatalog(ctx context.Context) (string, error) {
	var body string
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL, nil)
			if err != nil {
				return err
			}
			req.Header.Set("User-Agent", browserUserAgent)
			resp, err := e.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("catalog fetch: status %d", resp.StatusCode)
			}
			data, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			body = string(data)
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(catalogAttempts),
		retry.Delay(catalogDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	return body, err
}

// parseContainers splits the page at each title container and extracts the
// raw fields from each chunk.
func parseContainers(page string) []item {
	const marker = "TitleContainer"

	var chunks []string
	rest := page
	for {
		idx := strings.Index(rest, marker)
		if idx < 0 {
			break
		}
		rest = rest[idx+len(marker):]
		next := strings.Index(rest, marker)
		if next < 0 {
			chunks = append(chunks, rest)
			break
		}
		chunks = append(chunks, rest[:next])
	}

	items := make([]item, 0, len(chunks))
	for _, chunk := range chunks {
		var it item

		if m := watchLinkRe.FindStringSubmatch(chunk); m != nil {
			it.watchURL = m[1]
			if lbl := ariaLabelRe.FindStringSubmatch(m[0]); lbl != nil {
				it.title = cleanTitle(lbl[1])
			}
		}
		if m := dateLabelRe.FindString(chunk); m != "" {
			it.dateLabel = m
		}
		if m := imgSrcRe.FindStringSubmatch(chunk); m != nil {
			it.posterURL = m[1]
		}

		items = append(items, it)
	}
	return items
}

// cleanTitle strips the accessibility boilerplate and trailing date text the
// catalog embeds in link labels.
func cleanTitle(raw string) string {
	title := strings.ReplaceAll(raw, "在 Netflix 上观看", "")
	title = strings.Trim(title, " ()→")
	if idx := strings.Index(title, "202"); idx >= 0 {
		title = title[:idx]
	}
	return strings.Trim(title, " ()→")
}

// highResURL rewrites a poster thumbnail URL to request the target width,
// dropping any width/height params the page embedded.
func highResURL(url string) string {
	base, params, ok := strings.Cut(url, "?")
	if !ok {
		return fmt.Sprintf("%s?w=%d", url, targetPosterWidth)
	}
	kept := make([]string, 0, 4)
	for _, p := range strings.Split(params, "&") {
		if strings.HasPrefix(p, "w=") || strings.HasPrefix(p, "h=") {
			continue
		}
		kept = append(kept, p)
	}
	kept = append(kept, fmt.Sprintf("w=%d", targetPosterWidth))
	return base + "?" + strings.Join(kept, "&")
}

// parseRangeDate parses a caller-supplied range bound. Empty means unbounded.
func parseRangeDate(label string) (*time.Time, error) {
	if label == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(label))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseItemDate parses a catalog date label, tolerating absent or malformed
// labels.
func parseItemDate(label string) (time.Time, bool) {
	if label == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(label))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
