package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackzampolin/marquee/internal/imagestore"
	"github.com/jackzampolin/marquee/internal/jobs"
)

func container(title, date, watchPath, imgSrc string) string {
	var b strings.Builder
	b.WriteString(`<div class="css-x TitleContainer css-y">`)
	if watchPath != "" {
		fmt.Fprintf(&b, `<a href="%s" aria-label="在 Netflix 上观看 %s (%s)"><span>%s</span></a>`, watchPath, title, date, title)
	}
	if date != "" {
		fmt.Fprintf(&b, `<span>%s</span>`, date)
	}
	if imgSrc != "" {
		fmt.Fprintf(&b, `<img src="%s" alt="%s">`, imgSrc, title)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func catalogServer(t *testing.T, html string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/poster/") {
			w.Write([]byte("jpeg-bytes"))
			return
		}
		w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runExtractor(t *testing.T, e *NetflixExtractor, start, end string) ([]string, []jobs.Result, error) {
	t.Helper()
	var lines []string
	var items []jobs.Result
	err := e.Run(context.Background(), start, end,
		func(line string) { lines = append(lines, line) },
		func(res jobs.Result) { items = append(items, res) })
	return lines, items, err
}

func TestNetflixExtractor_Run(t *testing.T) {
	html := strings.Join([]string{
		"<html><body>",
		container("Too New", "2026/2/20", "/watch/0", ""),
		container("First Show", "2026/2/12", "/watch/1", "PLACEHOLDER/poster/1.jpg?u=1&w=100&h=50"),
		container("Second Show", "2026/2/10", "/watch/2", ""),
		container("First Show", "2026/2/12", "/watch/1-dup", ""),
		container("", "2026/2/11", "", ""),
		container("Undated Show", "", "/watch/3", ""),
		"</body></html>",
	}, "\n")

	// The poster URL has to point back at the test server, whose address is
	// only known after it starts.
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/poster/") {
			w.Write([]byte("jpeg-bytes"))
			return
		}
		w.Write([]byte(strings.ReplaceAll(html, "PLACEHOLDER", srv.URL)))
	}))
	t.Cleanup(srv.Close)

	store, err := imagestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("imagestore.New: %v", err)
	}
	e := NewNetflixExtractor(store, srv.URL)

	lines, items, err := runExtractor(t, e, "2026/02/09", "2026/02/15")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	titles := make([]string, len(items))
	for i, it := range items {
		titles[i] = it.Title
	}
	want := []string{"First Show", "Second Show", "Undated Show"}
	if len(titles) != len(want) {
		t.Fatalf("expected results %v, got %v", want, titles)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("expected results %v, got %v", want, titles)
		}
	}

	if items[0].PosterFilename != "First Show.jpg" {
		t.Fatalf("expected sanitized poster filename, got %q", items[0].PosterFilename)
	}
	if !store.Exists("First Show.jpg") {
		t.Fatal("poster should have been downloaded into the store")
	}
	if items[1].PosterFilename != "N/A" {
		t.Fatalf("posterless item should record N/A, got %q", items[1].PosterFilename)
	}
	if items[2].ReleaseDate != "Unknown" {
		t.Fatalf("undated item should record Unknown, got %q", items[2].ReleaseDate)
	}

	if len(lines) == 0 || !strings.Contains(lines[0], "Opening: ") {
		t.Fatalf("first progress line should announce the catalog URL, got %v", lines)
	}
}

func TestNetflixExtractor_StopsPastRangeStart(t *testing.T) {
	parts := []string{"<html><body>"}
	// 5 consecutive items older than the range start exhaust the buffer.
	for i := 0; i < 5; i++ {
		parts = append(parts, container(fmt.Sprintf("Old %d", i), "2026/1/1", fmt.Sprintf("/watch/old-%d", i), ""))
	}
	parts = append(parts, container("Never Reached", "2026/2/12", "/watch/x", ""), "</body></html>")
	srv := catalogServer(t, strings.Join(parts, "\n"))

	store, err := imagestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("imagestore.New: %v", err)
	}
	e := NewNetflixExtractor(store, srv.URL)

	_, items, err := runExtractor(t, e, "2026/02/09", "2026/02/15")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("walk should stop before the in-range item, got %v", items)
	}
}

func TestNetflixExtractor_InvalidRange(t *testing.T) {
	store, err := imagestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("imagestore.New: %v", err)
	}
	e := NewNetflixExtractor(store, "http://127.0.0.1:0")

	if _, _, err := runExtractor(t, e, "not-a-date", ""); err == nil {
		t.Fatal("expected error for unparseable start date")
	}
}

func TestCleanTitle(t *testing.T) {
	cases := map[string]string{
		"在 Netflix 上观看 心动信号 (2026/2/9)": "心动信号",
		"Stranger Things →":              "Stranger Things",
		"  Plain Title  ":                "Plain Title",
	}
	for in, want := range cases {
		if got := cleanTitle(in); got != want {
			t.Errorf("cleanTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHighResURL(t *testing.T) {
	cases := map[string]string{
		"https://cdn/img.jpg":               "https://cdn/img.jpg?w=450",
		"https://cdn/img.jpg?w=100&h=50":    "https://cdn/img.jpg?w=450",
		"https://cdn/img.jpg?fmt=webp&w=80": "https://cdn/img.jpg?fmt=webp&w=450",
	}
	for in, want := range cases {
		if got := highResURL(in); got != want {
			t.Errorf("highResURL(%q) = %q, want %q", in, got, want)
		}
	}
}
