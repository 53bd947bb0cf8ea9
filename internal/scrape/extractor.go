// Package scrape runs one catalog extraction job to completion, emitting
// progress lines and validated results incrementally into the job record.
package scrape

import (
	"context"

	"github.com/jackzampolin/marquee/internal/jobs"
)

// Extractor turns a date range into catalog results. Implementations must be
// re-entrant per job and must not share mutable state across jobs.
//
// onProgress receives human-readable progress lines that do not correspond to
// a result row. onResult receives each validated result exactly once, in
// discovery order; the caller commits the result and its log line together.
// A returned error means the run is unrecoverable; per-item failures are
// handled inside the extractor and never returned.
type Extractor interface {
	Run(ctx context.Context, startDate, endDate string, onProgress func(string), onResult func(jobs.Result)) error
}
