package scrape

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackzampolin/marquee/internal/jobs"
	"github.com/jackzampolin/marquee/internal/results"
)

// Worker runs one job to a terminal state. It is the record's sole writer;
// every failure inside the run, panics included, is converted into the
// record's failed state and never escapes the goroutine.
type Worker struct {
	rec       *jobs.Record
	extractor Extractor
	results   *results.Store
	logger    *slog.Logger
}

// NewWorker binds a worker to its record.
func NewWorker(rec *jobs.Record, extractor Extractor, store *results.Store, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{rec: rec, extractor: extractor, results: store, logger: logger}
}

// Run executes the job. Safe to call on its own goroutine; it returns only
// after the record has reached a terminal state.
func (w *Worker) Run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("worker panicked", "job_id", w.rec.ID(), "panic", r)
			if !w.rec.Status().Terminal() {
				w.rec.Fail(fmt.Sprintf("worker panicked: %v", r))
			}
		}
	}()

	w.rec.MarkRunning()
	start, end := w.rec.DateRange()
	w.logger.Info("job started", "job_id", w.rec.ID(), "start_date", start, "end_date", end)

	count := 0
	onProgress := func(line string) {
		w.rec.AppendLog(line)
	}
	onResult := func(res jobs.Result) {
		count++
		w.rec.AppendResult(res, fmt.Sprintf("[%d] %s (%s)", count, res.Title, res.ReleaseDate))
	}

	if err := w.extractor.Run(ctx, start, end, onProgress, onResult); err != nil {
		w.logger.Warn("job failed", "job_id", w.rec.ID(), "count", count, "error", err)
		w.rec.Fail(err.Error())
		return
	}

	w.rec.AppendLog(fmt.Sprintf("Scraping Task Finished. Total: %d", count))
	final := w.rec.Complete()
	w.results.Publish(w.rec.ID(), final)
	w.logger.Info("job completed", "job_id", w.rec.ID(), "count", len(final))
}
