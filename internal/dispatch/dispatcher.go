// Package dispatch is the single entry point for starting jobs. It allocates
// the job record, spawns the worker, and fires the two derived-asset
// pipelines, all without blocking the caller.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackzampolin/marquee/internal/assets"
	"github.com/jackzampolin/marquee/internal/jobs"
	"github.com/jackzampolin/marquee/internal/results"
	"github.com/jackzampolin/marquee/internal/scrape"
)

// Options carries the editorial defaults bound to every dispatched job.
type Options struct {
	NoteTitle    string
	NoteHashtags string
	TitleCaption string
}

// Dispatcher starts jobs and their companion asset pipelines.
type Dispatcher struct {
	jobs      *jobs.Registry
	results   *results.Store
	artifacts *assets.Tracker
	extractor scrape.Extractor
	note      *assets.NotePipeline
	title     *assets.TitleImagePipeline
	opts      Options
	logger    *slog.Logger

	wg sync.WaitGroup
}

// New wires a dispatcher.
func New(reg *jobs.Registry, store *results.Store, tracker *assets.Tracker, extractor scrape.Extractor, note *assets.NotePipeline, title *assets.TitleImagePipeline, opts Options, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		jobs:      reg,
		results:   store,
		artifacts: tracker,
		extractor: extractor,
		note:      note,
		title:     title,
		opts:      opts,
		logger:    logger,
	}
}

// StartJob allocates a fresh job, returns its ID synchronously, and runs the
// worker and both asset pipelines on their own goroutines. The note waits for
// the worker to finish so its prompt carries the final item count; the title
// image needs only the date range and starts immediately. Concurrent calls
// create fully independent jobs.
func (d *Dispatcher) StartJob(startDate, endDate string) string {
	rec := d.jobs.Create(startDate, endDate)
	pair := d.artifacts.Create(rec.ID())
	worker := scrape.NewWorker(rec, d.extractor, d.results, d.logger)

	workerDone := make(chan struct{})
	d.wg.Add(3)
	go func() {
		defer d.wg.Done()
		defer close(workerDone)
		worker.Run(context.Background())
	}()
	go func() {
		defer d.wg.Done()
		<-workerDone
		d.runNote(rec, pair.Note)
	}()
	go func() {
		defer d.wg.Done()
		d.runTitleImage(rec, pair.TitleImage)
	}()

	return rec.ID()
}

// Wait blocks until every background task spawned so far has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) runNote(rec *jobs.Record, art *assets.Artifact) {
	start, end := rec.DateRange()
	d.note.Run(context.Background(), rec.ID(), art, assets.NoteRequest{
		StartDate: start,
		EndDate:   end,
		Count:     rec.Snapshot().Count,
		Title:     d.opts.NoteTitle,
		Hashtags:  d.opts.NoteHashtags,
	})
}

func (d *Dispatcher) runTitleImage(rec *jobs.Record, art *assets.Artifact) {
	start, end := rec.DateRange()
	d.title.Run(context.Background(), rec.ID(), art, assets.TitleImageRequest{
		DateRange: FormatDateRangeLabel(start, end),
		Caption:   d.opts.TitleCaption,
	})
}

// FormatDateRangeLabel renders a range like "2026/02/09".."2026/02/15" as
// "2月9日～2月15日". Unparseable bounds fall back to the raw labels.
func FormatDateRangeLabel(startDate, endDate string) string {
	const layout = "2006/1/2"
	start, errS := time.Parse(layout, startDate)
	end, errE := time.Parse(layout, endDate)
	if errS != nil || errE != nil {
		return fmt.Sprintf("%s～%s", startDate, endDate)
	}
	return fmt.Sprintf("%d月%d日～%d月%d日",
		int(start.Month()), start.Day(), int(end.Month()), end.Day())
}
