package jobs

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a job ID is unknown to the registry.
var ErrNotFound = errors.New("job not found")

// Registry is the process-scoped table of job records. It owns job identity
// allocation; record mutation stays with each record's worker.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*Record
	logger  *slog.Logger
}

// NewRegistry creates an empty job registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		records: make(map[string]*Record),
		logger:  logger,
	}
}

// Create allocates a fresh pending record with a new job ID. Concurrent calls
// produce fully independent jobs; overlapping date ranges are not deduplicated.
func (g *Registry) Create(startDate, endDate string) *Record {
	rec := newRecord(uuid.New().String(), startDate, endDate)

	g.mu.Lock()
	g.records[rec.ID()] = rec
	g.mu.Unlock()

	g.logger.Info("job created", "job_id", rec.ID(), "start", startDate, "end", endDate)
	return rec
}

// Get returns the record for a job ID, or ErrNotFound.
func (g *Registry) Get(jobID string) (*Record, error) {
	g.mu.RLock()
	rec, ok := g.records[jobID]
	g.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

// List returns snapshots of all known jobs, most useful for the CLI.
func (g *Registry) List() []Snapshot {
	g.mu.RLock()
	records := make([]*Record, 0, len(g.records))
	for _, rec := range g.records {
		records = append(records, rec)
	}
	g.mu.RUnlock()

	snaps := make([]Snapshot, 0, len(records))
	for _, rec := range records {
		snaps = append(snaps, rec.Snapshot())
	}
	return snaps
}

// Len returns the number of known jobs.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.records)
}
