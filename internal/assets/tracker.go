package assets

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when no artifacts exist for a job ID.
var ErrNotFound = errors.New("no artifacts for job")

// Tracker keeps each job's artifact pair, created when the job is dispatched.
type Tracker struct {
	mu    sync.RWMutex
	byJob map[string]*JobAssets
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{byJob: make(map[string]*JobAssets)}
}

// Create allocates the pending artifact pair for a job.
func (t *Tracker) Create(jobID string) *JobAssets {
	pair := &JobAssets{
		Note:       newArtifact(),
		TitleImage: newArtifact(),
	}
	t.mu.Lock()
	t.byJob[jobID] = pair
	t.mu.Unlock()
	return pair
}

// Get returns a snapshot of a job's artifact pair.
func (t *Tracker) Get(jobID string) (JobSnapshot, error) {
	t.mu.RLock()
	pair, ok := t.byJob[jobID]
	t.mu.RUnlock()
	if !ok {
		return JobSnapshot{}, ErrNotFound
	}
	return JobSnapshot{
		Note:       pair.Note.Snapshot(),
		TitleImage: pair.TitleImage.Snapshot(),
	}, nil
}
