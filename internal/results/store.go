// Package results aggregates finalized result sets of completed jobs.
package results

import (
	"errors"
	"sync"

	"github.com/jackzampolin/marquee/internal/jobs"
)

// ErrNotAvailable is returned when results are requested before any job has
// completed.
var ErrNotAvailable = errors.New("no completed job has produced results yet")

// Store keeps the finalized result set of each completed job, keyed by job
// ID, with a "latest" pointer maintained as a thin projection. Keying by job
// avoids cross-job clobbering when jobs are dispatched concurrently.
type Store struct {
	mu       sync.RWMutex
	byJob    map[string][]jobs.Result
	latestID string
}

// NewStore creates an empty results store.
func NewStore() *Store {
	return &Store{byJob: make(map[string][]jobs.Result)}
}

// Publish records the finalized result set for a completed job and moves the
// latest pointer to it. The worker calls this exactly once, at its terminal
// completed transition.
func (s *Store) Publish(jobID string, results []jobs.Result) {
	final := make([]jobs.Result, len(results))
	copy(final, results)

	s.mu.Lock()
	s.byJob[jobID] = final
	s.latestID = jobID
	s.mu.Unlock()
}

// Latest returns the most recently completed job's results.
func (s *Store) Latest() ([]jobs.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latestID == "" {
		return nil, ErrNotAvailable
	}
	return cloneResults(s.byJob[s.latestID]), nil
}

// ForJob returns the finalized results of a specific job.
func (s *Store) ForJob(jobID string) ([]jobs.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.byJob[jobID]
	if !ok {
		return nil, ErrNotAvailable
	}
	return cloneResults(res), nil
}

// LatestJobID returns the job ID behind the latest view, if any.
func (s *Store) LatestJobID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latestID, s.latestID != ""
}

func cloneResults(in []jobs.Result) []jobs.Result {
	out := make([]jobs.Result, len(in))
	copy(out, in)
	return out
}
