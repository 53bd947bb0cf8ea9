package jobs

import (
	"fmt"
	"sync"
	"time"
)

// Status represents the lifecycle state of a scrape job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Result is one extracted catalog title. Results are created by the worker
// in discovery order and never mutated after insertion.
type Result struct {
	Title          string `json:"title"`
	ReleaseDate    string `json:"release_date"`
	WatchURL       string `json:"watch_url"`
	PosterFilename string `json:"poster_filename"`
}

// Record holds the mutable state of one scrape job.
//
// A Record has exactly one writer for its lifetime: the worker goroutine the
// dispatcher spawned for it. Pollers read through Snapshot, which copies the
// log and results under the same lock the writer holds, so a reader can never
// observe a count that disagrees with the results it was committed with.
type Record struct {
	id        string
	startDate string
	endDate   string

	mu          sync.Mutex
	status      Status
	log         []string
	results     []Result
	errMsg      string
	createdAt   time.Time
	startedAt   *time.Time
	completedAt *time.Time
}

// Snapshot is a consistent point-in-time view of a Record.
type Snapshot struct {
	JobID       string     `json:"job_id"`
	StartDate   string     `json:"start_date"`
	EndDate     string     `json:"end_date"`
	Status      Status     `json:"status"`
	Log         []string   `json:"logs"`
	Count       int        `json:"count"`
	Results     []Result   `json:"results,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func newRecord(id, startDate, endDate string) *Record {
	return &Record{
		id:        id,
		startDate: startDate,
		endDate:   endDate,
		status:    StatusPending,
		createdAt: time.Now().UTC(),
	}
}

// ID returns the job's opaque identifier.
func (r *Record) ID() string { return r.id }

// DateRange returns the caller-supplied date labels.
func (r *Record) DateRange() (start, end string) { return r.startDate, r.endDate }

// MarkRunning transitions pending -> running. It is the worker's first action.
func (r *Record) MarkRunning() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureWritable("mark running")
	now := time.Now().UTC()
	r.status = StatusRunning
	r.startedAt = &now
}

// AppendLog appends one progress line. Insertion order is preserved and lines
// are never deduplicated.
func (r *Record) AppendLog(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureWritable("append log")
	r.log = append(r.log, line)
}

// AppendResult commits a validated result together with its log line in a
// single critical section, so count and log length advance atomically from
// any observer's point of view.
func (r *Record) AppendResult(res Result, logLine string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureWritable("append result")
	r.results = append(r.results, res)
	if logLine != "" {
		r.log = append(r.log, logLine)
	}
}

// Complete transitions the record to its completed terminal state and returns
// the finalized result set.
func (r *Record) Complete() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureWritable("complete")
	now := time.Now().UTC()
	r.status = StatusCompleted
	r.completedAt = &now
	final := make([]Result, len(r.results))
	copy(final, r.results)
	return final
}

// Fail records an unrecoverable error and freezes the record. Log lines and
// results accumulated so far are retained.
func (r *Record) Fail(errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureWritable("fail")
	now := time.Now().UTC()
	r.status = StatusFailed
	r.errMsg = errMsg
	r.completedAt = &now
}

// Snapshot returns a copy of the record's current committed state. It never
// blocks on in-flight worker progress beyond the single record lock.
func (r *Record) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	logCopy := make([]string, len(r.log))
	copy(logCopy, r.log)
	resCopy := make([]Result, len(r.results))
	copy(resCopy, r.results)

	return Snapshot{
		JobID:       r.id,
		StartDate:   r.startDate,
		EndDate:     r.endDate,
		Status:      r.status,
		Log:         logCopy,
		Count:       len(resCopy),
		Results:     resCopy,
		Error:       r.errMsg,
		CreatedAt:   r.createdAt,
		StartedAt:   r.startedAt,
		CompletedAt: r.completedAt,
	}
}

// Status returns the current status without copying the full snapshot.
func (r *Record) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// ensureWritable panics on writes after a terminal transition. The single
// writer invariant makes this unreachable in correct code; a panic here means
// a worker kept mutating a job it already finished.
func (r *Record) ensureWritable(op string) {
	if r.status.Terminal() {
		panic(fmt.Sprintf("jobs: %s on terminal record %s (status %s)", op, r.id, r.status))
	}
}
