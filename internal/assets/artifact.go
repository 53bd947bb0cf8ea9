// Package assets runs the derived-asset pipelines that accompany each scrape
// job: an editorial note and a generated title image. Each pipeline performs
// exactly one terminal write to its artifact; artifact failure never touches
// the job's own status.
package assets

import (
	"fmt"
	"sync"
	"time"
)

// State is the lifecycle state of a derived artifact.
type State string

const (
	StatePending State = "pending"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// Artifact is a single derived asset cell. It is owned by its pipeline task
// until the terminal write, after which it is read-only.
type Artifact struct {
	mu        sync.Mutex
	state     State
	payload   string
	diag      string
	updatedAt time.Time
}

// Snapshot is a point-in-time view of an artifact.
type Snapshot struct {
	State     State     `json:"state"`
	Payload   string    `json:"payload,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

func newArtifact() *Artifact {
	return &Artifact{state: StatePending}
}

// complete performs the terminal ready write.
func (a *Artifact) complete(payload string) {
	a.terminal(StateReady, payload, "")
}

// fail performs the terminal failed write with a diagnostic.
func (a *Artifact) fail(diag string) {
	a.terminal(StateFailed, "", diag)
}

func (a *Artifact) terminal(state State, payload, diag string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StatePending {
		panic(fmt.Sprintf("assets: second terminal write (%s after %s)", state, a.state))
	}
	a.state = state
	a.payload = payload
	a.diag = diag
	a.updatedAt = time.Now().UTC()
}

// Snapshot returns the artifact's current state.
func (a *Artifact) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		State:     a.state,
		Payload:   a.payload,
		Error:     a.diag,
		UpdatedAt: a.updatedAt,
	}
}

// JobAssets is the pair of artifacts created for one job at dispatch time.
type JobAssets struct {
	Note       *Artifact
	TitleImage *Artifact
}

// JobSnapshot is a poller's view of a job's artifact pair.
type JobSnapshot struct {
	Note       Snapshot `json:"note"`
	TitleImage Snapshot `json:"title_image"`
}
