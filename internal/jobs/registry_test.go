package jobs

import (
	"errors"
	"testing"
)

func TestRegistry_CreateAndGet(t *testing.T) {
	reg := NewRegistry(nil)

	rec := reg.Create("2026/02/09", "2026/02/15")
	if rec.ID() == "" {
		t.Fatal("Create() returned record with empty ID")
	}

	got, err := reg.Get(rec.ID())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != rec {
		t.Error("Get() returned a different record handle")
	}

	start, end := got.DateRange()
	if start != "2026/02/09" || end != "2026/02/15" {
		t.Errorf("DateRange() = %s, %s", start, end)
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	reg := NewRegistry(nil)

	_, err := reg.Get("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestRegistry_IndependentJobs(t *testing.T) {
	reg := NewRegistry(nil)

	a := reg.Create("2026/02/09", "2026/02/15")
	b := reg.Create("2026/02/09", "2026/02/15")

	if a.ID() == b.ID() {
		t.Fatal("back-to-back creates produced the same job ID")
	}

	a.MarkRunning()
	a.AppendResult(Result{Title: "A"}, "[1] A")

	if snap := b.Snapshot(); snap.Count != 0 || snap.Status != StatusPending {
		t.Errorf("job B observed job A's progress: %+v", snap)
	}
	if reg.Len() != 2 {
		t.Errorf("Len() = %d, want 2", reg.Len())
	}
}
