package assets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackzampolin/marquee/internal/imagestore"
	"github.com/jackzampolin/marquee/internal/providers"
)

func TestArtifact_TerminalWriteOnce(t *testing.T) {
	art := newArtifact()
	if got := art.Snapshot().State; got != StatePending {
		t.Fatalf("expected pending, got %s", got)
	}

	art.complete("payload")
	snap := art.Snapshot()
	if snap.State != StateReady {
		t.Fatalf("expected ready, got %s", snap.State)
	}
	if snap.Payload != "payload" {
		t.Fatalf("unexpected payload: %q", snap.Payload)
	}
	if snap.UpdatedAt.IsZero() {
		t.Fatal("expected updated_at to be set")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on second terminal write")
		}
	}()
	art.fail("too late")
}

func TestArtifact_FailCarriesDiagnostic(t *testing.T) {
	art := newArtifact()
	art.fail("provider unreachable")
	snap := art.Snapshot()
	if snap.State != StateFailed {
		t.Fatalf("expected failed, got %s", snap.State)
	}
	if snap.Error != "provider unreachable" {
		t.Fatalf("unexpected diagnostic: %q", snap.Error)
	}
	if snap.Payload != "" {
		t.Fatalf("failed artifact should carry no payload, got %q", snap.Payload)
	}
}

func TestTracker_CreateAndGet(t *testing.T) {
	tr := NewTracker()
	pair := tr.Create("job-1")

	snap, err := tr.Get("job-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if snap.Note.State != StatePending || snap.TitleImage.State != StatePending {
		t.Fatalf("expected both artifacts pending, got %+v", snap)
	}

	pair.Note.complete("hello")
	snap, err = tr.Get("job-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if snap.Note.State != StateReady || snap.Note.Payload != "hello" {
		t.Fatalf("note snapshot not updated: %+v", snap.Note)
	}
	if snap.TitleImage.State != StatePending {
		t.Fatalf("title image should be untouched, got %s", snap.TitleImage.State)
	}
}

func TestTracker_GetUnknown(t *testing.T) {
	tr := NewTracker()
	if _, err := tr.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNotePipeline_Run(t *testing.T) {
	mock := &providers.MockTextGenerator{Text: "一段笔记"}
	p := NewNotePipeline(mock, nil)
	art := newArtifact()

	p.Run(context.Background(), "job-1", art, NoteRequest{
		StartDate: "2025-02-09",
		EndDate:   "2025-02-15",
		Count:     7,
	})

	snap := art.Snapshot()
	if snap.State != StateReady {
		t.Fatalf("expected ready, got %s (%s)", snap.State, snap.Error)
	}
	if snap.Payload != "一段笔记" {
		t.Fatalf("payload should be the generated text verbatim, got %q", snap.Payload)
	}
	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected one generation call, got %d", len(calls))
	}
	prompt := calls[0]
	for _, want := range []string{"2025-02-09", "2025-02-15", "7", DefaultNoteTitle, DefaultHashtags} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestNotePipeline_RunFailure(t *testing.T) {
	mock := &providers.MockTextGenerator{Err: errors.New("rate limited")}
	p := NewNotePipeline(mock, nil)
	art := newArtifact()

	p.Run(context.Background(), "job-1", art, NoteRequest{Count: 3})

	snap := art.Snapshot()
	if snap.State != StateFailed {
		t.Fatalf("expected failed, got %s", snap.State)
	}
	if !strings.Contains(snap.Error, "rate limited") {
		t.Fatalf("diagnostic should name the cause, got %q", snap.Error)
	}
}

func TestNotePipeline_NoGenerator(t *testing.T) {
	p := NewNotePipeline(nil, nil)
	art := newArtifact()
	p.Run(context.Background(), "job-1", art, NoteRequest{})
	if got := art.Snapshot().State; got != StateFailed {
		t.Fatalf("expected failed without generator, got %s", got)
	}
}

func TestTitleImagePipeline_Run(t *testing.T) {
	dir := t.TempDir()
	store, err := imagestore.New(dir)
	if err != nil {
		t.Fatalf("imagestore.New: %v", err)
	}
	mock := &providers.MockImageGenerator{Image: []byte("fake-jpeg-bytes")}
	p := NewTitleImagePipeline(mock, store, nil)
	art := newArtifact()

	p.Run(context.Background(), "job-1", art, TitleImageRequest{DateRange: "2月9日～2月15日"})

	snap := art.Snapshot()
	if snap.State != StateReady {
		t.Fatalf("expected ready, got %s (%s)", snap.State, snap.Error)
	}
	if snap.Payload != "title_job-1.jpg" {
		t.Fatalf("unexpected payload filename: %q", snap.Payload)
	}
	data, err := os.ReadFile(filepath.Join(dir, snap.Payload))
	if err != nil {
		t.Fatalf("stored image unreadable: %v", err)
	}
	if string(data) != "fake-jpeg-bytes" {
		t.Fatal("stored image bytes do not match generated bytes")
	}
	calls := mock.Calls()
	if len(calls) != 1 || !strings.Contains(calls[0], "2月9日～2月15日") {
		t.Fatalf("prompt should carry the date range label, got %v", calls)
	}
	if !strings.Contains(calls[0], DefaultCaption) {
		t.Fatalf("prompt should carry the fixed caption, got %q", calls[0])
	}
}

func TestTitleImagePipeline_RunFailure(t *testing.T) {
	store, err := imagestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("imagestore.New: %v", err)
	}
	mock := &providers.MockImageGenerator{Err: errors.New("content policy")}
	p := NewTitleImagePipeline(mock, store, nil)
	art := newArtifact()

	p.Run(context.Background(), "job-1", art, TitleImageRequest{})

	snap := art.Snapshot()
	if snap.State != StateFailed {
		t.Fatalf("expected failed, got %s", snap.State)
	}
	if !strings.Contains(snap.Error, "content policy") {
		t.Fatalf("diagnostic should name the cause, got %q", snap.Error)
	}
}
