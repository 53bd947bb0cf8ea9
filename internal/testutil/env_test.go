package testutil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStartServer_StopAfterDrain(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		done <- nil
		close(done)
	}()

	handle := &StartServer{Cancel: cancel, Done: done}

	// Drain the result first, the way a shutdown assertion would.
	cancel()
	if err := WaitForShutdown(done, 5*time.Second); err != nil {
		t.Fatalf("WaitForShutdown: %v", err)
	}

	// Stop must return promptly even though the result is gone, and must
	// tolerate repeated calls.
	finished := make(chan struct{})
	go func() {
		handle.Stop()
		handle.Stop()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop blocked after Done was drained")
	}
}

func TestWaitForShutdown_Timeout(t *testing.T) {
	done := make(chan error)
	if err := WaitForShutdown(done, 50*time.Millisecond); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestWaitForShutdown_PropagatesError(t *testing.T) {
	done := make(chan error, 1)
	want := errors.New("listen failed")
	done <- want
	if err := WaitForShutdown(done, time.Second); !errors.Is(err, want) {
		t.Fatalf("WaitForShutdown = %v, want %v", err, want)
	}
}

func TestFindFreePort(t *testing.T) {
	port, err := FindFreePort()
	if err != nil {
		t.Fatalf("FindFreePort: %v", err)
	}
	if port <= 0 || port > 65535 {
		t.Errorf("port %d out of range", port)
	}
}
