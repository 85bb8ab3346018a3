package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	s := newSpinner("Loading board roadmap")
	s.Start()
	time.Sleep(2 * spinnerTick)
	s.Stop()
}

func TestSpinnerParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Loading board roadmap")
	s.Start()
	cancel()

	time.Sleep(2 * spinnerTick)
	if !s.Cancelled() {
		t.Error("Cancelled() = false after parent context cancellation")
	}
}

func TestSpinnerParentTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), spinnerTick/2)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Rendering svg")
	s.Start()

	time.Sleep(2 * spinnerTick)
	if !s.Cancelled() {
		t.Error("Cancelled() = false after parent context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Loading board roadmap")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopBeforeStart(t *testing.T) {
	s := newSpinner("never started")
	s.Stop() // must not hang waiting for an animation goroutine
}

func TestSpinnerSetMessage(t *testing.T) {
	s := newSpinner("Loading board roadmap")
	s.Start()
	s.SetMessage("Rendering png")
	time.Sleep(2 * spinnerTick)
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.message != "Rendering png" {
		t.Errorf("message = %q, want the swapped-in phase", s.message)
	}
}

func TestSpinnerStopWithOutcome(t *testing.T) {
	s := newSpinner("Exporting")
	s.Start()
	s.StopWithSuccess("Exported roadmap as svg")

	s = newSpinner("Exporting")
	s.Start()
	s.StopWithError("store unavailable")
}
