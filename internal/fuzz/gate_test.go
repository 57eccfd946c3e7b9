package fuzz

import (
	"testing"
	"time"
)

func TestGateBlocksWhilePaused(t *testing.T) {
	g := NewGate()
	g.Pause()

	done := make(chan struct{})
	go func() {
		g.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Wait() returned while paused")
	case <-time.After(50 * time.Millisecond):
	}

	g.Resume()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait() did not return after Resume()")
	}
}

func TestGateToggle(t *testing.T) {
	g := NewGate()
	if g.IsPaused() {
		t.Fatal("new gate should not start paused")
	}
	if !g.Toggle() {
		t.Error("Toggle() should report paused after first call")
	}
	if g.Toggle() {
		t.Error("Toggle() should report running after second call")
	}
}

func TestGatePausedDurationAccumulates(t *testing.T) {
	g := NewGate()
	g.Pause()
	time.Sleep(20 * time.Millisecond)
	g.Resume()
	if g.PausedDuration() <= 0 {
		t.Error("expected accumulated paused duration to be positive")
	}
}
