package fuzz

import (
	"sync"
	"time"
)

// Gate is a cooperative pause/resume barrier for worker goroutines.
// Level-triggered: workers pass through freely while open and block in
// Wait while paused.
type Gate struct {
	mu          sync.Mutex
	cond        *sync.Cond
	paused      bool
	pausedSince time.Time
	totalPaused time.Duration
}

// NewGate returns a Gate in the running (unpaused) state.
func NewGate() *Gate {
	g := &Gate{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Wait blocks the calling goroutine while the gate is paused, and
// returns immediately otherwise.
func (g *Gate) Wait() {
	g.mu.Lock()
	for g.paused {
		g.cond.Wait()
	}
	g.mu.Unlock()
}

// Pause puts the gate into the paused state. A no-op if already paused.
func (g *Gate) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.paused {
		return
	}
	g.paused = true
	g.pausedSince = time.Now()
}

// Resume releases every goroutine blocked in Wait. A no-op if not
// paused.
func (g *Gate) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.paused {
		return
	}
	g.totalPaused += time.Since(g.pausedSince)
	g.paused = false
	g.cond.Broadcast()
}

// Toggle flips between paused and running, returning the new paused
// state.
func (g *Gate) Toggle() bool {
	g.mu.Lock()
	wasPaused := g.paused
	g.mu.Unlock()
	if wasPaused {
		g.Resume()
		return false
	}
	g.Pause()
	return true
}

// IsPaused reports the current pause state.
func (g *Gate) IsPaused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}

// PausedDuration returns the total accumulated pause time, including
// any pause currently in progress.
func (g *Gate) PausedDuration() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	d := g.totalPaused
	if g.paused {
		d += time.Since(g.pausedSince)
	}
	return d
}

// CurrentPauseDuration returns how long the current pause has lasted,
// or 0 if not paused.
func (g *Gate) CurrentPauseDuration() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.paused {
		return 0
	}
	return time.Since(g.pausedSince)
}
