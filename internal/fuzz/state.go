// Package fuzz implements the fuzzing scheduler: the concurrent
// worker pool that pulls candidates from a Dictionary, requests each
// one through an httpclient.Client, and reports results through
// callbacks after exclusion filtering and wildcard calibration.
package fuzz

import "sync/atomic"

// State is one point in the Fuzzer lifecycle:
// INIT -> READY -> RUNNING <-> PAUSED -> STOPPING -> DONE.
type State int32

const (
	StateInit State = iota
	StateReady
	StateRunning
	StatePaused
	StateStopping
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopping:
		return "stopping"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

type stateBox struct{ v atomic.Int32 }

func (b *stateBox) Load() State     { return State(b.v.Load()) }
func (b *stateBox) Store(s State)   { b.v.Store(int32(s)) }
func (b *stateBox) CAS(old, new State) bool {
	return b.v.CompareAndSwap(int32(old), int32(new))
}
