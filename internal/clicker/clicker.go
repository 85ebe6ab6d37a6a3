// Package clicker defines the opaque screen-clicking fallback used when the
// ready-check accept endpoint keeps failing. The actual image-recognition
// implementation is platform glue outside this repository; the companion
// only flips the capability on and off for a bounded burst.
package clicker

import "sync/atomic"

// Clicker is the fallback capability contract.
type Clicker interface {
	// Available reports whether a clicking backend exists on this platform.
	Available() bool
	// Activate asks the backend to start clicking the accept button.
	Activate()
	// Deactivate stops the backend.
	Deactivate()
}

// Noop is the cross-platform placeholder backend.
type Noop struct{}

func (Noop) Available() bool { return false }
func (Noop) Activate()       {}
func (Noop) Deactivate()     {}

// Stub is an always-available backend that records activation state, used
// by tests and as a harness for an external clicker process.
type Stub struct {
	active atomic.Bool
}

func (s *Stub) Available() bool { return true }
func (s *Stub) Activate()       { s.active.Store(true) }
func (s *Stub) Deactivate()     { s.active.Store(false) }

// Active reports whether the stub is currently activated.
func (s *Stub) Active() bool { return s.active.Load() }
