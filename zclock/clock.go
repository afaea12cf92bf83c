// Package zclock provides the injectable clock the verification engine
// reads temporal comparisons from, so tests can fix "now" instead of
// racing the system clock.
package zclock

import "time"

// Clock returns the current instant. Implementations must return UTC
// instants; the engine does not perform its own timezone normalization.
type Clock interface {
	Now() time.Time
}

// System is the default Clock, backed by the system wall clock.
func System() Clock { return systemClock{} }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Fixed returns a Clock that always reports t, for deterministic tests.
func Fixed(t time.Time) Clock { return fixedClock{t: t.UTC()} }

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }
