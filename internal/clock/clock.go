// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package clock supplies the current time to the vault and the TOTP engine.
// Production code uses [System]; tests inject a [Fixed] or [Manual] clock so
// that time-step calculations are deterministic.
package clock

import (
	"sync"
	"time"
)

// Clock is the single source of "now" for every time-dependent operation.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// System returns a [Clock] backed by [time.Now], always in UTC.
func System() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a [Clock] that always reports the same instant.
type Fixed time.Time

// Now implements [Clock].
func (f Fixed) Now() time.Time {
	return time.Time(f)
}

// Unix returns a [Fixed] clock set to the given Unix second.
func Unix(sec int64) Fixed {
	return Fixed(time.Unix(sec, 0).UTC())
}

// Manual is a [Clock] whose time only moves when told to. It is safe for
// concurrent use.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual constructs a [Manual] clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now implements [Clock].
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// Set moves the clock to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}
