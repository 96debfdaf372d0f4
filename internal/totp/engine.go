// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package totp

import (
	"crypto/subtle"
	"time"

	"github.com/MKhiriev/go-secret-vault/internal/clock"
)

// Engine generates and verifies time-based codes against its clock.
type Engine struct {
	clock clock.Clock
}

// NewEngine constructs an [Engine]. A nil clock falls back to [clock.System].
func NewEngine(c clock.Clock) *Engine {
	if c == nil {
		c = clock.System()
	}
	return &Engine{clock: c}
}

// Now returns the code for the time step containing the engine's current time.
func (e *Engine) Now(secret string, params Params) (string, error) {
	return e.At(secret, params, e.clock.Now())
}

// At returns the code for the time step containing t.
func (e *Engine) At(secret string, params Params, t time.Time) (string, error) {
	key, params, err := prepare(secret, params)
	if err != nil {
		return "", err
	}
	return HOTP(key, uint64(counterAt(t, params.Interval)), params.Digits), nil
}

// Verify reports whether code matches the current time step or any of the
// skew steps on either side of it. Codes are compared in constant time.
// A code of the wrong length or with non-digit characters never matches.
func (e *Engine) Verify(secret, code string, params Params, skew int) (bool, error) {
	if skew < 0 {
		return false, ErrInvalidSkew
	}
	key, params, err := prepare(secret, params)
	if err != nil {
		return false, err
	}
	if !isNumeric(code, params.Digits) {
		return false, nil
	}

	counter := counterAt(e.clock.Now(), params.Interval)
	matched := 0
	for i := -skew; i <= skew; i++ {
		c := counter + int64(i)
		if c < 0 {
			continue
		}
		candidate := HOTP(key, uint64(c), params.Digits)
		matched |= subtle.ConstantTimeCompare([]byte(candidate), []byte(code))
	}

	return matched == 1, nil
}

// Step is the code of one time step together with its timing.
type Step struct {
	Code             string
	SecondsRemaining int
	Progress         float64
	ValidUntil       time.Time
}

// Current returns the step containing the engine's current time. The code
// and its timing come from a single clock reading, so they always describe
// the same step.
func (e *Engine) Current(secret string, params Params) (Step, error) {
	return e.StepAt(secret, params, e.clock.Now())
}

// StepAt returns the step containing t.
func (e *Engine) StepAt(secret string, params Params, t time.Time) (Step, error) {
	code, err := e.At(secret, params, t)
	if err != nil {
		return Step{}, err
	}

	interval := params.WithDefaults().Interval
	remaining := remainingAt(t, interval)
	return Step{
		Code:             code,
		SecondsRemaining: remaining,
		Progress:         float64(remaining) / float64(interval),
		ValidUntil:       t.Truncate(time.Second).Add(time.Duration(remaining) * time.Second),
	}, nil
}

// SecondsRemaining returns how many seconds the current code stays valid:
// interval - (now mod interval). A zero interval means the default.
func (e *Engine) SecondsRemaining(interval int) (int, error) {
	step, err := stepInterval(interval)
	if err != nil {
		return 0, err
	}
	return remainingAt(e.clock.Now(), step), nil
}

// Progress returns the fraction of the current step still remaining, in (0, 1].
func (e *Engine) Progress(interval int) (float64, error) {
	step, err := stepInterval(interval)
	if err != nil {
		return 0, err
	}
	return float64(remainingAt(e.clock.Now(), step)) / float64(step), nil
}

// ValidUntil returns the instant at which the current code expires.
func (e *Engine) ValidUntil(interval int) (time.Time, error) {
	step, err := stepInterval(interval)
	if err != nil {
		return time.Time{}, err
	}
	now := e.clock.Now()
	return now.Truncate(time.Second).Add(time.Duration(remainingAt(now, step)) * time.Second), nil
}

func stepInterval(interval int) (int, error) {
	params := Params{Interval: interval}.WithDefaults()
	if params.Interval <= 0 {
		return 0, ErrInvalidInterval
	}
	return params.Interval, nil
}

func remainingAt(t time.Time, interval int) int {
	step := int64(interval)
	return int(step - mod(t.Unix(), step))
}

func prepare(secret string, params Params) ([]byte, Params, error) {
	if err := params.Validate(); err != nil {
		return nil, params, err
	}
	key, err := DecodeSecret(secret)
	if err != nil {
		return nil, params, err
	}
	return key, params.WithDefaults(), nil
}

func counterAt(t time.Time, interval int) int64 {
	step := int64(interval)
	unix := t.Unix()
	return (unix - mod(unix, step)) / step
}

// mod is a floored modulo so pre-epoch times still land in the right step.
func mod(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func isNumeric(code string, digits int) bool {
	if len(code) != digits {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
