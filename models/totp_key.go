// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// TotpKey is a freestanding TOTP credential, not bound to any entry.
// Secret is plaintext here and encrypted in the persisted [StoredTotpKey].
type TotpKey struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Issuer   string `json:"issuer,omitempty"`
	Secret   string `json:"secret"`
	Digits   int    `json:"digits"`
	Interval int    `json:"interval"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TotpKeyFields is the input for creating a key. An empty Secret asks the
// vault to generate one.
type TotpKeyFields struct {
	Name     string `json:"name"`
	Issuer   string `json:"issuer"`
	Secret   string `json:"secret"`
	Digits   int    `json:"digits"`
	Interval int    `json:"interval"`
}

// TotpKeyUpdate is a partial update with the same rules as [EntryUpdate].
type TotpKeyUpdate struct {
	Name     *string `json:"name,omitempty"`
	Issuer   *string `json:"issuer,omitempty"`
	Secret   *string `json:"secret,omitempty"`
	Digits   *int    `json:"digits,omitempty"`
	Interval *int    `json:"interval,omitempty"`
}

// IsEmpty reports whether the update carries no field at all.
func (u TotpKeyUpdate) IsEmpty() bool {
	return u.Name == nil && u.Issuer == nil && u.Secret == nil && u.Digits == nil && u.Interval == nil
}

// Apply merges the update onto k and returns the result.
func (u TotpKeyUpdate) Apply(k TotpKey) TotpKey {
	if u.Name != nil {
		k.Name = *u.Name
	}
	if u.Issuer != nil {
		k.Issuer = *u.Issuer
	}
	if u.Secret != nil {
		k.Secret = *u.Secret
	}
	if u.Digits != nil {
		k.Digits = *u.Digits
	}
	if u.Interval != nil {
		k.Interval = *u.Interval
	}
	return k
}

// TotpCode is the current one-time code of a credential together with the
// data a client needs to drive a countdown.
type TotpCode struct {
	Code             string    `json:"code"`
	SecondsRemaining int       `json:"seconds_remaining"`
	Progress         float64   `json:"progress"`
	ValidUntil       time.Time `json:"valid_until"`
}
