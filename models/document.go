// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"maps"
	"time"
)

// Document is the persisted vault state: one record per user id, loaded and
// saved as a whole by the storage backend. Encrypted fields hold tokens and
// are omitted when absent.
type Document struct {
	Users map[string]*UserRecord `json:"users" yaml:"users"`
}

// UserRecord holds everything one user owns. The three collections are
// independent and never cross-reference each other.
type UserRecord struct {
	// EncryptionKey is the encoded per-user key, or a wrapped key token when
	// KeyWrapped is set.
	EncryptionKey string `json:"encryptionKey" yaml:"encryptionKey"`
	KeyWrapped    bool   `json:"keyWrapped,omitempty" yaml:"keyWrapped,omitempty"`

	Entries  map[string]StoredEntry   `json:"entries" yaml:"entries"`
	TotpKeys map[string]StoredTotpKey `json:"totpKeys" yaml:"totpKeys"`
}

// StoredEntry is the at-rest form of a [VaultEntry].
type StoredEntry struct {
	Title    string `json:"title" yaml:"title"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
	Category string `json:"category" yaml:"category"`

	Password   string `json:"password,omitempty" yaml:"password,omitempty"`
	Notes      string `json:"notes,omitempty" yaml:"notes,omitempty"`
	TotpSecret string `json:"totpSecret,omitempty" yaml:"totpSecret,omitempty"`

	TotpDigits   int `json:"totpDigits" yaml:"totpDigits"`
	TotpInterval int `json:"totpInterval" yaml:"totpInterval"`

	CreatedAt string `json:"createdAt" yaml:"createdAt"`
	UpdatedAt string `json:"updatedAt" yaml:"updatedAt"`
}

// StoredTotpKey is the at-rest form of a [TotpKey].
type StoredTotpKey struct {
	Name   string `json:"name" yaml:"name"`
	Issuer string `json:"issuer,omitempty" yaml:"issuer,omitempty"`
	Secret string `json:"secret" yaml:"secret"`

	Digits   int `json:"digits" yaml:"digits"`
	Interval int `json:"interval" yaml:"interval"`

	CreatedAt string `json:"createdAt" yaml:"createdAt"`
	UpdatedAt string `json:"updatedAt" yaml:"updatedAt"`
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{Users: make(map[string]*UserRecord)}
}

// NewUserRecord returns a record with the given key and empty collections.
func NewUserRecord(encryptionKey string, wrapped bool) *UserRecord {
	return &UserRecord{
		EncryptionKey: encryptionKey,
		KeyWrapped:    wrapped,
		Entries:       make(map[string]StoredEntry),
		TotpKeys:      make(map[string]StoredTotpKey),
	}
}

// User returns the record of userID, if any.
func (d *Document) User(userID string) (*UserRecord, bool) {
	if d == nil || d.Users == nil {
		return nil, false
	}
	u, ok := d.Users[userID]
	return u, ok
}

// Normalize fills nil maps left behind by decoders.
func (d *Document) Normalize() *Document {
	if d.Users == nil {
		d.Users = make(map[string]*UserRecord)
	}
	for id, u := range d.Users {
		if u == nil {
			delete(d.Users, id)
			continue
		}
		if u.Entries == nil {
			u.Entries = make(map[string]StoredEntry)
		}
		if u.TotpKeys == nil {
			u.TotpKeys = make(map[string]StoredTotpKey)
		}
	}
	return d
}

// Clone returns a deep copy, so a caller mutating the copy never affects
// a document held by a backend.
func (d *Document) Clone() *Document {
	out := NewDocument()
	if d == nil {
		return out
	}
	for id, u := range d.Users {
		if u == nil {
			continue
		}
		out.Users[id] = &UserRecord{
			EncryptionKey: u.EncryptionKey,
			KeyWrapped:    u.KeyWrapped,
			Entries:       maps.Clone(u.Entries),
			TotpKeys:      maps.Clone(u.TotpKeys),
		}
	}
	return out.Normalize()
}

// timeLayouts lists accepted timestamp layouts, newest first. The zone-less
// layouts cover documents written by earlier releases.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// FormatTime renders t for storage as RFC 3339 in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTime parses a stored timestamp. Zone-less values are taken as UTC.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
