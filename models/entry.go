// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Category tags what kind of secret an entry holds. The set is open: the
// well-known values below get no special treatment beyond being suggested
// to clients, and any other non-empty tag is stored as given.
type Category string

const (
	CategoryLogin    Category = "login"
	CategoryNote     Category = "note"
	CategoryCard     Category = "card"
	CategoryIdentity Category = "identity"

	DefaultCategory = CategoryLogin
)

// KnownCategories lists the categories clients offer by default.
var KnownCategories = []Category{CategoryLogin, CategoryNote, CategoryCard, CategoryIdentity}

// VaultEntry is a stored credential in its caller-visible form: Password,
// Notes and TotpSecret are always plaintext here and only ever encrypted in
// the persisted [StoredEntry].
type VaultEntry struct {
	// ID is generated on creation and never changes or gets reused.
	ID string `json:"id"`

	Title    string   `json:"title"`
	Username string   `json:"username,omitempty"`
	Password string   `json:"password"`
	URL      string   `json:"url,omitempty"`
	Notes    string   `json:"notes,omitempty"`
	Category Category `json:"category"`

	// TotpSecret is the optional base32 seed bound to this entry.
	TotpSecret   string `json:"totp_secret,omitempty"`
	TotpDigits   int    `json:"totp_digits"`
	TotpInterval int    `json:"totp_interval"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasTotp reports whether a TOTP secret is bound to the entry.
func (e VaultEntry) HasTotp() bool {
	return e.TotpSecret != ""
}

// EntryFields is the input for creating an entry. Title and Password are
// required; zero TOTP parameters mean the defaults.
type EntryFields struct {
	Title        string   `json:"title"`
	Username     string   `json:"username"`
	Password     string   `json:"password"`
	URL          string   `json:"url"`
	Notes        string   `json:"notes"`
	Category     Category `json:"category"`
	TotpSecret   string   `json:"totp_secret"`
	TotpDigits   int      `json:"totp_digits"`
	TotpInterval int      `json:"totp_interval"`
}

// EntryUpdate is a partial update. A nil field keeps the stored value; a
// pointer to "" clears an optional field.
type EntryUpdate struct {
	Title        *string   `json:"title,omitempty"`
	Username     *string   `json:"username,omitempty"`
	Password     *string   `json:"password,omitempty"`
	URL          *string   `json:"url,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
	Category     *Category `json:"category,omitempty"`
	TotpSecret   *string   `json:"totp_secret,omitempty"`
	TotpDigits   *int      `json:"totp_digits,omitempty"`
	TotpInterval *int      `json:"totp_interval,omitempty"`
}

// IsEmpty reports whether the update carries no field at all.
func (u EntryUpdate) IsEmpty() bool {
	return u.Title == nil && u.Username == nil && u.Password == nil && u.URL == nil &&
		u.Notes == nil && u.Category == nil && u.TotpSecret == nil &&
		u.TotpDigits == nil && u.TotpInterval == nil
}

// Apply merges the update onto e and returns the result.
func (u EntryUpdate) Apply(e VaultEntry) VaultEntry {
	if u.Title != nil {
		e.Title = *u.Title
	}
	if u.Username != nil {
		e.Username = *u.Username
	}
	if u.Password != nil {
		e.Password = *u.Password
	}
	if u.URL != nil {
		e.URL = *u.URL
	}
	if u.Notes != nil {
		e.Notes = *u.Notes
	}
	if u.Category != nil {
		e.Category = *u.Category
	}
	if u.TotpSecret != nil {
		e.TotpSecret = *u.TotpSecret
	}
	if u.TotpDigits != nil {
		e.TotpDigits = *u.TotpDigits
	}
	if u.TotpInterval != nil {
		e.TotpInterval = *u.TotpInterval
	}
	return e
}
