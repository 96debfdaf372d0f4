package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_CloneIsDeep(t *testing.T) {
	doc := NewDocument()
	doc.Users["alice"] = NewUserRecord("key", false)
	doc.Users["alice"].Entries["e1"] = StoredEntry{Title: "mail"}

	clone := doc.Clone()
	clone.Users["alice"].Entries["e1"] = StoredEntry{Title: "changed"}
	clone.Users["alice"].Entries["e2"] = StoredEntry{Title: "new"}
	clone.Users["bob"] = NewUserRecord("other", false)

	assert.Equal(t, "mail", doc.Users["alice"].Entries["e1"].Title)
	assert.Len(t, doc.Users["alice"].Entries, 1)
	assert.NotContains(t, doc.Users, "bob")
}

func TestDocument_NormalizeFillsMaps(t *testing.T) {
	doc := (&Document{Users: map[string]*UserRecord{"a": {EncryptionKey: "k"}, "nil": nil}}).Normalize()

	require.Contains(t, doc.Users, "a")
	assert.NotNil(t, doc.Users["a"].Entries)
	assert.NotNil(t, doc.Users["a"].TotpKeys)
	assert.NotContains(t, doc.Users, "nil")

	_, ok := (*Document)(nil).User("a")
	assert.False(t, ok)
}

func TestParseTime(t *testing.T) {
	want := time.Date(2025, 3, 1, 12, 30, 45, 123456000, time.UTC)

	for _, s := range []string{
		FormatTime(want),
		"2025-03-01T12:30:45.123456",
		"2025-03-01 12:30:45.123456",
		"2025-03-01T14:30:45.123456+02:00",
	} {
		got, err := ParseTime(s)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), "%s -> %s", s, got)
	}

	_, err := ParseTime("yesterday")
	assert.Error(t, err)
}

func TestEntryUpdate_Apply(t *testing.T) {
	title := "new title"
	empty := ""
	entry := VaultEntry{Title: "old", Username: "bob", Notes: "n", Password: "p"}

	got := EntryUpdate{Title: &title, Notes: &empty}.Apply(entry)

	assert.Equal(t, "new title", got.Title)
	assert.Equal(t, "bob", got.Username)
	assert.Equal(t, "p", got.Password)
	assert.Empty(t, got.Notes)
	assert.False(t, EntryUpdate{Title: &title}.IsEmpty())
	assert.True(t, EntryUpdate{}.IsEmpty())
}
