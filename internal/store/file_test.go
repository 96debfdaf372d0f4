package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-secret-vault/internal/logger"
	"github.com/MKhiriev/go-secret-vault/models"
)

func sampleDocument() *models.Document {
	doc := models.NewDocument()
	u := models.NewUserRecord("a2V5", false)
	u.Entries["e1"] = models.StoredEntry{
		Title:        "GitHub",
		Username:     "alice",
		Category:     "login",
		Password:     "AXRva2Vu",
		TotpDigits:   6,
		TotpInterval: 30,
		CreatedAt:    "2026-01-02T03:04:05Z",
		UpdatedAt:    "2026-01-02T03:04:05Z",
	}
	u.TotpKeys["k1"] = models.StoredTotpKey{
		Name:      "AWS",
		Secret:    "AXNlY3JldA",
		Digits:    6,
		Interval:  30,
		CreatedAt: "2026-01-02T03:04:05Z",
		UpdatedAt: "2026-01-02T03:04:05Z",
	}
	doc.Users["alice"] = u
	return doc
}

func TestFileBackend_RoundTrip(t *testing.T) {
	for _, name := range []string{"vault.yaml", "vault.json", "nested/dir/vault.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			b := NewFileBackend(path, logger.Nop())
			ctx := context.Background()

			require.NoError(t, b.Save(ctx, sampleDocument()))

			loaded, err := b.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, sampleDocument(), loaded)

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(documentFileMode), info.Mode().Perm())

			leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
			require.NoError(t, err)
			assert.Empty(t, leftovers)
		})
	}
}

func TestFileBackend_Format(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	yamlPath := filepath.Join(dir, "vault.yaml")
	require.NoError(t, NewFileBackend(yamlPath, logger.Nop()).Save(ctx, sampleDocument()))
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "encryptionKey: a2V5")
	assert.Contains(t, string(data), "totpKeys:")

	jsonPath := filepath.Join(dir, "vault.JSON")
	require.NoError(t, NewFileBackend(jsonPath, logger.Nop()).Save(ctx, sampleDocument()))
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"encryptionKey":"a2V5"`)
}

func TestFileBackend_MissingOrEmptyFile(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	doc, err := NewFileBackend(filepath.Join(dir, "absent.yaml"), logger.Nop()).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, doc.Users)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("\n"), 0o600))
	doc, err = NewFileBackend(empty, logger.Nop()).Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, doc.Users)
}

func TestFileBackend_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.json")
	require.NoError(t, os.WriteFile(path, []byte("{users: nope"), 0o600))

	_, err := NewFileBackend(path, logger.Nop()).Load(context.Background())
	assert.ErrorIs(t, err, ErrDecodingDocument)
}

// TestFileBackend_ReadsLegacyDocument loads a document written without the
// optional collections, as older releases did.
func TestFileBackend_ReadsLegacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	legacy := `users:
  alice:
    encryptionKey: a2V5
    entries:
      e1:
        title: Mail
        category: login
        password: AXRva2Vu
        totpDigits: 6
        totpInterval: 30
        createdAt: "2025-05-01T10:00:00.123456"
        updatedAt: "2025-05-01T10:00:00.123456"
`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

	doc, err := NewFileBackend(path, logger.Nop()).Load(context.Background())
	require.NoError(t, err)

	u, ok := doc.User("alice")
	require.True(t, ok)
	assert.NotNil(t, u.TotpKeys)
	assert.Equal(t, "Mail", u.Entries["e1"].Title)

	_, err = models.ParseTime(u.Entries["e1"].CreatedAt)
	assert.NoError(t, err)
}
