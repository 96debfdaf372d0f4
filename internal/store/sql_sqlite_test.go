package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-secret-vault/internal/config"
	"github.com/MKhiriev/go-secret-vault/internal/logger"
)

func TestSQLiteErrorClassifier(t *testing.T) {
	c := NewSQLiteErrorClassifier()

	assert.Equal(t, Retryable, c.Classify(sqlite3.Error{Code: sqlite3.ErrBusy}))
	assert.Equal(t, Retryable, c.Classify(sqlite3.Error{Code: sqlite3.ErrLocked}))
	assert.Equal(t, NonRetryable, c.Classify(sqlite3.Error{Code: sqlite3.ErrConstraint}))
	assert.Equal(t, NonRetryable, c.Classify(errors.New("boom")))
	assert.Equal(t, NonRetryable, c.Classify(nil))
}

// TestSQLiteBackend_EndToEnd runs migrations and the document round trip
// against a real SQLite file.
func TestSQLiteBackend_EndToEnd(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "vault.db")

	db, err := NewConnectSQLite(ctx, config.DB{DSN: dsn}, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate())

	b := NewSQLBackend(db, "default", logger.Nop())
	t.Cleanup(func() { _ = b.Close() })

	empty, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Users)

	require.NoError(t, b.Save(ctx, sampleDocument()))
	// second save goes through the conflict branch
	require.NoError(t, b.Save(ctx, sampleDocument()))

	loaded, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleDocument(), loaded)

	other, err := NewSQLBackend(db, "other", logger.Nop()).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, other.Users)
}
