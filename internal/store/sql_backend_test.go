// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-secret-vault/internal/logger"
	"github.com/MKhiriev/go-secret-vault/models"
)

func newTestSQLBackend(t *testing.T, dialect string) (*sqlBackend, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	var classifier ErrorClassificator = NewPostgresErrorClassifier()
	if dialect == dialectSQLite {
		classifier = NewSQLiteErrorClassifier()
	}

	db := &DB{
		DB:                 conn,
		logger:             logger.Nop(),
		errorClassificator: classifier,
		dialect:            dialect,
	}
	b := NewSQLBackend(db, "default", logger.Nop()).(*sqlBackend)
	b.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return b, mock
}

func withoutRetryDelay(t *testing.T) {
	t.Helper()
	saved := retryDelays
	retryDelays = []time.Duration{time.Millisecond, time.Millisecond}
	t.Cleanup(func() { retryDelays = saved })
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func TestSQLBackend_Load(t *testing.T) {
	selectQuery := regexp.QuoteMeta("SELECT body FROM vault_documents WHERE id = $1")

	t.Run("no row yields empty document", func(t *testing.T) {
		b, mock := newTestSQLBackend(t, dialectPostgres)
		mock.ExpectQuery(selectQuery).WithArgs("default").WillReturnError(sql.ErrNoRows)

		doc, err := b.Load(context.Background())
		require.NoError(t, err)
		assert.Empty(t, doc.Users)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("row is decoded", func(t *testing.T) {
		b, mock := newTestSQLBackend(t, dialectPostgres)
		rows := sqlmock.NewRows([]string{"body"}).
			AddRow(`{"users":{"alice":{"encryptionKey":"a2V5","entries":{"e1":{"title":"Mail","category":"login"}}}}}`)
		mock.ExpectQuery(selectQuery).WithArgs("default").WillReturnRows(rows)

		doc, err := b.Load(context.Background())
		require.NoError(t, err)

		u, ok := doc.User("alice")
		require.True(t, ok)
		assert.Equal(t, "a2V5", u.EncryptionKey)
		assert.Equal(t, "Mail", u.Entries["e1"].Title)
		assert.NotNil(t, u.TotpKeys)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure", func(t *testing.T) {
		b, mock := newTestSQLBackend(t, dialectPostgres)
		mock.ExpectQuery(selectQuery).WillReturnError(pgError(pgerrcode.UndefinedTable))

		_, err := b.Load(context.Background())
		assert.ErrorIs(t, err, ErrExecutingQuery)
	})

	t.Run("corrupt body", func(t *testing.T) {
		b, mock := newTestSQLBackend(t, dialectPostgres)
		mock.ExpectQuery(selectQuery).WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow("not json"))

		_, err := b.Load(context.Background())
		assert.ErrorIs(t, err, ErrDecodingDocument)
	})
}

func TestSQLBackend_Save(t *testing.T) {
	t.Run("upserts the document row", func(t *testing.T) {
		b, mock := newTestSQLBackend(t, dialectSQLite)
		mock.ExpectExec("INSERT INTO vault_documents").
			WithArgs("default", sqlmock.AnyArg(), b.now()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, b.Save(context.Background(), sampleDocument()))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retries transient failures", func(t *testing.T) {
		withoutRetryDelay(t)
		b, mock := newTestSQLBackend(t, dialectPostgres)
		mock.ExpectExec("INSERT INTO vault_documents").WillReturnError(pgError(pgerrcode.SerializationFailure))
		mock.ExpectExec("INSERT INTO vault_documents").WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, b.Save(context.Background(), sampleDocument()))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("gives up after the last retry", func(t *testing.T) {
		withoutRetryDelay(t)
		b, mock := newTestSQLBackend(t, dialectPostgres)
		for range 3 {
			mock.ExpectExec("INSERT INTO vault_documents").WillReturnError(pgError(pgerrcode.DeadlockDetected))
		}

		err := b.Save(context.Background(), sampleDocument())
		assert.ErrorIs(t, err, ErrExecutingStatement)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("does not retry permanent failures", func(t *testing.T) {
		b, mock := newTestSQLBackend(t, dialectPostgres)
		mock.ExpectExec("INSERT INTO vault_documents").WillReturnError(pgError(pgerrcode.UniqueViolation))

		err := b.Save(context.Background(), sampleDocument())
		assert.ErrorIs(t, err, ErrExecutingStatement)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stops when the context ends", func(t *testing.T) {
		b, mock := newTestSQLBackend(t, dialectPostgres)
		mock.ExpectExec("INSERT INTO vault_documents").WillReturnError(pgError(pgerrcode.ConnectionFailure))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := b.Save(ctx, sampleDocument())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSQLBackend_UpdateAtomic(t *testing.T) {
	insertMissing := "INSERT INTO vault_documents .* ON CONFLICT \\(id\\) DO NOTHING"
	lockRow := regexp.QuoteMeta("SELECT body FROM vault_documents WHERE id = $1 FOR UPDATE")
	upsert := "INSERT INTO vault_documents .* DO UPDATE"

	stored, err := encodeDocument(sampleDocument(), formatJSON)
	require.NoError(t, err)
	addUser := func(doc *models.Document) error {
		doc.Users["zoe"] = models.NewUserRecord("key-zoe", false)
		return nil
	}

	t.Run("locks the row and saves in one transaction", func(t *testing.T) {
		b, mock := newTestSQLBackend(t, dialectPostgres)
		mock.ExpectBegin()
		mock.ExpectExec(insertMissing).
			WithArgs("default", `{"users":{}}`, b.now()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(lockRow).WithArgs("default").
			WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(string(stored)))
		mock.ExpectExec(upsert).
			WithArgs("default", sqlmock.AnyArg(), b.now()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		var seen *models.Document
		err := b.UpdateAtomic(context.Background(), func(doc *models.Document) error {
			seen = doc
			return addUser(doc)
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
		assert.Contains(t, seen.Users, "alice")
		assert.Contains(t, seen.Users, "zoe")
	})

	t.Run("sqlite selects without FOR UPDATE", func(t *testing.T) {
		b, mock := newTestSQLBackend(t, dialectSQLite)
		mock.ExpectBegin()
		mock.ExpectExec(insertMissing).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT body FROM vault_documents WHERE id = ?")).
			WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(`{"users":{}}`))
		mock.ExpectExec(upsert).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, b.UpdateAtomic(context.Background(), addUser))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fn error rolls back", func(t *testing.T) {
		b, mock := newTestSQLBackend(t, dialectPostgres)
		mock.ExpectBegin()
		mock.ExpectExec(insertMissing).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(lockRow).
			WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(string(stored)))
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := b.UpdateAtomic(context.Background(), func(*models.Document) error { return boom })
		assert.ErrorIs(t, err, boom)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retries the whole transaction on serialization failure", func(t *testing.T) {
		withoutRetryDelay(t)
		b, mock := newTestSQLBackend(t, dialectPostgres)
		mock.ExpectBegin()
		mock.ExpectExec(insertMissing).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(lockRow).
			WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(string(stored)))
		mock.ExpectExec(upsert).WillReturnError(pgError(pgerrcode.SerializationFailure))
		mock.ExpectRollback()
		mock.ExpectBegin()
		mock.ExpectExec(insertMissing).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(lockRow).
			WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(string(stored)))
		mock.ExpectExec(upsert).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		runs := 0
		err := b.UpdateAtomic(context.Background(), func(doc *models.Document) error {
			runs++
			return addUser(doc)
		})
		require.NoError(t, err)
		assert.Equal(t, 2, runs)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		b, mock := newTestSQLBackend(t, dialectPostgres)
		mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

		err := b.UpdateAtomic(context.Background(), addUser)
		assert.ErrorIs(t, err, ErrExecutingStatement)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSQLBackend_Close(t *testing.T) {
	b, mock := newTestSQLBackend(t, dialectPostgres)
	mock.ExpectClose()

	require.NoError(t, b.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_StatementBuilder(t *testing.T) {
	pg, _, err := (&DB{dialect: dialectPostgres}).statementBuilder().Select("1").Where(sq.Eq{"a": 1}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, pg, "$1")

	lite, _, err := (&DB{dialect: dialectSQLite}).statementBuilder().Select("1").Where(sq.Eq{"a": 1}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, lite, "?")
}

func TestPostgresErrorClassifier(t *testing.T) {
	c := NewPostgresErrorClassifier()

	tests := []struct {
		name string
		err  error
		want ErrorClassification
	}{
		{"nil", nil, NonRetryable},
		{"plain error", errors.New("boom"), NonRetryable},
		{"connection failure", pgError(pgerrcode.ConnectionFailure), Retryable},
		{"serialization failure", pgError(pgerrcode.SerializationFailure), Retryable},
		{"deadlock", pgError(pgerrcode.DeadlockDetected), Retryable},
		{"cannot connect now", pgError(pgerrcode.CannotConnectNow), Retryable},
		{"too many connections", pgError(pgerrcode.TooManyConnections), Retryable},
		{"unique violation", pgError(pgerrcode.UniqueViolation), NonRetryable},
		{"syntax error", pgError(pgerrcode.SyntaxError), NonRetryable},
		{"wrapped retryable", errors.Join(errors.New("ctx"), pgError(pgerrcode.ConnectionException)), Retryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
		})
	}
}

func TestPostgresError(t *testing.T) {
	assert.Equal(t, pgerrcode.UniqueViolation, postgresError(pgError(pgerrcode.UniqueViolation)))
	assert.Empty(t, postgresError(errors.New("boom")))
}
