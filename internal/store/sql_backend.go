// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-secret-vault/internal/logger"
	"github.com/MKhiriev/go-secret-vault/models"
)

// sqlBackend stores the document as one JSON row of vault_documents keyed
// by documentID, so several vaults can share a database.
type sqlBackend struct {
	db         *DB
	documentID string
	now        func() time.Time
	logger     *logger.Logger
}

// NewSQLBackend returns a [DocumentBackend] over a migrated database.
func NewSQLBackend(db *DB, documentID string, log *logger.Logger) DocumentBackend {
	log.Debug().Str("document_id", documentID).Msg("creating sql backend")
	return &sqlBackend{
		db:         db,
		documentID: documentID,
		now:        time.Now,
		logger:     log,
	}
}

func (b *sqlBackend) Load(ctx context.Context) (*models.Document, error) {
	query, args, err := buildSelectDocumentQuery(b.db.statementBuilder(), b.documentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var body string
	err = b.db.withRetry(ctx, func() error {
		return b.db.QueryRowContext(ctx, query, args...).Scan(&body)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewDocument(), nil
	}
	if err != nil {
		b.logger.Err(err).Str("func", "*sqlBackend.Load").Str("pg_code", postgresError(err)).Msg("error selecting document")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return decodeDocument([]byte(body), formatJSON)
}

func (b *sqlBackend) Save(ctx context.Context, doc *models.Document) error {
	body, err := encodeDocument(doc, formatJSON)
	if err != nil {
		return err
	}

	query, args, err := buildUpsertDocumentQuery(b.db.statementBuilder(), b.documentID, string(body), b.now().UTC())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = b.db.withRetry(ctx, func() error {
		_, execErr := b.db.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		b.logger.Err(err).Str("func", "*sqlBackend.Save").Str("pg_code", postgresError(err)).Msg("error saving document")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

var _ AtomicBackend = (*sqlBackend)(nil)

// UpdateAtomic runs the read-modify-write in one transaction holding the
// document row lock.
func (b *sqlBackend) UpdateAtomic(ctx context.Context, fn func(doc *models.Document) error) error {
	var fnErr error
	err := b.db.withRetry(ctx, func() error {
		fnErr = nil
		err := b.updateInTx(ctx, func(doc *models.Document) error {
			fnErr = fn(doc)
			return fnErr
		})
		if fnErr != nil {
			return fnErr
		}
		return err
	})
	if err != nil && !errors.Is(err, fnErr) {
		b.logger.Err(err).Str("func", "*sqlBackend.UpdateAtomic").Str("pg_code", postgresError(err)).Msg("error updating document")
	}
	return err
}

func (b *sqlBackend) updateInTx(ctx context.Context, fn func(doc *models.Document) error) error {
	builder := b.db.statementBuilder()
	now := b.now().UTC()

	emptyBody, err := encodeDocument(models.NewDocument(), formatJSON)
	if err != nil {
		return err
	}
	insertQuery, insertArgs, err := buildInsertMissingDocumentQuery(builder, b.documentID, string(emptyBody), now)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	lockQuery, lockArgs, err := buildLockDocumentQuery(builder, b.db.dialect, b.documentID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	var body string
	if err = tx.QueryRowContext(ctx, lockQuery, lockArgs...).Scan(&body); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	doc, err := decodeDocument([]byte(body), formatJSON)
	if err != nil {
		return err
	}

	if err = fn(doc); err != nil {
		return err
	}

	updated, err := encodeDocument(doc, formatJSON)
	if err != nil {
		return err
	}
	upsertQuery, upsertArgs, err := buildUpsertDocumentQuery(builder, b.documentID, string(updated), now)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, upsertQuery, upsertArgs...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (b *sqlBackend) Close() error {
	return b.db.Close()
}
