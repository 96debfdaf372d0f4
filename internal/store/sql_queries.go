package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const documentsTable = "vault_documents"

// upsertDocumentSuffix works on both PostgreSQL and SQLite 3.24+.
const upsertDocumentSuffix = "ON CONFLICT (id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at"

const insertMissingDocumentSuffix = "ON CONFLICT (id) DO NOTHING"

func buildSelectDocumentQuery(builder sq.StatementBuilderType, documentID string) (string, []any, error) {
	return builder.
		Select("body").
		From(documentsTable).
		Where(sq.Eq{"id": documentID}).
		ToSql()
}

func buildUpsertDocumentQuery(builder sq.StatementBuilderType, documentID, body string, updatedAt time.Time) (string, []any, error) {
	return builder.
		Insert(documentsTable).
		Columns("id", "body", "updated_at").
		Values(documentID, body, updatedAt).
		Suffix(upsertDocumentSuffix).
		ToSql()
}

// buildInsertMissingDocumentQuery creates the row only when it is absent, so
// the following locking select always has a row to lock.
func buildInsertMissingDocumentQuery(builder sq.StatementBuilderType, documentID, body string, updatedAt time.Time) (string, []any, error) {
	return builder.
		Insert(documentsTable).
		Columns("id", "body", "updated_at").
		Values(documentID, body, updatedAt).
		Suffix(insertMissingDocumentSuffix).
		ToSql()
}

// buildLockDocumentQuery selects the body with a row lock. SQLite has no
// FOR UPDATE; its write transaction already excludes other writers.
func buildLockDocumentQuery(builder sq.StatementBuilderType, dialect, documentID string) (string, []any, error) {
	query := builder.
		Select("body").
		From(documentsTable).
		Where(sq.Eq{"id": documentID})
	if dialect == dialectPostgres {
		query = query.Suffix("FOR UPDATE")
	}
	return query.ToSql()
}
