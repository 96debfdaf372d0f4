package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-secret-vault/internal/logger"
	"github.com/MKhiriev/go-secret-vault/migrations"
)

// Dialects understood by goose and used to pick the placeholder format.
const (
	dialectPostgres = "pgx"
	dialectSQLite   = "sqlite3"
)

// retryDelays are the pauses between attempts of a retryable database call.
var retryDelays = []time.Duration{100 * time.Millisecond, 300 * time.Millisecond, 900 * time.Millisecond}

type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
	dialect            string
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// statementBuilder returns a squirrel builder with the placeholders of the
// connected database.
func (db *DB) statementBuilder() sq.StatementBuilderType {
	if db.dialect == dialectPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// withRetry runs op and repeats it while the classifier reports the failure
// as [Retryable] and ctx is alive.
func (db *DB) withRetry(ctx context.Context, op func() error) error {
	err := op()
	for _, delay := range retryDelays {
		if err == nil || db.errorClassificator == nil || db.errorClassificator.Classify(err) != Retryable {
			return err
		}

		db.logger.Warn().Err(err).Dur("delay", delay).Msg("retrying database call")
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(delay):
		}
		err = op()
	}
	return err
}
