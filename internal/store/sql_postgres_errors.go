package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification tells withRetry whether a failed statement is worth
// another attempt.
type ErrorClassification int

const (
	NonRetryable ErrorClassification = iota
	Retryable
)

// retryablePgCodes lists the transient PostgreSQL failures: lost connections,
// serialization conflicts, deadlocks and a server still starting up. Anything
// else (constraint, syntax, data errors) fails the document write at once.
var retryablePgCodes = map[string]struct{}{
	pgerrcode.ConnectionException:    {},
	pgerrcode.ConnectionDoesNotExist: {},
	pgerrcode.ConnectionFailure:      {},
	pgerrcode.TransactionRollback:    {},
	pgerrcode.SerializationFailure:   {},
	pgerrcode.DeadlockDetected:       {},
	pgerrcode.CannotConnectNow:       {},
	pgerrcode.AdminShutdown:          {},
	pgerrcode.TooManyConnections:     {},
	pgerrcode.LockNotAvailable:       {},
}

// PostgresErrorClassifier implements [ErrorClassificator] for the pgx driver.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ClassifyPgError(pgErr)
	}
	return NonRetryable
}

// ClassifyPgError maps a PostgreSQL SQLSTATE to an [ErrorClassification].
func ClassifyPgError(pgErr *pgconn.PgError) ErrorClassification {
	if _, ok := retryablePgCodes[pgErr.Code]; ok {
		return Retryable
	}
	return NonRetryable
}
