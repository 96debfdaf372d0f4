package store

import "errors"

// ErrStorage is the root of every failure raised by a backend. Callers match
// it with [errors.Is]; the wrapped cause carries the details.
var ErrStorage = errors.New("storage error")

// Low-level backend errors, always wrapped together with [ErrStorage].
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when a SELECT against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when the upsert of the document fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrDecodingDocument is returned when stored bytes cannot be decoded
	// into a document.
	ErrDecodingDocument = errors.New("failed to decode document")

	// ErrEncodingDocument is returned when a document cannot be serialized.
	ErrEncodingDocument = errors.New("failed to encode document")

	// ErrWritingFile is returned when the document file cannot be replaced.
	ErrWritingFile = errors.New("failed to write document file")

	// ErrConcurrentUpdate is returned when another process kept changing the
	// document while an update was being applied.
	ErrConcurrentUpdate = errors.New("document changed concurrently")

	// ErrUnknownDriver is returned by [NewStorages] for an unsupported driver.
	ErrUnknownDriver = errors.New("unknown storage driver")
)
