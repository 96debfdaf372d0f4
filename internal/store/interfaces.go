package store

import (
	"context"

	"github.com/MKhiriev/go-secret-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// DocumentBackend persists the whole vault document. Load returns a document
// the caller may mutate freely; a backend with nothing stored yet returns an
// empty document, never an error.
type DocumentBackend interface {
	Load(ctx context.Context) (*models.Document, error)
	Save(ctx context.Context, doc *models.Document) error
	Close() error
}

// AtomicBackend is a [DocumentBackend] whose storage is shared between
// processes. UpdateAtomic loads the document, runs fn and saves the result
// as one step against the storage, so an update made by another process in
// between is never overwritten. It saves nothing when fn fails and returns
// fn's error wrapped with %w. fn may run more than once.
type AtomicBackend interface {
	DocumentBackend
	UpdateAtomic(ctx context.Context, fn func(doc *models.Document) error) error
}

// DocumentStore serializes access to a [DocumentBackend].
//
// View runs fn against a freshly loaded document. Update runs fn against a
// freshly loaded document and saves it when fn returns nil. Updates never
// interleave with each other or with views, so a read-modify-write inside fn
// cannot lose a concurrent change. Across processes this holds only when the
// backend is an [AtomicBackend]. Errors returned by fn are passed through
// unchanged; backend failures wrap [ErrStorage].
type DocumentStore interface {
	View(ctx context.Context, fn func(doc *models.Document) error) error
	Update(ctx context.Context, fn func(doc *models.Document) error) error
	Close() error
}

// ErrorClassificator decides whether a failed database call may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
