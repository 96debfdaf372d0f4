// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-secret-vault/internal/logger"
	"github.com/MKhiriev/go-secret-vault/models"
)

// documentStore is the default [DocumentStore]. A single RWMutex guards the
// backend, so writers are serialized and readers never see a half-applied
// update from this process.
type documentStore struct {
	mu      sync.RWMutex
	backend DocumentBackend
	logger  *logger.Logger
}

// NewDocumentStore wraps backend with serialized read-modify-write access.
func NewDocumentStore(backend DocumentBackend, log *logger.Logger) DocumentStore {
	log.Debug().Msg("creating document store")
	return &documentStore{
		backend: backend,
		logger:  log,
	}
}

func (s *documentStore) View(ctx context.Context, fn func(doc *models.Document) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	return fn(doc)
}

func (s *documentStore) Update(ctx context.Context, fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if atomic, ok := s.backend.(AtomicBackend); ok {
		return s.updateAtomic(ctx, atomic, fn)
	}

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}

	if err = fn(doc); err != nil {
		return err
	}

	if err = s.backend.Save(ctx, doc); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*documentStore.Update").Msg("error saving document")
		return asStorageError(err)
	}
	return nil
}

// updateAtomic lets the backend run fn inside its own transaction. An error
// coming from fn is returned as is, anything else is a storage failure.
func (s *documentStore) updateAtomic(ctx context.Context, backend AtomicBackend, fn func(doc *models.Document) error) error {
	var fnErr error
	err := backend.UpdateAtomic(ctx, func(doc *models.Document) error {
		if doc == nil {
			doc = models.NewDocument()
		}
		fnErr = fn(doc.Normalize())
		return fnErr
	})
	if err == nil {
		return nil
	}
	if fnErr != nil && errors.Is(err, fnErr) {
		return fnErr
	}

	logger.FromContext(ctx).Err(err).Str("func", "*documentStore.updateAtomic").Msg("error updating document")
	return asStorageError(err)
}

func (s *documentStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Close(); err != nil {
		return asStorageError(err)
	}
	return nil
}

func (s *documentStore) load(ctx context.Context) (*models.Document, error) {
	doc, err := s.backend.Load(ctx)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*documentStore.load").Msg("error loading document")
		return nil, asStorageError(err)
	}
	if doc == nil {
		return models.NewDocument(), nil
	}
	return doc.Normalize(), nil
}

// asStorageError wraps err with ErrStorage unless it already is one.
func asStorageError(err error) error {
	if errors.Is(err, ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
