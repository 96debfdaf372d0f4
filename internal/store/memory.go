package store

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-secret-vault/models"
)

// memoryBackend keeps the document in process memory. Load and Save copy
// the document so callers never share maps with the backend.
type memoryBackend struct {
	mu  sync.Mutex
	doc *models.Document
}

// NewMemoryBackend returns an empty in-memory [DocumentBackend].
func NewMemoryBackend() DocumentBackend {
	return &memoryBackend{doc: models.NewDocument()}
}

func (m *memoryBackend) Load(context.Context) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.Clone(), nil
}

func (m *memoryBackend) Save(_ context.Context, doc *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = doc.Clone()
	return nil
}

func (m *memoryBackend) Close() error {
	return nil
}
