// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-secret-vault/internal/logger"
	"github.com/MKhiriev/go-secret-vault/models"
)

// documentFileMode keeps key material readable by the owner only.
const documentFileMode = 0o600

// fileBackend keeps the document in a single file. Files ending in .json
// are written as JSON, anything else as YAML.
type fileBackend struct {
	path   string
	format documentFormat
	logger *logger.Logger
}

// NewFileBackend returns a [DocumentBackend] persisting to path. The file is
// created on the first Save.
func NewFileBackend(path string, log *logger.Logger) DocumentBackend {
	format := formatYAML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = formatJSON
	}

	log.Debug().Str("path", path).Msg("creating file backend")
	return &fileBackend{
		path:   path,
		format: format,
		logger: log,
	}
}

func (f *fileBackend) Load(context.Context) (*models.Document, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return models.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading document file: %w", err)
	}

	return decodeDocument(data, f.format)
}

// Save writes to a temporary file next to the target and renames it over the
// target, so a crash never leaves a truncated document behind.
func (f *fileBackend) Save(_ context.Context, doc *models.Document) error {
	data, err := encodeDocument(doc, f.format)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err = os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("%w: %w", ErrWritingFile, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWritingFile, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", ErrWritingFile, err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", ErrWritingFile, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWritingFile, err)
	}
	if err = os.Chmod(tmpName, documentFileMode); err != nil {
		return fmt.Errorf("%w: %w", ErrWritingFile, err)
	}
	if err = os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("%w: %w", ErrWritingFile, err)
	}

	f.logger.Debug().Str("path", f.path).Int("bytes", len(data)).Msg("document saved")
	return nil
}

func (f *fileBackend) Close() error {
	return nil
}
