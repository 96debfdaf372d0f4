package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/MKhiriev/go-secret-vault/models"
)

// documentFormat selects the serialization of a stored document.
type documentFormat int

const (
	formatJSON documentFormat = iota
	formatYAML
)

func encodeDocument(doc *models.Document, format documentFormat) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case formatYAML:
		data, err = yaml.Marshal(doc)
	default:
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingDocument, err)
	}
	return data, nil
}

// decodeDocument parses data; blank input yields an empty document.
func decodeDocument(data []byte, format documentFormat) (*models.Document, error) {
	doc := models.NewDocument()
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}

	var err error
	switch format {
	case formatYAML:
		err = yaml.Unmarshal(data, doc)
	default:
		err = json.Unmarshal(data, doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodingDocument, err)
	}
	return doc.Normalize(), nil
}
