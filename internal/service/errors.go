package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-secret-vault/internal/store"
	"github.com/MKhiriev/go-secret-vault/internal/validators"
)

// ErrNotFound is matched by every "no such record" error of the vault.
var ErrNotFound = errors.New("not found")

var (
	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	ErrEmptyUserID = fmt.Errorf("%w: user id is required", validators.ErrValidation)

	ErrEntryNotFound   = fmt.Errorf("%w: vault entry", ErrNotFound)
	ErrTotpKeyNotFound = fmt.Errorf("%w: totp key", ErrNotFound)
	ErrNoTotpSecret    = fmt.Errorf("%w: entry has no totp secret", ErrNotFound)

	ErrCorruptedRecord = fmt.Errorf("%w: corrupted record", store.ErrStorage)
)

// errNothingToSave aborts an update that found nothing to change, so the
// document is not rewritten.
var errNothingToSave = errors.New("nothing to save")
