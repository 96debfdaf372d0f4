package validators

import (
	"errors"
	"fmt"
)

// ErrValidation is the root of every rejected-input error.
var ErrValidation = errors.New("validation error")

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyTitle       = fmt.Errorf("%w: title is required", ErrValidation)
	ErrEmptyPassword    = fmt.Errorf("%w: password is required", ErrValidation)
	ErrEmptyName        = fmt.Errorf("%w: name is required", ErrValidation)
	ErrEmptySecret      = fmt.Errorf("%w: secret cannot be cleared", ErrValidation)
	ErrInvalidDigits    = fmt.Errorf("%w: digits must be between 6 and 8", ErrValidation)
	ErrInvalidInterval  = fmt.Errorf("%w: interval must be a positive number of seconds", ErrValidation)
	ErrNoFieldsToUpdate = fmt.Errorf("%w: at least one field must be provided for update", ErrValidation)
)
