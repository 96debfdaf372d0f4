package totp

import "errors"

var (
	ErrInvalidSecret          = errors.New("invalid TOTP secret: not valid base32")
	ErrInvalidDigits          = errors.New("invalid TOTP digits: must be between 6 and 8")
	ErrInvalidInterval        = errors.New("invalid TOTP interval: must be a positive number of seconds")
	ErrInvalidSkew            = errors.New("invalid TOTP skew: must not be negative")
	ErrMissingAccountName     = errors.New("missing account name")
	ErrFailedToGenerateSecret = errors.New("failed to generate TOTP secret")
)
