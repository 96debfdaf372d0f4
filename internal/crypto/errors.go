package crypto

import (
	"errors"
	"fmt"
)

// ErrCrypto is the root of every error this package returns. Callers match
// it with [errors.Is] to tell cryptographic failures apart from missing data.
var ErrCrypto = errors.New("crypto error")

var (
	ErrInvalidKey           = fmt.Errorf("%w: invalid key", ErrCrypto)
	ErrMalformedToken       = fmt.Errorf("%w: malformed token", ErrCrypto)
	ErrUnsupportedVersion   = fmt.Errorf("%w: unsupported token version", ErrCrypto)
	ErrAuthenticationFailed = fmt.Errorf("%w: message authentication failed", ErrCrypto)
	ErrNoMasterKey          = fmt.Errorf("%w: master key is not configured", ErrCrypto)
	ErrRandomSource         = fmt.Errorf("%w: random source failure", ErrCrypto)
)
