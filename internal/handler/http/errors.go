// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"fmt"
)

// Sentinel errors of the transport layer. Callers can match against them
// with [errors.Is].
var (
	// ErrUnauthenticated is the root of every authentication failure.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = fmt.Errorf("%w: empty `Authorization` header", ErrUnauthenticated)

	// ErrInvalidAuthorizationHeader is returned when the header is not of the
	// form "Bearer <token>".
	ErrInvalidAuthorizationHeader = fmt.Errorf("%w: invalid `Authorization` header", ErrUnauthenticated)

	// ErrInvalidToken is returned when the bearer token fails signature,
	// issuer or expiry checks.
	ErrInvalidToken = fmt.Errorf("%w: invalid or expired token", ErrUnauthenticated)

	ErrInvalidJSON = errors.New("invalid JSON was passed")
)
