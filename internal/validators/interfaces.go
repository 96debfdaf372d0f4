// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks vault input before it is encrypted and stored.
// Every rejection wraps [ErrValidation], so callers map the whole family to
// a single client error.
package validators

import "context"

// Validator validates a value. When fields are given, only those fields are
// checked; otherwise the whole value is.
type Validator interface {
	Validate(ctx context.Context, value any, fields ...string) error
}
