// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"encoding/base64"
	"errors"
)

// KeySize is the length of every data and master key: AES-256.
const KeySize = 32

// Key is a raw symmetric key.
type Key []byte

// keyEncoding matches the URL-safe padded form used for stored keys.
var keyEncoding = base64.URLEncoding

// String encodes the key for storage.
func (k Key) String() string {
	return keyEncoding.EncodeToString(k)
}

// Validate checks the key length.
func (k Key) Validate() error {
	if len(k) != KeySize {
		return ErrInvalidKey
	}
	return nil
}

// ParseKey decodes a key produced by [Key.String]. Standard base64 is
// accepted as well so operators can paste keys from common tooling.
func ParseKey(encoded string) (Key, error) {
	raw, err := keyEncoding.DecodeString(encoded)
	if err != nil {
		var stdErr error
		raw, stdErr = base64.StdEncoding.DecodeString(encoded)
		if stdErr != nil {
			return nil, errors.Join(ErrInvalidKey, err)
		}
	}

	key := Key(raw)
	if err := key.Validate(); err != nil {
		return nil, err
	}
	return key, nil
}
