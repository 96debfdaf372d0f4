// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// tokenVersion is the first byte of every token: version ‖ nonce ‖ ciphertext+tag.
	tokenVersion byte = 0x01

	// kekInfo domain-separates key-encryption keys from any other use of the
	// master key.
	kekInfo = "go-secret-vault/user-key/v1"
)

// Strict decoding rejects non-zero trailing bits, so every character of a
// token is covered by the authentication tag.
var tokenEncoding = base64.RawURLEncoding.Strict()

// keyChainService is the private implementation of [KeyChainService].
type keyChainService struct {
	masterKey Key
	random    io.Reader
}

// NewKeyChainService constructs a [KeyChainService]. masterKey may be nil, in
// which case per-user keys are stored unwrapped; otherwise it must be
// [KeySize] bytes long.
func NewKeyChainService(masterKey Key) (KeyChainService, error) {
	if len(masterKey) > 0 {
		if err := masterKey.Validate(); err != nil {
			return nil, fmt.Errorf("master key: %w", err)
		}
	}
	return &keyChainService{
		masterKey: masterKey,
		random:    rand.Reader,
	}, nil
}

// GenerateKey implements [KeyChainService].
func (k *keyChainService) GenerateKey() (Key, error) {
	key := make(Key, KeySize)
	if _, err := io.ReadFull(k.random, key); err != nil {
		return nil, errors.Join(ErrRandomSource, err)
	}
	return key, nil
}

// Encrypt implements [KeyChainService].
func (k *keyChainService) Encrypt(key Key, plaintext string) (string, error) {
	if err := key.Validate(); err != nil {
		return "", err
	}
	if plaintext == "" {
		return "", nil
	}

	blob, err := k.seal(key, []byte(plaintext), nil)
	if err != nil {
		return "", err
	}
	return tokenEncoding.EncodeToString(blob), nil
}

// Decrypt implements [KeyChainService].
func (k *keyChainService) Decrypt(key Key, token string) (string, error) {
	if err := key.Validate(); err != nil {
		return "", err
	}
	if token == "" {
		return "", nil
	}

	blob, err := tokenEncoding.DecodeString(token)
	if err != nil {
		return "", errors.Join(ErrMalformedToken, err)
	}

	plaintext, err := open(key, blob, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// HasMasterKey implements [KeyChainService].
func (k *keyChainService) HasMasterKey() bool {
	return len(k.masterKey) > 0
}

// WrapKey implements [KeyChainService]. The user id is both mixed into the
// KEK derivation and bound as additional authenticated data.
func (k *keyChainService) WrapKey(key Key, userID string) (string, error) {
	if err := key.Validate(); err != nil {
		return "", err
	}
	kek, err := k.deriveKEK(userID)
	if err != nil {
		return "", err
	}
	defer clear(kek)

	blob, err := k.seal(kek, key, []byte(userID))
	if err != nil {
		return "", err
	}
	return tokenEncoding.EncodeToString(blob), nil
}

// UnwrapKey implements [KeyChainService].
func (k *keyChainService) UnwrapKey(wrapped string, userID string) (Key, error) {
	kek, err := k.deriveKEK(userID)
	if err != nil {
		return nil, err
	}
	defer clear(kek)

	blob, err := tokenEncoding.DecodeString(wrapped)
	if err != nil {
		return nil, errors.Join(ErrMalformedToken, err)
	}

	raw, err := open(kek, blob, []byte(userID))
	if err != nil {
		return nil, err
	}

	key := Key(raw)
	if err := key.Validate(); err != nil {
		return nil, err
	}
	return key, nil
}

func (k *keyChainService) deriveKEK(userID string) (Key, error) {
	if !k.HasMasterKey() {
		return nil, ErrNoMasterKey
	}

	reader := hkdf.New(sha256.New, k.masterKey, []byte(userID), []byte(kekInfo))
	kek := make(Key, KeySize)
	if _, err := io.ReadFull(reader, kek); err != nil {
		return nil, fmt.Errorf("%w: derive key: %w", ErrCrypto, err)
	}
	return kek, nil
}

// seal returns version ‖ nonce ‖ ciphertext+tag with a fresh random nonce.
func (k *keyChainService) seal(key Key, plaintext, aad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(k.random, nonce); err != nil {
		return nil, errors.Join(ErrRandomSource, err)
	}

	blob := make([]byte, 0, 1+len(nonce)+len(plaintext)+gcm.Overhead())
	blob = append(blob, tokenVersion)
	blob = append(blob, nonce...)
	return gcm.Seal(blob, nonce, plaintext, versionedAAD(aad)), nil
}

func open(key Key, blob, aad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(blob) < 1+gcm.NonceSize()+gcm.Overhead() {
		return nil, ErrMalformedToken
	}
	if blob[0] != tokenVersion {
		return nil, ErrUnsupportedVersion
	}

	nonce := blob[1 : 1+gcm.NonceSize()]
	ciphertext := blob[1+gcm.NonceSize():]

	// A failure here means the wrong key or a tampered token.
	plaintext, err := gcm.Open(nil, nonce, ciphertext, versionedAAD(aad))
	if err != nil {
		return nil, errors.Join(ErrAuthenticationFailed, err)
	}
	return plaintext, nil
}

func newGCM(key Key) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(ErrInvalidKey, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: create gcm: %w", ErrCrypto, err)
	}
	return gcm, nil
}

// versionedAAD authenticates the version byte together with caller data.
func versionedAAD(aad []byte) []byte {
	out := make([]byte, 0, 1+len(aad))
	out = append(out, tokenVersion)
	return append(out, aad...)
}
