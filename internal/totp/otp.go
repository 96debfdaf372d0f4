// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package totp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultDigits   = 6  // RFC 6238 standard
	DefaultInterval = 30 // seconds
	MinDigits       = 6
	MaxDigits       = 8

	// SecretSize is the raw size of generated secrets: 160 bits, as RFC 4226
	// recommends for HMAC-SHA1.
	SecretSize = 20
)

var (
	secretEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)
	secretRegex    = regexp.MustCompile("^[A-Z2-7]+$")
)

// Params holds the code-generation parameters of a TOTP credential.
// Zero values are replaced by the RFC 6238 defaults.
type Params struct {
	Digits   int // length of generated codes, 6 to 8
	Interval int // time step in seconds
}

// WithDefaults returns a copy with zero-valued fields set to the defaults.
func (p Params) WithDefaults() Params {
	if p.Digits == 0 {
		p.Digits = DefaultDigits
	}
	if p.Interval == 0 {
		p.Interval = DefaultInterval
	}
	return p
}

// Validate checks the parameters after defaults have been applied.
func (p Params) Validate() error {
	p = p.WithDefaults()
	if p.Digits < MinDigits || p.Digits > MaxDigits {
		return ErrInvalidDigits
	}
	if p.Interval <= 0 {
		return ErrInvalidInterval
	}
	return nil
}

// NormalizeSecret upper-cases secret and strips whitespace, dashes and
// padding, the forms users commonly paste from other apps.
func NormalizeSecret(secret string) string {
	secret = strings.ToUpper(secret)
	secret = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '-', '=':
			return -1
		}
		return r
	}, secret)
	return secret
}

// DecodeSecret returns the raw key bytes of a base32 secret.
func DecodeSecret(secret string) ([]byte, error) {
	secret = NormalizeSecret(secret)
	if secret == "" || !secretRegex.MatchString(secret) {
		return nil, ErrInvalidSecret
	}

	key, err := secretEncoding.DecodeString(secret)
	if err != nil {
		return nil, errors.Join(ErrInvalidSecret, err)
	}
	if len(key) == 0 {
		return nil, ErrInvalidSecret
	}

	return key, nil
}

// ValidateSecret reports whether secret is usable for code generation.
func ValidateSecret(secret string) error {
	_, err := DecodeSecret(secret)
	return err
}

// GenerateSecret returns a fresh base32 secret of [SecretSize] random bytes
// read from the OS CSPRNG.
func GenerateSecret() (string, error) {
	raw := make([]byte, SecretSize)
	if _, err := rand.Read(raw); err != nil {
		return "", errors.Join(ErrFailedToGenerateSecret, err)
	}
	return secretEncoding.EncodeToString(raw), nil
}

// HOTP computes the RFC 4226 code for key and counter, zero-padded to digits.
func HOTP(key []byte, counter uint64, digits int) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(sha1.New, key)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	// dynamic truncation: low nibble of the last byte selects a 31-bit window
	offset := sum[len(sum)-1] & 0x0f
	value := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff

	mod := uint32(1)
	for range digits {
		mod *= 10
	}

	return fmt.Sprintf("%0*d", digits, value%mod)
}

// ProvisioningURI builds the otpauth:// URI authenticator apps import, in the
// form
//
//	otpauth://totp/{issuer}:{account}?secret={secret}&issuer={issuer}&digits={digits}&period={interval}
//
// When issuer is empty the label is the account alone and the issuer
// parameter is omitted.
func ProvisioningURI(secret, accountName, issuer string, params Params) (string, error) {
	if err := ValidateSecret(secret); err != nil {
		return "", err
	}
	if strings.TrimSpace(accountName) == "" {
		return "", ErrMissingAccountName
	}
	if err := params.Validate(); err != nil {
		return "", err
	}
	params = params.WithDefaults()

	label := url.PathEscape(accountName)
	if issuer != "" {
		label = url.PathEscape(issuer) + ":" + label
	}

	var b strings.Builder
	b.WriteString("otpauth://totp/")
	b.WriteString(label)
	b.WriteString("?secret=")
	b.WriteString(NormalizeSecret(secret))
	if issuer != "" {
		b.WriteString("&issuer=")
		b.WriteString(queryEscape(issuer))
	}
	b.WriteString("&digits=")
	b.WriteString(strconv.Itoa(params.Digits))
	b.WriteString("&period=")
	b.WriteString(strconv.Itoa(params.Interval))

	return b.String(), nil
}

// queryEscape escapes spaces as %20; several authenticator apps show a
// literal '+' otherwise.
func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
