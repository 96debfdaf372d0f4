// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package qrcode renders otpauth:// provisioning URIs as PNG images that
// authenticator apps can scan.
package qrcode

import (
	"encoding/base64"
	"errors"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	ErrEmptyContent   = errors.New("qr content cannot be empty")
	ErrFailedToEncode = errors.New("failed to encode qr code")
)

const (
	DefaultSize = 256
	MaxSize     = 1024
)

// PNG encodes content at medium error correction. Sizes outside
// (0, MaxSize] fall back to DefaultSize.
func PNG(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 || size > MaxSize {
		size = DefaultSize
	}

	png, err := skipqrcode.Encode(content, skipqrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrFailedToEncode, err)
	}
	return png, nil
}

// DataURI returns the PNG as a data:image/png;base64 URI for embedding in
// JSON responses.
func DataURI(content string, size int) (string, error) {
	png, err := PNG(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
