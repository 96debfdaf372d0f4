// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog"
)

// masterKeySize mirrors the AES-256 key size of the crypto package.
const masterKeySize = 32

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if err := cfg.Storage.validate(); err != nil {
		return err
	}

	if cfg.App.TokenSignKey == "" {
		return fmt.Errorf("%w: token sign key is required", ErrInvalidAppConfigs)
	}
	if _, err := zerolog.ParseLevel(cfg.App.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAppConfigs, err)
	}
	if cfg.App.VerifySkew() < 0 {
		return fmt.Errorf("%w: totp skew must not be negative", ErrInvalidAppConfigs)
	}
	if cfg.App.MasterKey != "" {
		if _, err := cfg.App.DecodedMasterKey(); err != nil {
			return err
		}
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	return nil
}

func (s Storage) validate() error {
	switch s.Driver {
	case DriverMemory:
		return nil
	case DriverFile:
		if s.FilePath == "" {
			return fmt.Errorf("%w: file driver needs a file path", ErrInvalidStorageConfigs)
		}
	case DriverSQLite, DriverPostgres:
		if s.DB.DSN == "" {
			return fmt.Errorf("%w: %s driver needs a DSN", ErrInvalidStorageConfigs, s.Driver)
		}
	case DriverRedis:
		if s.Redis.URL == "" {
			return fmt.Errorf("%w: redis driver needs a URL", ErrInvalidStorageConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidStorageConfigs, s.Driver)
	}

	if s.Driver != DriverFile && s.DocumentID == "" {
		return fmt.Errorf("%w: document id is required", ErrInvalidStorageConfigs)
	}
	return nil
}

// DecodedMasterKey returns the raw master key, or nil when none is set.
func (a App) DecodedMasterKey() ([]byte, error) {
	if a.MasterKey == "" {
		return nil, nil
	}

	key, err := base64.StdEncoding.DecodeString(a.MasterKey)
	if err != nil {
		key, err = base64.URLEncoding.DecodeString(a.MasterKey)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: master key is not base64: %w", ErrInvalidAppConfigs, err)
	}
	if len(key) != masterKeySize {
		return nil, fmt.Errorf("%w: master key must be %d bytes", ErrInvalidAppConfigs, masterKeySize)
	}
	return key, nil
}
