// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-secret-vault/internal/clock"
	"github.com/MKhiriev/go-secret-vault/internal/config"
	"github.com/MKhiriev/go-secret-vault/internal/crypto"
	"github.com/MKhiriev/go-secret-vault/internal/logger"
	"github.com/MKhiriev/go-secret-vault/internal/store"
	"github.com/MKhiriev/go-secret-vault/internal/totp"
	"github.com/MKhiriev/go-secret-vault/internal/utils"
	"github.com/MKhiriev/go-secret-vault/internal/validators"
	"github.com/MKhiriev/go-secret-vault/models"
)

// VaultDeps groups the collaborators shared by every user vault.
type VaultDeps struct {
	Documents store.DocumentStore
	KeyChain  crypto.KeyChainService
	Engine    *totp.Engine
	Validator validators.Validator
	IDs       utils.IDGenerator
	Clock     clock.Clock
}

type vaults struct {
	deps VaultDeps

	totpIssuer string
	totpSkew   int

	logger *logger.Logger
}

func NewVaults(deps VaultDeps, cfg config.App, logger *logger.Logger) Vaults {
	if deps.Clock == nil {
		deps.Clock = clock.System()
	}
	if deps.Engine == nil {
		deps.Engine = totp.NewEngine(deps.Clock)
	}
	if deps.Validator == nil {
		deps.Validator = validators.NewVaultValidator()
	}
	if deps.IDs == nil {
		deps.IDs = utils.NewUUIDGenerator()
	}

	return &vaults{
		deps:       deps,
		totpIssuer: cfg.TotpIssuer,
		totpSkew:   cfg.VerifySkew(),
		logger:     logger,
	}
}

func (v *vaults) ForUser(userID string) (Vault, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	return &userVault{vaults: v, userID: userID}, nil
}

// userVault is scoped to one user id. It holds no state of its own: every
// call reads the document afresh through the shared store.
type userVault struct {
	*vaults
	userID string
}

func (u *userVault) TotpKeys() TotpKeys {
	return &userTotpKeys{userVault: u}
}

// view runs fn against the user's record and decrypted key. A user seen for
// the first time gets a key persisted by its own write before fn runs, so a
// failing read never discards it.
func (u *userVault) view(ctx context.Context, fn func(rec *models.UserRecord, key crypto.Key) error) error {
	found, err := u.viewExisting(ctx, fn)
	if err != nil || found {
		return err
	}

	if err = u.provision(ctx); err != nil {
		return err
	}

	found, err = u.viewExisting(ctx, fn)
	if err == nil && !found {
		return fmt.Errorf("%w: record of user %s missing after provisioning", store.ErrStorage, u.userID)
	}
	return err
}

func (u *userVault) viewExisting(ctx context.Context, fn func(rec *models.UserRecord, key crypto.Key) error) (bool, error) {
	found := false
	err := u.deps.Documents.View(ctx, func(doc *models.Document) error {
		rec, ok := doc.User(u.userID)
		if !ok {
			return nil
		}
		found = true

		key, err := u.openKey(rec)
		if err != nil {
			return err
		}
		return fn(rec, key)
	})
	return found, err
}

// provision persists a fresh key for the user. It writes nothing when the
// record already exists, so concurrent first reads generate one key.
func (u *userVault) provision(ctx context.Context) error {
	err := u.deps.Documents.Update(ctx, func(doc *models.Document) error {
		if _, ok := doc.User(u.userID); ok {
			return errNothingToSave
		}
		_, _, err := u.recordFor(doc)
		return err
	})
	if errors.Is(err, errNothingToSave) {
		return nil
	}
	return err
}

// update runs fn inside a serialized read-modify-write of the document. The
// user's key is provisioned within the same write if it is missing, so two
// concurrent first accesses can never both generate a key. When fn fails
// after provisioning, the new key is still persisted on a follow-up write.
func (u *userVault) update(ctx context.Context, fn func(rec *models.UserRecord, key crypto.Key) error) error {
	var fresh *models.UserRecord
	err := u.deps.Documents.Update(ctx, func(doc *models.Document) error {
		fresh = nil
		_, existed := doc.User(u.userID)
		rec, key, err := u.recordFor(doc)
		if err != nil {
			return err
		}
		if !existed {
			fresh = models.NewUserRecord(rec.EncryptionKey, rec.KeyWrapped)
		}
		return fn(rec, key)
	})
	if err != nil && fresh != nil {
		if keepErr := u.keepRecord(ctx, fresh); keepErr != nil {
			return errors.Join(err, keepErr)
		}
	}
	return err
}

// keepRecord stores rec unless the user already has a record.
func (u *userVault) keepRecord(ctx context.Context, rec *models.UserRecord) error {
	err := u.deps.Documents.Update(ctx, func(doc *models.Document) error {
		if _, ok := doc.User(u.userID); ok {
			return errNothingToSave
		}
		doc.Users[u.userID] = rec
		return nil
	})
	if errors.Is(err, errNothingToSave) {
		return nil
	}
	return err
}

func (u *userVault) recordFor(doc *models.Document) (*models.UserRecord, crypto.Key, error) {
	if rec, ok := doc.User(u.userID); ok {
		key, err := u.openKey(rec)
		return rec, key, err
	}

	key, err := u.deps.KeyChain.GenerateKey()
	if err != nil {
		return nil, nil, fmt.Errorf("error generating user key: %w", err)
	}

	encoded, wrapped := key.String(), false
	if u.deps.KeyChain.HasMasterKey() {
		encoded, err = u.deps.KeyChain.WrapKey(key, u.userID)
		if err != nil {
			return nil, nil, fmt.Errorf("error wrapping user key: %w", err)
		}
		wrapped = true
	}

	rec := models.NewUserRecord(encoded, wrapped)
	doc.Users[u.userID] = rec

	u.logger.Debug().
		Str("user_id", u.userID).
		Bool("key_wrapped", wrapped).
		Msg("provisioned user key")

	return rec, key, nil
}

func (u *userVault) openKey(rec *models.UserRecord) (crypto.Key, error) {
	if rec.KeyWrapped {
		key, err := u.deps.KeyChain.UnwrapKey(rec.EncryptionKey, u.userID)
		if err != nil {
			return nil, fmt.Errorf("error unwrapping user key: %w", err)
		}
		return key, nil
	}

	key, err := crypto.ParseKey(rec.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("error decoding user key: %w", err)
	}
	return key, nil
}

func (u *userVault) now() time.Time {
	return u.deps.Clock.Now().UTC()
}

// codeFor assembles the code view of secret at the engine's current time.
func (u *userVault) codeFor(secret string, params totp.Params) (models.TotpCode, error) {
	return totpCode(u.deps.Engine, secret, params)
}

func totpCode(engine *totp.Engine, secret string, params totp.Params) (models.TotpCode, error) {
	step, err := engine.Current(secret, params)
	if err != nil {
		return models.TotpCode{}, err
	}

	return models.TotpCode{
		Code:             step.Code,
		SecondsRemaining: step.SecondsRemaining,
		Progress:         step.Progress,
		ValidUntil:       step.ValidUntil,
	}, nil
}
