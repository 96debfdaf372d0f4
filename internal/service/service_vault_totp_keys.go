package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/MKhiriev/go-secret-vault/internal/crypto"
	"github.com/MKhiriev/go-secret-vault/internal/totp"
	"github.com/MKhiriev/go-secret-vault/models"
	"golang.org/x/text/cases"
)

// userTotpKeys shares the key provisioning and storage of its vault.
type userTotpKeys struct {
	*userVault
}

func (k *userTotpKeys) Create(ctx context.Context, fields models.TotpKeyFields) (models.TotpKey, error) {
	if err := k.deps.Validator.Validate(ctx, fields); err != nil {
		return models.TotpKey{}, err
	}

	secret := fields.Secret
	if secret == "" {
		var err error
		if secret, err = totp.GenerateSecret(); err != nil {
			return models.TotpKey{}, fmt.Errorf("error creating totp key: %w", err)
		}
	}

	now := k.now()
	key := normalizeTotpKey(models.TotpKey{
		ID:        k.deps.IDs.Generate(),
		Name:      fields.Name,
		Issuer:    fields.Issuer,
		Secret:    secret,
		Digits:    fields.Digits,
		Interval:  fields.Interval,
		CreatedAt: now,
		UpdatedAt: now,
	})

	err := k.update(ctx, func(rec *models.UserRecord, userKey crypto.Key) error {
		stored, err := sealTotpKey(k.deps.KeyChain, userKey, key)
		if err != nil {
			return err
		}
		rec.TotpKeys[key.ID] = stored
		return nil
	})
	if err != nil {
		return models.TotpKey{}, fmt.Errorf("error creating totp key: %w", err)
	}

	k.logger.Debug().
		Str("user_id", k.userID).
		Str("totp_key_id", key.ID).
		Msg("totp key created")

	return key, nil
}

func (k *userTotpKeys) Get(ctx context.Context, id string) (models.TotpKey, error) {
	var key models.TotpKey
	err := k.view(ctx, func(rec *models.UserRecord, userKey crypto.Key) error {
		stored, ok := rec.TotpKeys[id]
		if !ok {
			return ErrTotpKeyNotFound
		}

		var err error
		key, err = openTotpKey(k.deps.KeyChain, userKey, id, stored)
		return err
	})
	if err != nil {
		return models.TotpKey{}, fmt.Errorf("error getting totp key %s: %w", id, err)
	}

	return key, nil
}

func (k *userTotpKeys) List(ctx context.Context) ([]models.TotpKey, error) {
	var keys []models.TotpKey
	err := k.view(ctx, func(rec *models.UserRecord, userKey crypto.Key) error {
		keys = make([]models.TotpKey, 0, len(rec.TotpKeys))
		for id, stored := range rec.TotpKeys {
			key, err := openTotpKey(k.deps.KeyChain, userKey, id, stored)
			if err != nil {
				return err
			}
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing totp keys: %w", err)
	}

	fold := cases.Fold()
	slices.SortFunc(keys, func(a, b models.TotpKey) int {
		return cmp.Or(
			strings.Compare(fold.String(a.Name), fold.String(b.Name)),
			a.CreatedAt.Compare(b.CreatedAt),
			strings.Compare(a.ID, b.ID),
		)
	})

	return keys, nil
}

func (k *userTotpKeys) Update(ctx context.Context, id string, update models.TotpKeyUpdate) (models.TotpKey, error) {
	if err := k.deps.Validator.Validate(ctx, update); err != nil {
		return models.TotpKey{}, err
	}

	var key models.TotpKey
	err := k.update(ctx, func(rec *models.UserRecord, userKey crypto.Key) error {
		stored, ok := rec.TotpKeys[id]
		if !ok {
			return ErrTotpKeyNotFound
		}

		current, err := openTotpKey(k.deps.KeyChain, userKey, id, stored)
		if err != nil {
			return err
		}

		key = normalizeTotpKey(update.Apply(current))
		key.CreatedAt = current.CreatedAt
		key.UpdatedAt = k.now()

		stored, err = sealTotpKey(k.deps.KeyChain, userKey, key)
		if err != nil {
			return err
		}
		rec.TotpKeys[id] = stored
		return nil
	})
	if err != nil {
		return models.TotpKey{}, fmt.Errorf("error updating totp key %s: %w", id, err)
	}

	k.logger.Debug().
		Str("user_id", k.userID).
		Str("totp_key_id", id).
		Msg("totp key updated")

	return key, nil
}

func (k *userTotpKeys) Delete(ctx context.Context, id string) (bool, error) {
	existed := false
	err := k.update(ctx, func(rec *models.UserRecord, _ crypto.Key) error {
		if _, existed = rec.TotpKeys[id]; !existed {
			return errNothingToSave
		}
		delete(rec.TotpKeys, id)
		return nil
	})
	if err != nil && !errors.Is(err, errNothingToSave) {
		return false, fmt.Errorf("error deleting totp key %s: %w", id, err)
	}

	if existed {
		k.logger.Debug().
			Str("user_id", k.userID).
			Str("totp_key_id", id).
			Msg("totp key deleted")
	}

	return existed, nil
}

func (k *userTotpKeys) Code(ctx context.Context, id string) (models.TotpCode, error) {
	key, err := k.Get(ctx, id)
	if err != nil {
		return models.TotpCode{}, err
	}

	return k.codeFor(key.Secret, keyParams(key))
}

func (k *userTotpKeys) Verify(ctx context.Context, id, code string) (bool, error) {
	key, err := k.Get(ctx, id)
	if err != nil {
		return false, err
	}

	return k.deps.Engine.Verify(key.Secret, code, keyParams(key), k.totpSkew)
}

// ProvisioningURI labels the key with its own issuer, or the configured
// default issuer when it has none.
func (k *userTotpKeys) ProvisioningURI(ctx context.Context, id string) (string, error) {
	key, err := k.Get(ctx, id)
	if err != nil {
		return "", err
	}

	issuer := cmp.Or(key.Issuer, k.totpIssuer)
	return totp.ProvisioningURI(key.Secret, key.Name, issuer, keyParams(key))
}

func keyParams(k models.TotpKey) totp.Params {
	return totp.Params{Digits: k.Digits, Interval: k.Interval}
}

func normalizeTotpKey(k models.TotpKey) models.TotpKey {
	k.Secret = totp.NormalizeSecret(k.Secret)
	params := keyParams(k).WithDefaults()
	k.Digits, k.Interval = params.Digits, params.Interval
	return k
}
