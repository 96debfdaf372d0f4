package service

import (
	"fmt"
	"time"

	"github.com/MKhiriev/go-secret-vault/internal/crypto"
	"github.com/MKhiriev/go-secret-vault/models"
)

// sealEntry converts entry to its at-rest form, encrypting the password,
// notes and TOTP secret under key.
func sealEntry(kc crypto.KeyChainService, key crypto.Key, entry models.VaultEntry) (models.StoredEntry, error) {
	password, err := kc.Encrypt(key, entry.Password)
	if err != nil {
		return models.StoredEntry{}, fmt.Errorf("error encrypting password: %w", err)
	}
	notes, err := kc.Encrypt(key, entry.Notes)
	if err != nil {
		return models.StoredEntry{}, fmt.Errorf("error encrypting notes: %w", err)
	}
	secret, err := kc.Encrypt(key, entry.TotpSecret)
	if err != nil {
		return models.StoredEntry{}, fmt.Errorf("error encrypting totp secret: %w", err)
	}

	return models.StoredEntry{
		Title:        entry.Title,
		Username:     entry.Username,
		URL:          entry.URL,
		Category:     string(entry.Category),
		Password:     password,
		Notes:        notes,
		TotpSecret:   secret,
		TotpDigits:   entry.TotpDigits,
		TotpInterval: entry.TotpInterval,
		CreatedAt:    models.FormatTime(entry.CreatedAt),
		UpdatedAt:    models.FormatTime(entry.UpdatedAt),
	}, nil
}

func openEntry(kc crypto.KeyChainService, key crypto.Key, id string, stored models.StoredEntry) (models.VaultEntry, error) {
	password, err := kc.Decrypt(key, stored.Password)
	if err != nil {
		return models.VaultEntry{}, fmt.Errorf("error decrypting password: %w", err)
	}
	notes, err := kc.Decrypt(key, stored.Notes)
	if err != nil {
		return models.VaultEntry{}, fmt.Errorf("error decrypting notes: %w", err)
	}
	secret, err := kc.Decrypt(key, stored.TotpSecret)
	if err != nil {
		return models.VaultEntry{}, fmt.Errorf("error decrypting totp secret: %w", err)
	}

	createdAt, updatedAt, err := parseTimestamps(stored.CreatedAt, stored.UpdatedAt)
	if err != nil {
		return models.VaultEntry{}, err
	}

	category := models.Category(stored.Category)
	if category == "" {
		category = models.DefaultCategory
	}

	return models.VaultEntry{
		ID:           id,
		Title:        stored.Title,
		Username:     stored.Username,
		Password:     password,
		URL:          stored.URL,
		Notes:        notes,
		Category:     category,
		TotpSecret:   secret,
		TotpDigits:   stored.TotpDigits,
		TotpInterval: stored.TotpInterval,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

func sealTotpKey(kc crypto.KeyChainService, key crypto.Key, k models.TotpKey) (models.StoredTotpKey, error) {
	secret, err := kc.Encrypt(key, k.Secret)
	if err != nil {
		return models.StoredTotpKey{}, fmt.Errorf("error encrypting totp secret: %w", err)
	}

	return models.StoredTotpKey{
		Name:      k.Name,
		Issuer:    k.Issuer,
		Secret:    secret,
		Digits:    k.Digits,
		Interval:  k.Interval,
		CreatedAt: models.FormatTime(k.CreatedAt),
		UpdatedAt: models.FormatTime(k.UpdatedAt),
	}, nil
}

func openTotpKey(kc crypto.KeyChainService, key crypto.Key, id string, stored models.StoredTotpKey) (models.TotpKey, error) {
	secret, err := kc.Decrypt(key, stored.Secret)
	if err != nil {
		return models.TotpKey{}, fmt.Errorf("error decrypting totp secret: %w", err)
	}

	createdAt, updatedAt, err := parseTimestamps(stored.CreatedAt, stored.UpdatedAt)
	if err != nil {
		return models.TotpKey{}, err
	}

	return models.TotpKey{
		ID:        id,
		Name:      stored.Name,
		Issuer:    stored.Issuer,
		Secret:    secret,
		Digits:    stored.Digits,
		Interval:  stored.Interval,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func parseTimestamps(created, updated string) (createdAt, updatedAt time.Time, err error) {
	if createdAt, err = models.ParseTime(created); err != nil {
		return createdAt, updatedAt, fmt.Errorf("%w: %w", ErrCorruptedRecord, err)
	}
	if updatedAt, err = models.ParseTime(updated); err != nil {
		return createdAt, updatedAt, fmt.Errorf("%w: %w", ErrCorruptedRecord, err)
	}
	return createdAt, updatedAt, nil
}
