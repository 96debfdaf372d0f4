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

func (u *userVault) Create(ctx context.Context, fields models.EntryFields) (models.VaultEntry, error) {
	if err := u.deps.Validator.Validate(ctx, fields); err != nil {
		return models.VaultEntry{}, err
	}

	now := u.now()
	entry := normalizeEntry(models.VaultEntry{
		ID:           u.deps.IDs.Generate(),
		Title:        fields.Title,
		Username:     fields.Username,
		Password:     fields.Password,
		URL:          fields.URL,
		Notes:        fields.Notes,
		Category:     fields.Category,
		TotpSecret:   fields.TotpSecret,
		TotpDigits:   fields.TotpDigits,
		TotpInterval: fields.TotpInterval,
		CreatedAt:    now,
		UpdatedAt:    now,
	})

	err := u.update(ctx, func(rec *models.UserRecord, key crypto.Key) error {
		stored, err := sealEntry(u.deps.KeyChain, key, entry)
		if err != nil {
			return err
		}
		rec.Entries[entry.ID] = stored
		return nil
	})
	if err != nil {
		return models.VaultEntry{}, fmt.Errorf("error creating vault entry: %w", err)
	}

	u.logger.Debug().
		Str("user_id", u.userID).
		Str("entry_id", entry.ID).
		Msg("vault entry created")

	return entry, nil
}

func (u *userVault) Get(ctx context.Context, id string) (models.VaultEntry, error) {
	var entry models.VaultEntry
	err := u.view(ctx, func(rec *models.UserRecord, key crypto.Key) error {
		stored, ok := rec.Entries[id]
		if !ok {
			return ErrEntryNotFound
		}

		var err error
		entry, err = openEntry(u.deps.KeyChain, key, id, stored)
		return err
	})
	if err != nil {
		return models.VaultEntry{}, fmt.Errorf("error getting vault entry %s: %w", id, err)
	}

	return entry, nil
}

func (u *userVault) List(ctx context.Context) ([]models.VaultEntry, error) {
	entries, err := u.all(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing vault entries: %w", err)
	}

	return entries, nil
}

func (u *userVault) Search(ctx context.Context, query string) ([]models.VaultEntry, error) {
	entries, err := u.all(ctx)
	if err != nil {
		return nil, fmt.Errorf("error searching vault entries: %w", err)
	}
	if query == "" {
		return entries, nil
	}

	fold := cases.Fold()
	needle := fold.String(query)

	return slices.DeleteFunc(entries, func(e models.VaultEntry) bool {
		return !strings.Contains(fold.String(e.Title), needle) &&
			!strings.Contains(fold.String(e.Username), needle) &&
			!strings.Contains(fold.String(e.URL), needle)
	}), nil
}

func (u *userVault) Update(ctx context.Context, id string, update models.EntryUpdate) (models.VaultEntry, error) {
	if err := u.deps.Validator.Validate(ctx, update); err != nil {
		return models.VaultEntry{}, err
	}

	var entry models.VaultEntry
	err := u.update(ctx, func(rec *models.UserRecord, key crypto.Key) error {
		stored, ok := rec.Entries[id]
		if !ok {
			return ErrEntryNotFound
		}

		current, err := openEntry(u.deps.KeyChain, key, id, stored)
		if err != nil {
			return err
		}

		entry = normalizeEntry(update.Apply(current))
		entry.CreatedAt = current.CreatedAt
		entry.UpdatedAt = u.now()

		// all three sensitive fields are sealed again with fresh nonces
		stored, err = sealEntry(u.deps.KeyChain, key, entry)
		if err != nil {
			return err
		}
		rec.Entries[id] = stored
		return nil
	})
	if err != nil {
		return models.VaultEntry{}, fmt.Errorf("error updating vault entry %s: %w", id, err)
	}

	u.logger.Debug().
		Str("user_id", u.userID).
		Str("entry_id", id).
		Msg("vault entry updated")

	return entry, nil
}

func (u *userVault) Delete(ctx context.Context, id string) (bool, error) {
	existed := false
	err := u.update(ctx, func(rec *models.UserRecord, _ crypto.Key) error {
		if _, existed = rec.Entries[id]; !existed {
			return errNothingToSave
		}
		delete(rec.Entries, id)
		return nil
	})
	if err != nil && !errors.Is(err, errNothingToSave) {
		return false, fmt.Errorf("error deleting vault entry %s: %w", id, err)
	}

	if existed {
		u.logger.Debug().
			Str("user_id", u.userID).
			Str("entry_id", id).
			Msg("vault entry deleted")
	}

	return existed, nil
}

func (u *userVault) EntryCode(ctx context.Context, id string) (models.TotpCode, error) {
	entry, err := u.Get(ctx, id)
	if err != nil {
		return models.TotpCode{}, err
	}
	if !entry.HasTotp() {
		return models.TotpCode{}, ErrNoTotpSecret
	}

	return u.codeFor(entry.TotpSecret, entryParams(entry))
}

func (u *userVault) EntryProvisioningURI(ctx context.Context, id string) (string, error) {
	entry, err := u.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !entry.HasTotp() {
		return "", ErrNoTotpSecret
	}

	return totp.ProvisioningURI(entry.TotpSecret, entry.Title, u.totpIssuer, entryParams(entry))
}

func (u *userVault) all(ctx context.Context) ([]models.VaultEntry, error) {
	var entries []models.VaultEntry
	err := u.view(ctx, func(rec *models.UserRecord, key crypto.Key) error {
		entries = make([]models.VaultEntry, 0, len(rec.Entries))
		for id, stored := range rec.Entries {
			entry, err := openEntry(u.deps.KeyChain, key, id, stored)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortEntries(entries)
	return entries, nil
}

// sortEntries orders by case-folded title, then creation time, then id.
func sortEntries(entries []models.VaultEntry) {
	fold := cases.Fold()
	slices.SortFunc(entries, func(a, b models.VaultEntry) int {
		return cmp.Or(
			strings.Compare(fold.String(a.Title), fold.String(b.Title)),
			a.CreatedAt.Compare(b.CreatedAt),
			strings.Compare(a.ID, b.ID),
		)
	})
}

func entryParams(e models.VaultEntry) totp.Params {
	return totp.Params{Digits: e.TotpDigits, Interval: e.TotpInterval}
}

func normalizeEntry(e models.VaultEntry) models.VaultEntry {
	if e.Category == "" {
		e.Category = models.DefaultCategory
	}
	if e.TotpSecret != "" {
		e.TotpSecret = totp.NormalizeSecret(e.TotpSecret)
	}
	params := entryParams(e).WithDefaults()
	e.TotpDigits, e.TotpInterval = params.Digits, params.Interval
	return e
}
