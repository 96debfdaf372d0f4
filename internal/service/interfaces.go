package service

import (
	"context"

	"github.com/MKhiriev/go-secret-vault/internal/totp"
	"github.com/MKhiriev/go-secret-vault/models"
)

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// Vaults hands out vaults scoped to a single user id.
type Vaults interface {
	ForUser(userID string) (Vault, error)
}

// Vault is the per-user view of the secret store. Entries returned by any
// method carry Password, Notes and TotpSecret in plaintext.
type Vault interface {
	Create(ctx context.Context, fields models.EntryFields) (models.VaultEntry, error)
	Get(ctx context.Context, id string) (models.VaultEntry, error)
	List(ctx context.Context) ([]models.VaultEntry, error)
	Update(ctx context.Context, id string, update models.EntryUpdate) (models.VaultEntry, error)
	Delete(ctx context.Context, id string) (bool, error)

	// Search matches query case-insensitively against title, username and
	// url. Every entry is decrypted, so a search costs O(n).
	Search(ctx context.Context, query string) ([]models.VaultEntry, error)

	// EntryCode returns the current code of the entry's bound TOTP secret.
	EntryCode(ctx context.Context, id string) (models.TotpCode, error)
	EntryProvisioningURI(ctx context.Context, id string) (string, error)

	TotpKeys() TotpKeys
}

// TotpKeys manages the user's freestanding TOTP credentials.
type TotpKeys interface {
	Create(ctx context.Context, fields models.TotpKeyFields) (models.TotpKey, error)
	Get(ctx context.Context, id string) (models.TotpKey, error)
	List(ctx context.Context) ([]models.TotpKey, error)
	Update(ctx context.Context, id string, update models.TotpKeyUpdate) (models.TotpKey, error)
	Delete(ctx context.Context, id string) (bool, error)

	Code(ctx context.Context, id string) (models.TotpCode, error)
	Verify(ctx context.Context, id, code string) (bool, error)
	ProvisioningURI(ctx context.Context, id string) (string, error)
}

// TotpService works on secrets supplied by the caller and touches no storage.
type TotpService interface {
	GenerateSecret(ctx context.Context) (string, error)
	Code(ctx context.Context, secret string, params totp.Params) (models.TotpCode, error)
}
