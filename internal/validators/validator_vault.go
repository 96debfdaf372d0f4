package validators

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-secret-vault/internal/totp"
	"github.com/MKhiriev/go-secret-vault/models"
)

const (
	FieldTitle        = "title"
	FieldPassword     = "password"
	FieldName         = "name"
	FieldSecret       = "secret"
	FieldTotpSecret   = "totp_secret"
	FieldTotpDigits   = "totp_digits"
	FieldTotpInterval = "totp_interval"
	FieldDigits       = "digits"
	FieldInterval     = "interval"
	FieldUpdate       = "update"
)

// VaultValidator checks vault entries and TOTP keys, both their create
// inputs and their partial updates.
type VaultValidator struct {
}

func NewVaultValidator() Validator {
	return &VaultValidator{}
}

func (v *VaultValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.EntryFields:
		return v.validateEntryFields(ctx, value, fields...)
	case *models.EntryFields:
		return v.validateEntryFields(ctx, *value, fields...)

	case models.EntryUpdate:
		return v.validateEntryUpdate(ctx, value, fields...)
	case *models.EntryUpdate:
		return v.validateEntryUpdate(ctx, *value, fields...)

	case models.TotpKeyFields:
		return v.validateTotpKeyFields(ctx, value, fields...)
	case *models.TotpKeyFields:
		return v.validateTotpKeyFields(ctx, *value, fields...)

	case models.TotpKeyUpdate:
		return v.validateTotpKeyUpdate(ctx, value, fields...)
	case *models.TotpKeyUpdate:
		return v.validateTotpKeyUpdate(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *VaultValidator) validateEntryFields(_ context.Context, data models.EntryFields, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTitle, FieldPassword, FieldTotpSecret, FieldTotpDigits, FieldTotpInterval}
	}

	for _, f := range fields {
		switch f {
		case FieldTitle:
			if data.Title == "" {
				return ErrEmptyTitle
			}
		case FieldPassword:
			if data.Password == "" {
				return ErrEmptyPassword
			}
		case FieldTotpSecret:
			if data.TotpSecret != "" {
				if err := validateSecret(data.TotpSecret); err != nil {
					return err
				}
			}
		case FieldTotpDigits:
			if err := validateDigits(data.TotpDigits); err != nil {
				return err
			}
		case FieldTotpInterval:
			if err := validateInterval(data.TotpInterval); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *VaultValidator) validateEntryUpdate(_ context.Context, update models.EntryUpdate, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUpdate, FieldTitle, FieldPassword, FieldTotpSecret, FieldTotpDigits, FieldTotpInterval}
	}

	for _, f := range fields {
		switch f {
		case FieldUpdate:
			if update.IsEmpty() {
				return ErrNoFieldsToUpdate
			}
		case FieldTitle:
			if update.Title != nil && *update.Title == "" {
				return ErrEmptyTitle
			}
		case FieldPassword:
			if update.Password != nil && *update.Password == "" {
				return ErrEmptyPassword
			}
		case FieldTotpSecret:
			// "" unbinds the secret from the entry
			if update.TotpSecret != nil && *update.TotpSecret != "" {
				if err := validateSecret(*update.TotpSecret); err != nil {
					return err
				}
			}
		case FieldTotpDigits:
			if update.TotpDigits != nil {
				if err := validateDigits(*update.TotpDigits); err != nil {
					return err
				}
			}
		case FieldTotpInterval:
			if update.TotpInterval != nil {
				if err := validateInterval(*update.TotpInterval); err != nil {
					return err
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *VaultValidator) validateTotpKeyFields(_ context.Context, data models.TotpKeyFields, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldSecret, FieldDigits, FieldInterval}
	}

	for _, f := range fields {
		switch f {
		case FieldName:
			if data.Name == "" {
				return ErrEmptyName
			}
		case FieldSecret:
			// empty means generate
			if data.Secret != "" {
				if err := validateSecret(data.Secret); err != nil {
					return err
				}
			}
		case FieldDigits:
			if err := validateDigits(data.Digits); err != nil {
				return err
			}
		case FieldInterval:
			if err := validateInterval(data.Interval); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *VaultValidator) validateTotpKeyUpdate(_ context.Context, update models.TotpKeyUpdate, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUpdate, FieldName, FieldSecret, FieldDigits, FieldInterval}
	}

	for _, f := range fields {
		switch f {
		case FieldUpdate:
			if update.IsEmpty() {
				return ErrNoFieldsToUpdate
			}
		case FieldName:
			if update.Name != nil && *update.Name == "" {
				return ErrEmptyName
			}
		case FieldSecret:
			if update.Secret != nil {
				if *update.Secret == "" {
					return ErrEmptySecret
				}
				if err := validateSecret(*update.Secret); err != nil {
					return err
				}
			}
		case FieldDigits:
			if update.Digits != nil {
				if err := validateDigits(*update.Digits); err != nil {
					return err
				}
			}
		case FieldInterval:
			if update.Interval != nil {
				if err := validateInterval(*update.Interval); err != nil {
					return err
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateSecret(secret string) error {
	if err := totp.ValidateSecret(secret); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

// zero selects the default
func validateDigits(digits int) error {
	if digits == 0 {
		return nil
	}
	if digits < totp.MinDigits || digits > totp.MaxDigits {
		return ErrInvalidDigits
	}
	return nil
}

func validateInterval(interval int) error {
	if interval < 0 {
		return ErrInvalidInterval
	}
	return nil
}
