// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-secret-vault/internal/totp"
	"github.com/MKhiriev/go-secret-vault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "JBSWY3DPEHPK3PXP"

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func validEntryFields() models.EntryFields {
	return models.EntryFields{
		Title:      "mail",
		Username:   "alice",
		Password:   "hunter2",
		TotpSecret: testSecret,
	}
}

func TestNewVaultValidator(t *testing.T) {
	v := NewVaultValidator()
	require.NotNil(t, v)
}

func TestValidate_Dispatch(t *testing.T) {
	v := NewVaultValidator()
	ctx := context.Background()
	fields := validEntryFields()
	update := models.EntryUpdate{Title: strPtr("new")}
	key := models.TotpKeyFields{Name: "github"}
	keyUpdate := models.TotpKeyUpdate{Issuer: strPtr("GitHub")}

	tests := []struct {
		name    string
		obj     any
		wantErr error
	}{
		{name: "entry fields value", obj: fields},
		{name: "entry fields pointer", obj: &fields},
		{name: "entry update value", obj: update},
		{name: "entry update pointer", obj: &update},
		{name: "totp key fields value", obj: key},
		{name: "totp key fields pointer", obj: &key},
		{name: "totp key update value", obj: keyUpdate},
		{name: "totp key update pointer", obj: &keyUpdate},
		{name: "unsupported type", obj: "string", wantErr: ErrUnsupportedType},
		{name: "nil", obj: nil, wantErr: ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, tt.obj)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateEntryFields(t *testing.T) {
	v := NewVaultValidator()

	tests := []struct {
		name    string
		mutate  func(f *models.EntryFields)
		wantErr error
	}{
		{name: "valid", mutate: func(f *models.EntryFields) {}},
		{name: "no totp secret", mutate: func(f *models.EntryFields) { f.TotpSecret = "" }},
		{name: "lowercase spaced secret", mutate: func(f *models.EntryFields) { f.TotpSecret = "jbsw y3dp ehpk 3pxp" }},
		{name: "empty title", mutate: func(f *models.EntryFields) { f.Title = "" }, wantErr: ErrEmptyTitle},
		{name: "empty password", mutate: func(f *models.EntryFields) { f.Password = "" }, wantErr: ErrEmptyPassword},
		{name: "bad secret", mutate: func(f *models.EntryFields) { f.TotpSecret = "not base32!" }, wantErr: totp.ErrInvalidSecret},
		{name: "digits too small", mutate: func(f *models.EntryFields) { f.TotpDigits = 5 }, wantErr: ErrInvalidDigits},
		{name: "digits too large", mutate: func(f *models.EntryFields) { f.TotpDigits = 9 }, wantErr: ErrInvalidDigits},
		{name: "eight digits", mutate: func(f *models.EntryFields) { f.TotpDigits = 8 }},
		{name: "negative interval", mutate: func(f *models.EntryFields) { f.TotpInterval = -30 }, wantErr: ErrInvalidInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validEntryFields()
			tt.mutate(&fields)

			err := v.Validate(context.Background(), fields)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateEntryFields_ScopedFields(t *testing.T) {
	v := NewVaultValidator()
	fields := models.EntryFields{Title: "only title"}

	assert.NoError(t, v.Validate(context.Background(), fields, FieldTitle))
	assert.ErrorIs(t, v.Validate(context.Background(), fields, FieldTitle, FieldPassword), ErrEmptyPassword)
	assert.ErrorIs(t, v.Validate(context.Background(), fields, "color"), ErrUnknownField)
}

func TestValidateEntryUpdate(t *testing.T) {
	v := NewVaultValidator()

	tests := []struct {
		name    string
		update  models.EntryUpdate
		wantErr error
	}{
		{name: "title only", update: models.EntryUpdate{Title: strPtr("new")}},
		{name: "clear notes", update: models.EntryUpdate{Notes: strPtr("")}},
		{name: "unbind totp secret", update: models.EntryUpdate{TotpSecret: strPtr("")}},
		{name: "empty update", update: models.EntryUpdate{}, wantErr: ErrNoFieldsToUpdate},
		{name: "empty title", update: models.EntryUpdate{Title: strPtr("")}, wantErr: ErrEmptyTitle},
		{name: "empty password", update: models.EntryUpdate{Password: strPtr("")}, wantErr: ErrEmptyPassword},
		{name: "bad secret", update: models.EntryUpdate{TotpSecret: strPtr("1111")}, wantErr: totp.ErrInvalidSecret},
		{name: "bad digits", update: models.EntryUpdate{TotpDigits: intPtr(10)}, wantErr: ErrInvalidDigits},
		{name: "bad interval", update: models.EntryUpdate{TotpInterval: intPtr(-1)}, wantErr: ErrInvalidInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tt.update)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateTotpKeyFields(t *testing.T) {
	v := NewVaultValidator()

	tests := []struct {
		name    string
		fields  models.TotpKeyFields
		wantErr error
	}{
		{name: "generated secret", fields: models.TotpKeyFields{Name: "github"}},
		{name: "supplied secret", fields: models.TotpKeyFields{Name: "github", Secret: testSecret, Digits: 8, Interval: 60}},
		{name: "empty name", fields: models.TotpKeyFields{Secret: testSecret}, wantErr: ErrEmptyName},
		{name: "bad secret", fields: models.TotpKeyFields{Name: "github", Secret: "0000"}, wantErr: totp.ErrInvalidSecret},
		{name: "bad digits", fields: models.TotpKeyFields{Name: "github", Digits: 4}, wantErr: ErrInvalidDigits},
		{name: "bad interval", fields: models.TotpKeyFields{Name: "github", Interval: -5}, wantErr: ErrInvalidInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tt.fields)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateTotpKeyUpdate(t *testing.T) {
	v := NewVaultValidator()

	tests := []struct {
		name    string
		update  models.TotpKeyUpdate
		wantErr error
	}{
		{name: "rename", update: models.TotpKeyUpdate{Name: strPtr("gitlab")}},
		{name: "clear issuer", update: models.TotpKeyUpdate{Issuer: strPtr("")}},
		{name: "new secret", update: models.TotpKeyUpdate{Secret: strPtr(testSecret)}},
		{name: "empty update", update: models.TotpKeyUpdate{}, wantErr: ErrNoFieldsToUpdate},
		{name: "empty name", update: models.TotpKeyUpdate{Name: strPtr("")}, wantErr: ErrEmptyName},
		{name: "cleared secret", update: models.TotpKeyUpdate{Secret: strPtr("")}, wantErr: ErrEmptySecret},
		{name: "bad secret", update: models.TotpKeyUpdate{Secret: strPtr("!!")}, wantErr: totp.ErrInvalidSecret},
		{name: "bad digits", update: models.TotpKeyUpdate{Digits: intPtr(12)}, wantErr: ErrInvalidDigits},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tt.update)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}
