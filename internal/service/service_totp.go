package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-secret-vault/internal/logger"
	"github.com/MKhiriev/go-secret-vault/internal/totp"
	"github.com/MKhiriev/go-secret-vault/internal/validators"
	"github.com/MKhiriev/go-secret-vault/models"
)

type totpService struct {
	engine *totp.Engine

	logger *logger.Logger
}

func NewTotpService(engine *totp.Engine, logger *logger.Logger) TotpService {
	return &totpService{
		engine: engine,
		logger: logger,
	}
}

func (s *totpService) GenerateSecret(ctx context.Context) (string, error) {
	secret, err := totp.GenerateSecret()
	if err != nil {
		return "", fmt.Errorf("error generating totp secret: %w", err)
	}

	return secret, nil
}

// Code computes the current code of a caller-supplied secret. Bad input is
// reported as a validation error.
func (s *totpService) Code(ctx context.Context, secret string, params totp.Params) (models.TotpCode, error) {
	if err := params.Validate(); err != nil {
		return models.TotpCode{}, fmt.Errorf("%w: %w", validators.ErrValidation, err)
	}
	if err := totp.ValidateSecret(secret); err != nil {
		return models.TotpCode{}, fmt.Errorf("%w: %w", validators.ErrValidation, err)
	}

	return totpCode(s.engine, secret, params)
}
