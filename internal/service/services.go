package service

import (
	"fmt"

	"github.com/MKhiriev/go-secret-vault/internal/clock"
	"github.com/MKhiriev/go-secret-vault/internal/config"
	"github.com/MKhiriev/go-secret-vault/internal/crypto"
	"github.com/MKhiriev/go-secret-vault/internal/logger"
	"github.com/MKhiriev/go-secret-vault/internal/store"
	"github.com/MKhiriev/go-secret-vault/internal/totp"
	"github.com/MKhiriev/go-secret-vault/internal/utils"
	"github.com/MKhiriev/go-secret-vault/internal/validators"
)

type Services struct {
	AppInfoService AppInfoService
	Vaults         Vaults
	TotpService    TotpService
}

func NewServices(storages *store.Storages, keyChain crypto.KeyChainService, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfoService, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	engine := totp.NewEngine(clock.System())

	return &Services{
		AppInfoService: appInfoService,
		Vaults: NewVaults(VaultDeps{
			Documents: storages.Documents,
			KeyChain:  keyChain,
			Engine:    engine,
			Validator: validators.NewVaultValidator(),
			IDs:       utils.NewUUIDGenerator(),
			Clock:     clock.System(),
		}, cfg.App, logger),
		TotpService: NewTotpService(engine, logger),
	}, nil
}
