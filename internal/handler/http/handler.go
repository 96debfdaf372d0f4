package http

import (
	"time"

	"github.com/MKhiriev/go-secret-vault/internal/config"
	"github.com/MKhiriev/go-secret-vault/internal/logger"
	"github.com/MKhiriev/go-secret-vault/internal/service"
)

type Handler struct {
	services *service.Services

	tokenSignKey   string
	tokenIssuer    string
	requestTimeout time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		tokenSignKey:   cfg.App.TokenSignKey,
		tokenIssuer:    cfg.App.TokenIssuer,
		requestTimeout: cfg.Server.RequestTimeout,
		logger:         logger,
	}
}
