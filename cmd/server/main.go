package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/go-secret-vault/internal/config"
	"github.com/MKhiriev/go-secret-vault/internal/crypto"
	"github.com/MKhiriev/go-secret-vault/internal/handler"
	"github.com/MKhiriev/go-secret-vault/internal/logger"
	"github.com/MKhiriev/go-secret-vault/internal/server"
	"github.com/MKhiriev/go-secret-vault/internal/service"
	"github.com/MKhiriev/go-secret-vault/internal/store"
	"github.com/MKhiriev/go-secret-vault/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(buildInfo)

	log := logger.NewLogger("go-secret-vault")
	cfg, err := config.GetStructuredConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err := logger.SetLevel(cfg.App.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("error setting log level")
	}
	if buildVersion != "" {
		cfg.App.Version = buildInfo.BuildVersion()
	}

	masterKey, err := cfg.App.DecodedMasterKey()
	if err != nil {
		log.Fatal().Err(err).Msg("error decoding master key")
	}

	keyChain, err := crypto.NewKeyChainService(masterKey)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating key chain")
	}
	if !keyChain.HasMasterKey() {
		log.Warn().Msg("no master key configured, per-user keys are stored unwrapped")
	}

	storages, err := store.NewStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if err := storages.Documents.Close(); err != nil {
			log.Error().Err(err).Msg("error closing storage")
		}
	}()

	services, err := service.NewServices(storages, keyChain, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err := srv.RunServer(); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", info.BuildVersion())
	fmt.Printf("Build date: %s\n", info.BuildDate())
	fmt.Printf("Build commit: %s\n", info.BuildCommit())
}
