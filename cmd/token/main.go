// Command token mints a bearer token for the vault API. It reads the same
// configuration as the server, so the signing key and issuer always match.
//
//	go run ./cmd/token alice -token-sign-key secret
package main

import (
	"fmt"
	"os"

	"github.com/MKhiriev/go-secret-vault/internal/config"
	"github.com/MKhiriev/go-secret-vault/internal/logger"
	"github.com/MKhiriev/go-secret-vault/internal/utils"
)

func main() {
	log := logger.NewLogger("go-secret-vault-token")

	if len(os.Args) < 2 || os.Args[1] == "" || os.Args[1][0] == '-' {
		log.Fatal().Msg("usage: token <user-id> [config flags]")
	}
	userID := os.Args[1]

	cfg, err := config.GetStructuredConfig(os.Args[2:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	token, err := utils.GenerateJWTToken(cfg.App.TokenIssuer, userID, cfg.App.TokenDuration, cfg.App.TokenSignKey)
	if err != nil {
		log.Fatal().Err(err).Msg("error generating token")
	}

	fmt.Println(token.SignedString)
}
