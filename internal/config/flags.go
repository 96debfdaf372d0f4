package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses command-line flags from args (without the program name).
//
// Flags:
//
//	-a             server address in format [host]:[port]
//	-driver        storage driver: memory, file, sqlite, postgres, redis
//	-f             document file path for the file driver
//	-d             database DSN for the sqlite and postgres drivers
//	-redis-url     redis URL for the redis driver
//	-c / -config   json file path with configs
//	-env           .env file path
//	-master-key    base64 master key wrapping per-user keys
//	-token-sign-key token signing key
//	-token-issuer  token issuer name
//	-token-duration token lifetime (e.g. "1h")
//	-totp-issuer   default issuer in provisioning URIs
//	-totp-skew     accepted adjacent time steps when verifying codes
//	-request-timeout request timeout (e.g. "30s")
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("go-secret-vault", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var serverAddress NetAddress
	var driver, filePath, databaseDSN, redisURL string
	var jsonConfigPath, dotEnvPath string
	var masterKey, tokenSignKey, tokenIssuer, totpIssuer string
	var tokenDuration, requestTimeout time.Duration
	var totpSkew int

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&driver, "driver", "", "Storage driver")
	fs.StringVar(&filePath, "f", "", "Document file path")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&redisURL, "redis-url", "", "Redis URL")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&dotEnvPath, "env", "", ".env file path")
	fs.StringVar(&masterKey, "master-key", "", "Base64 master key")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	fs.StringVar(&totpIssuer, "totp-issuer", "", "Default TOTP issuer")
	fs.IntVar(&totpSkew, "totp-skew", 0, "Accepted adjacent TOTP steps")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	var skew *int
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "totp-skew" {
			skew = &totpSkew
		}
	})

	return &StructuredConfig{
		App: App{
			MasterKey:     masterKey,
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
			TotpIssuer:    totpIssuer,
			TotpSkew:      skew,
		},
		Storage: Storage{
			Driver:   driver,
			FilePath: filePath,
			DB: DB{
				DSN: databaseDSN,
			},
			Redis: Redis{
				URL: redisURL,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		JSONFilePath: jsonConfigPath,
		DotEnvPath:   dotEnvPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is
// "localhost" or empty, and returns an error if the format or values are
// invalid.
func (a *NetAddress) Set(s string) error {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be between 1 and 65535")
	}

	if host != "localhost" && host != "" && !strings.EqualFold(host, "localhost") {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
