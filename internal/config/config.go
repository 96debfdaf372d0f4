// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// Storage drivers accepted in [Storage.Driver].
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// StructuredConfig is the top-level configuration container. It is
// populated by merging defaults, a .env file, environment variables,
// command-line flags and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env      : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds key material, token and TOTP settings.
	App App `envPrefix:"APP_"`

	// Storage selects and configures the vault document backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the HTTP listener settings.
	Server Server `envPrefix:"SERVER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`

	// DotEnvPath is the .env file loaded before environment parsing.
	// Env: DOTENV
	DotEnvPath string `env:"DOTENV"`
}

// App holds application-level settings.
type App struct {
	// Version is reported by the /api/version endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// LogLevel is a zerolog level name such as "debug" or "info".
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// MasterKey is an optional base64 32-byte key. When set, every per-user
	// key is stored wrapped under a key derived from it.
	// Env: APP_MASTER_KEY
	MasterKey string `env:"MASTER_KEY"`

	// TokenSignKey verifies (and, for cmd/token, signs) bearer tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the expected "iss" claim.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is the lifetime of tokens minted by cmd/token.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// TotpIssuer labels provisioning URIs of keys that carry no issuer.
	// Env: APP_TOTP_ISSUER
	TotpIssuer string `env:"TOTP_ISSUER"`

	// TotpSkew is how many adjacent time steps Verify tolerates. It is a
	// pointer so that an explicit 0 in a later layer replaces an earlier value.
	// Env: APP_TOTP_SKEW
	TotpSkew *int `env:"TOTP_SKEW"`
}

// VerifySkew returns the configured skew, 0 when unset.
func (a App) VerifySkew() int {
	if a.TotpSkew == nil {
		return 0
	}
	return *a.TotpSkew
}

// Storage configures the document backend.
type Storage struct {
	// Driver is one of memory, file, sqlite, postgres, redis.
	// Env: STORAGE_DRIVER
	Driver string `env:"DRIVER"`

	// FilePath is the YAML (or .json) document for the file driver.
	// Env: STORAGE_FILE_PATH
	FilePath string `env:"FILE_PATH"`

	// DocumentID names the row or key holding the document in shared
	// backends, so several vaults can share one database.
	// Env: STORAGE_DOCUMENT_ID
	DocumentID string `env:"DOCUMENT_ID"`

	// DB holds the SQL connection settings.
	DB DB `envPrefix:"DB_"`

	// Redis holds the Redis connection settings.
	Redis Redis `envPrefix:"REDIS_"`
}

// DB holds connection settings for the SQL backends.
type DB struct {
	// DSN is a PostgreSQL URL or an SQLite file path.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Redis holds connection settings for the Redis backend.
type Redis struct {
	// URL in the form redis://:password@localhost:6379/0.
	// Env: STORAGE_REDIS_URL
	URL string `env:"URL"`

	// RetryAttempts is the number of connection attempts at startup.
	// Env: STORAGE_REDIS_RETRY_ATTEMPTS
	RetryAttempts int `env:"RETRY_ATTEMPTS"`

	// RetryInterval is the pause between connection attempts.
	// Env: STORAGE_REDIS_RETRY_INTERVAL
	RetryInterval time.Duration `env:"RETRY_INTERVAL"`

	// ConnectTimeout bounds the whole connection phase.
	// Env: STORAGE_REDIS_CONNECT_TIMEOUT
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT"`
}

// Server holds settings for the inbound HTTP transport.
type Server struct {
	// HTTPAddress is the listen address in "host:port" form.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// ShutdownTimeout bounds graceful shutdown.
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// Defaults returns the lowest-priority configuration layer.
func Defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			Version:       "dev",
			LogLevel:      "info",
			TokenIssuer:   "go-secret-vault",
			TokenDuration: 24 * time.Hour,
			TotpIssuer:    "go-secret-vault",
			TotpSkew:      new(0),
		},
		Storage: Storage{
			Driver:     DriverFile,
			FilePath:   "vault.yaml",
			DocumentID: "default",
			Redis: Redis{
				RetryAttempts:  3,
				RetryInterval:  time.Second,
				ConnectTimeout: 30 * time.Second,
			},
		},
		Server: Server{
			HTTPAddress:     "localhost:8080",
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		DotEnvPath: ".env",
	}
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all sources in priority order (last source wins for non-zero fields):
//  1. Defaults
//  2. .env file (exported into the environment)
//  3. Environment variables
//  4. Command-line flags
//  5. JSON file (path resolved from sources 3 and 4)
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withDotEnv(args).
		withEnv().
		withFlags(args).
		withJSON().
		build()
}
