package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk shape of the JSON config file.
type StructuredJSONConfig struct {
	App struct {
		Version       string   `json:"version"`
		MasterKey     string   `json:"master_key"`
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
		TotpIssuer    string   `json:"totp_issuer"`
		TotpSkew      *int     `json:"totp_skew"`
	} `json:"app,omitempty"`

	Storage struct {
		Driver     string `json:"driver"`
		FilePath   string `json:"file_path"`
		DocumentID string `json:"document_id"`

		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Redis struct {
			URL            string   `json:"url"`
			RetryAttempts  int      `json:"retry_attempts"`
			RetryInterval  Duration `json:"retry_interval"`
			ConnectTimeout Duration `json:"connect_timeout"`
		} `json:"redis,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress     string   `json:"http_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
	} `json:"server,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Version:       jsonCfg.App.Version,
			MasterKey:     jsonCfg.App.MasterKey,
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.App.TokenDuration),
			TotpIssuer:    jsonCfg.App.TotpIssuer,
			TotpSkew:      jsonCfg.App.TotpSkew,
		},
		Storage: Storage{
			Driver:     jsonCfg.Storage.Driver,
			FilePath:   jsonCfg.Storage.FilePath,
			DocumentID: jsonCfg.Storage.DocumentID,
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Redis: Redis{
				URL:            jsonCfg.Storage.Redis.URL,
				RetryAttempts:  jsonCfg.Storage.Redis.RetryAttempts,
				RetryInterval:  time.Duration(jsonCfg.Storage.Redis.RetryInterval),
				ConnectTimeout: time.Duration(jsonCfg.Storage.Redis.ConnectTimeout),
			},
		},
		Server: Server{
			HTTPAddress:     jsonCfg.Server.HTTPAddress,
			RequestTimeout:  time.Duration(jsonCfg.Server.RequestTimeout),
			ShutdownTimeout: time.Duration(jsonCfg.Server.ShutdownTimeout),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
