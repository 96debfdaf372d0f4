package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-secret-vault/internal/config"
	"github.com/MKhiriev/go-secret-vault/internal/logger"
)

type Storages struct {
	Documents DocumentStore
}

// NewStorages opens the backend selected by cfg.Driver, running migrations
// for the SQL drivers, and wraps it in a [DocumentStore].
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	backend, err := newBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	log.Info().Str("driver", cfg.Driver).Msg("storage ready")
	return &Storages{
		Documents: NewDocumentStore(backend, log),
	}, nil
}

func newBackend(ctx context.Context, cfg config.Storage, log *logger.Logger) (DocumentBackend, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemoryBackend(), nil
	case config.DriverFile:
		return NewFileBackend(cfg.FilePath, log), nil
	case config.DriverSQLite, config.DriverPostgres:
		connect := NewConnectPostgres
		if cfg.Driver == config.DriverSQLite {
			connect = NewConnectSQLite
		}
		db, err := connect(ctx, cfg.DB, log)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorage, err)
		}
		if err = db.Migrate(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: %w", ErrStorage, err)
		}
		return NewSQLBackend(db, cfg.DocumentID, log), nil
	case config.DriverRedis:
		client, err := ConnectRedis(ctx, cfg.Redis, log)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorage, err)
		}
		return NewRedisBackend(client, cfg.DocumentID, log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
