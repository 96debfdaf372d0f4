package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MKhiriev/go-secret-vault/internal/config"
	"github.com/MKhiriev/go-secret-vault/internal/logger"
	"github.com/MKhiriev/go-secret-vault/models"
)

// redisKeyPrefix namespaces document keys: "go-secret-vault:document:<id>".
const redisKeyPrefix = "go-secret-vault:document:"

// redisUpdateAttempts bounds how often UpdateAtomic reloads after losing a
// compare-and-set race.
const redisUpdateAttempts = 5

// compareAndSetScript replaces KEYS[1] with ARGV[2] only while it still holds
// ARGV[1]. A missing key compares equal to the empty string.
const compareAndSetScript = `
local current = redis.call('GET', KEYS[1])
if current == false then current = '' end
if current ~= ARGV[1] then return 0 end
redis.call('SET', KEYS[1], ARGV[2])
return 1
`

var (
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis did not become ready within the given time period")
)

// redisClient is the subset of *redis.Client used by the backend.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd
	Close() error
}

// redisBackend stores the document as a JSON string under one key.
type redisBackend struct {
	client redisClient
	key    string
	logger *logger.Logger
}

// NewRedisBackend returns a [DocumentBackend] over a connected client.
func NewRedisBackend(client *redis.Client, documentID string, log *logger.Logger) DocumentBackend {
	return newRedisBackend(client, documentID, log)
}

func newRedisBackend(client redisClient, documentID string, log *logger.Logger) *redisBackend {
	log.Debug().Str("document_id", documentID).Msg("creating redis backend")
	return &redisBackend{
		client: client,
		key:    redisKeyPrefix + documentID,
		logger: log,
	}
}

func (r *redisBackend) Load(ctx context.Context) (*models.Document, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewDocument(), nil
	}
	if err != nil {
		r.logger.Err(err).Str("func", "*redisBackend.Load").Msg("error reading document")
		return nil, fmt.Errorf("error reading document from redis: %w", err)
	}

	return decodeDocument(data, formatJSON)
}

func (r *redisBackend) Save(ctx context.Context, doc *models.Document) error {
	data, err := encodeDocument(doc, formatJSON)
	if err != nil {
		return err
	}

	if err = r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		r.logger.Err(err).Str("func", "*redisBackend.Save").Msg("error writing document")
		return fmt.Errorf("error writing document to redis: %w", err)
	}
	return nil
}

var _ AtomicBackend = (*redisBackend)(nil)

// UpdateAtomic applies fn with an optimistic compare-and-set, reloading and
// running fn again when another writer changed the key in between.
func (r *redisBackend) UpdateAtomic(ctx context.Context, fn func(doc *models.Document) error) error {
	for attempt := range redisUpdateAttempts {
		current, err := r.client.Get(ctx, r.key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			r.logger.Err(err).Str("func", "*redisBackend.UpdateAtomic").Msg("error reading document")
			return fmt.Errorf("error reading document from redis: %w", err)
		}

		doc, err := decodeDocument(current, formatJSON)
		if err != nil {
			return err
		}
		if err = fn(doc); err != nil {
			return err
		}

		updated, err := encodeDocument(doc, formatJSON)
		if err != nil {
			return err
		}

		swapped, err := r.client.Eval(ctx, compareAndSetScript, []string{r.key}, string(current), string(updated)).Int64()
		if err != nil {
			r.logger.Err(err).Str("func", "*redisBackend.UpdateAtomic").Msg("error writing document")
			return fmt.Errorf("error writing document to redis: %w", err)
		}
		if swapped == 1 {
			return nil
		}
		r.logger.Debug().Int("attempt", attempt+1).Msg("document changed concurrently, retrying")
	}
	return ErrConcurrentUpdate
}

func (r *redisBackend) Close() error {
	return r.client.Close()
}

// ConnectRedis parses cfg.URL and pings the server, retrying up to
// cfg.RetryAttempts times within cfg.ConnectTimeout.
func ConnectRedis(ctx context.Context, cfg config.Redis, log *logger.Logger) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}

	for attempt := range max(cfg.RetryAttempts, 1) {
		client := redis.NewClient(opts)

		pingErr := client.Ping(ctx).Err()
		if pingErr == nil {
			log.Info().Str("func", "ConnectRedis").Msg("connected to redis successfully")
			return client, nil
		}
		_ = client.Close()
		log.Warn().Err(pingErr).Int("attempt", attempt+1).Msg("redis is not ready")

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, ErrRedisNotReady
}
