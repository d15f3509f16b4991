// Package store persists snapshot blobs under a string key. Backends keep one
// value per key and overwrite it on every save.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/finance-pro/internal/config"
	"github.com/iwvelando/finance-pro/pkg/constants"
	_ "github.com/lib/pq" // postgres driver
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrNotFound is returned by Load when nothing is stored under the key.
var ErrNotFound = errors.New("snapshot not found")

// Store is a key-value store for snapshot blobs.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Close() error
}

// New builds the backend selected by cfg.Backend. Network backends are pinged
// once so that a misconfiguration is reported at startup.
func New(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultStoreTimeoutSeconds * time.Second
	}

	switch cfg.Backend {
	case "", constants.StoreBackendFile:
		path := cfg.Path
		if path == "" {
			path = constants.DefaultStorePath
		}
		return NewFileStore(path, logger), nil

	case constants.StoreBackendMemory:
		return NewMemoryStore(), nil

	case constants.StoreBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Address,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  timeout,
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
			PoolSize:     4,
		})
		s := NewRedisStore(client, logger)
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := s.Ping(pingCtx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil

	case constants.StoreBackendPostgres:
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		s, err := NewPostgresStore(db, cfg.Postgres.Table, logger)
		if err != nil {
			db.Close()
			return nil, err
		}
		schemaCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := s.EnsureSchema(schemaCtx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	}

	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}
