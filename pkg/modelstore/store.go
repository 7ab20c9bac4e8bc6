package modelstore

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/zpam/sms-filter/pkg/classifier"
	"github.com/zpam/sms-filter/pkg/config"
)

// ErrModelNotFound is returned by Load when the backend holds no model.
var ErrModelNotFound = errors.New("model not found")

// Store persists model snapshots. Implementations cover a local file,
// Redis, SQLite and MySQL; all of them keep the raw counts so a loaded
// model re-estimates to exactly the trained parameters.
type Store interface {
	// Save writes the snapshot, replacing any previous model.
	Save(ctx context.Context, snapshot *classifier.Snapshot) error
	// Load reads the stored snapshot or fails with ErrModelNotFound.
	Load(ctx context.Context) (*classifier.Snapshot, error)
	// Exists reports whether a model is stored.
	Exists(ctx context.Context) (bool, error)
	// Delete removes the stored model. Deleting a missing model is not
	// an error.
	Delete(ctx context.Context) error
	// Close releases backend resources.
	Close() error
}

// New builds the store selected by cfg.Backend. A Redis backend that
// cannot be reached falls back to the file store with a warning; the
// SQL backends fail hard since their DSNs are explicit configuration.
func New(cfg *config.ModelConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		return NewFileStore(cfg.Path, logger), nil

	case config.BackendRedis:
		store, err := NewRedisStore(cfg.RedisURL, cfg.RedisPrefix, logger)
		if err != nil {
			logger.Warn("Redis unavailable, falling back to file store",
				zap.String("redis_url", cfg.RedisURL),
				zap.Error(err))
			return NewFileStore(cfg.Path, logger), nil
		}
		return store, nil

	case config.BackendSQLite:
		return NewSQLiteStore(cfg.SQLitePath, logger)

	case config.BackendMySQL:
		return NewMySQLStore(cfg.MySQLDSN, logger)

	default:
		return nil, fmt.Errorf("unknown model backend: %s", cfg.Backend)
	}
}

// LoadModel is a convenience wrapper: load the snapshot and rebuild the
// model in one step.
func LoadModel(ctx context.Context, store Store) (*classifier.Model, error) {
	snapshot, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return classifier.FromSnapshot(snapshot)
}
