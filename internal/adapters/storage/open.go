package storage

import (
	"context"
	"fmt"

	"github.com/taskmaster/todoplus/internal/infrastructure/config"
	"github.com/taskmaster/todoplus/internal/infrastructure/database"
	"github.com/taskmaster/todoplus/internal/infrastructure/logger"
	"github.com/taskmaster/todoplus/internal/ports"
)

// Pinger is implemented by backends that talk to a remote server or database
type Pinger interface {
	Ping(ctx context.Context) error
}

var (
	_ Locker  = (*FileStore)(nil)
	_ Swapper = (*MemoryStore)(nil)
	_ Swapper = (*SQLStore)(nil)
	_ Swapper = (*RedisStore)(nil)
)

// Open returns the key-value backend selected by cfg.Storage.Backend
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (ports.KeyValueStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendFile:
		return NewFileStore(cfg.Storage.Dir)
	case config.BackendSQLite, config.BackendPostgres:
		db, err := database.New(ctx, cfg.Storage.Backend, cfg.Database)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(db.DB), nil
	case config.BackendRedis:
		return NewRedisStore(ctx, cfg.Redis, log)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
