package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskmaster/todoplus/internal/infrastructure/config"
	"github.com/taskmaster/todoplus/internal/infrastructure/logger"
)

var errSwapLost = errors.New("value changed")

// RedisStore keeps items as plain string keys under a prefix
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects with retry and exponential backoff
func NewRedisStore(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetAddr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 1,
	})

	maxRetries := 5
	retryDelay := 500 * time.Millisecond

	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err = client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			return &RedisStore{client: client, prefix: cfg.KeyPrefix}, nil
		}

		log.Warnw("Redis connection failed", "attempt", attempt, "addr", cfg.GetAddr(), "error", err)

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				_ = client.Close()
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
			retryDelay *= 2
		}
	}

	_ = client.Close()
	return nil, fmt.Errorf("failed to connect to redis after %d attempts: %w", maxRetries, err)
}

func (s *RedisStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get item: %w", err)
	}
	return value, true, nil
}

func (s *RedisStore) SetItem(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("set item: %w", err)
	}
	return nil
}

// CompareAndSwap writes value inside a WATCH transaction that aborts if the key moved away from old
func (s *RedisStore) CompareAndSwap(ctx context.Context, key, old string, oldFound bool, value string) (bool, error) {
	fullKey := s.prefix + key

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, fullKey).Result()
		switch {
		case errors.Is(err, redis.Nil):
			if oldFound {
				return errSwapLost
			}
		case err != nil:
			return err
		case !oldFound || current != old:
			return errSwapLost
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, fullKey, value, 0)
			return nil
		})
		return err
	}, fullKey)

	if errors.Is(err, errSwapLost) || errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("swap item: %w", err)
	}
	return true, nil
}

// Ping checks the connection
func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
