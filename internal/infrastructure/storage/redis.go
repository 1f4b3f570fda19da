package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lifebooster/core/internal/domain/entities"
	"github.com/lifebooster/core/internal/infrastructure/config"
	"github.com/lifebooster/core/internal/infrastructure/logger"
)

// RedisBackend keeps the whole serialized document under a single key. The
// slot model is identical to the file backend: one key, whole-document writes.
type RedisBackend struct {
	client *redis.Client
	logger *logger.Logger
}

// NewRedisBackend connects to Redis and verifies the connection.
func NewRedisBackend(ctx context.Context, cfg config.RedisConfig, appLogger *logger.Logger) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetAddr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisBackend{
		client: client,
		logger: appLogger.WithComponent("storage.redis"),
	}, nil
}

// Load reads and upgrades the stored document.
func (b *RedisBackend) Load(ctx context.Context) (*entities.AppData, bool, error) {
	raw, err := b.client.Get(ctx, StorageKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read document key: %w", err)
	}

	var doc entities.AppData
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false, fmt.Errorf("parse document key: %w", err)
	}

	if Upgrade(&doc, time.Now()) {
		b.logger.Infow("Upgraded stored document to current shape", "key", StorageKey)
	}

	return &doc, true, nil
}

// Save replaces the document key.
func (b *RedisBackend) Save(ctx context.Context, doc *entities.AppData) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	if err := b.client.Set(ctx, StorageKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("write document key: %w", err)
	}
	return nil
}

// Reset deletes the document key.
func (b *RedisBackend) Reset(ctx context.Context) error {
	if err := b.client.Del(ctx, StorageKey).Err(); err != nil {
		return fmt.Errorf("delete document key: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}
