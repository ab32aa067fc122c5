package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultScanBatchSize = 1000

// RedisStore implements Store backed by a Redis server. It is the tier used
// in embedded or remote contexts where no local filesystem is available but
// a storage service is. All keys are namespaced by a prefix so Clear never
// touches unrelated data in a shared database.
type RedisStore struct {
	db            redis.UniversalClient
	prefix        string
	scanBatchSize int64
}

// NewRedisStore wraps an existing go-redis client. The prefix is prepended
// to every key; pass an empty prefix to use keys verbatim.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{
		db:            client,
		prefix:        prefix,
		scanBatchSize: defaultScanBatchSize,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}

	value, err := s.db.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("kvstore: redis get: %w", err)
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrInvalidKey
	}

	if err := s.db.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("kvstore: redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	if err := s.db.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("kvstore: redis del: %w", err)
	}
	return nil
}

// Clear removes every key under the store's prefix using SCAN to avoid
// blocking the server.
func (s *RedisStore) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		batch, next, err := s.db.Scan(ctx, cursor, s.prefix+"*", s.scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("kvstore: redis scan: %w", err)
		}

		if len(batch) > 0 {
			if err := s.db.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("kvstore: redis del: %w", err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Conn returns the underlying Redis client for advanced operations.
func (s *RedisStore) Conn() redis.UniversalClient {
	return s.db
}
