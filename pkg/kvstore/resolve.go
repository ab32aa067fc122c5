package kvstore

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
)

// Resolve selects a storage backend once, at construction time, using the
// three-tier fallback chain:
//
//  1. Redis, when a URL is configured and the server answers a ping;
//  2. a JSON file in a writable data directory;
//  3. an in-process map that does not survive restart.
//
// The chain guarantees Resolve always returns a usable Store, whatever the
// embedding context. The choice is made exactly once; callers hold the
// returned Store, they never re-run detection per call.
func Resolve(ctx context.Context, cfg Config, log *slog.Logger) Store {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if cfg.RedisURL != "" {
		if store, err := resolveRedis(ctx, cfg); err == nil {
			log.InfoContext(ctx, "storage backend selected", "tier", "redis")
			return store
		} else {
			log.WarnContext(ctx, "redis storage unavailable, falling back", "error", err)
		}
	}

	if store, err := resolveFile(cfg); err == nil {
		log.InfoContext(ctx, "storage backend selected", "tier", "file", "path", store.Path())
		return store
	} else {
		log.WarnContext(ctx, "file storage unavailable, falling back", "error", err)
	}

	log.InfoContext(ctx, "storage backend selected", "tier", "memory")
	return NewMemoryStore()
}

func resolveRedis(ctx context.Context, cfg Config) (*RedisStore, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewRedisStore(client, cfg.RedisPrefix), nil
}

func resolveFile(cfg Config) (*FileStore, error) {
	dir := cfg.DataDir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "theraflow")
	}

	name := cfg.FileName
	if name == "" {
		name = "session.json"
	}

	return NewFileStore(filepath.Join(dir, name))
}
