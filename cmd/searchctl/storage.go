package main

import (
	"context"
	"fmt"
	"os"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/config"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/repository"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/repository/badger"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/repository/memory"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/repository/redis"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/repository/sqlite"
)

const redisKeyPrefix = "news-search"

// openKV opens the key/value store selected by storage.driver
func openKV(ctx context.Context, cfg config.StorageConfig) (repository.KV, error) {
	switch cfg.Driver {
	case "memory":
		return memory.New(), nil
	case "badger":
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("creating storage dir: %w", err)
		}
		return badger.New(cfg.Path)
	case "sqlite":
		return sqlite.New(cfg.Path)
	case "redis":
		return redis.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redisKeyPrefix)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
