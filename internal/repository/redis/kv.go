package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/repository"
)

// Verify interface compliance
var _ repository.KV = (*KV)(nil)

// KV implements repository.KV on a shared Redis, so several engine instances
// can see the same saved searches. Keys are stored under prefix.
type KV struct {
	client *redis.Client
	prefix string
	owned  bool
}

// NewKV wraps an existing client. Close does not close the client.
func NewKV(client *redis.Client, prefix string) *KV {
	return &KV{client: client, prefix: prefix}
}

// Open dials Redis and verifies the connection
func Open(ctx context.Context, addr, password string, db int, prefix string) (*KV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &KV{client: client, prefix: prefix, owned: true}, nil
}

// Get retrieves the value stored under key
func (s *KV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Set stores value under key without expiry
func (s *KV) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes key
func (s *KV) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close closes the client when it was opened by Open
func (s *KV) Close() error {
	if s.owned {
		return s.client.Close()
	}
	return nil
}
