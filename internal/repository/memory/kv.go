// Package memory provides the in-process KV used when no durable store is
// configured and as the fallback when the durable store fails.
package memory

import (
	"context"
	"sync"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/repository"
)

var _ repository.KV = (*KV)(nil)

// KV is a map-backed repository.KV
type KV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New creates an empty store
func New() *KV {
	return &KV{data: make(map[string][]byte)}
}

// Get returns a copy of the stored value
func (s *KV) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value
func (s *KV) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *KV) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// Len returns the number of stored keys
func (s *KV) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *KV) Close() error {
	return nil
}
