// Package persistence owns the durable records of the search engine: search
// history, saved searches, filter presets and the last used filter state.
//
// Records live in a repository.KV as versioned JSON envelopes. The Store keeps
// an in-memory copy that is authoritative for reads; writes go through to the
// KV until the first failure, after which the Store runs in memory for the
// rest of the session.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/repository"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/validator"
	"github.com/delarge95/ai-news-aggregator-sub000/pkg/logger"
)

// SchemaVersion is the envelope version written by this Store. Records with
// any other version are discarded on load.
const SchemaVersion = 1

// Record keys, relative to the namespace
const (
	KeyHistory          = "search-history"
	KeySavedSearches    = "saved-searches"
	KeyFilterPresets    = "filter-presets"
	KeyFilterPreference = "user-preference:search_filters"
)

type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// Option configures a Store
type Option func(*Store)

// WithNamespace scopes every key to ns, typically a user id
func WithNamespace(ns string) Option {
	return func(s *Store) {
		s.namespace = ns
	}
}

// WithHistoryLimit overrides domain.DefaultHistoryLimit
func WithHistoryLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// WithClock sets the time source used for timestamps
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// Store is the only writer of the durable key/value store
type Store struct {
	mu sync.Mutex

	kv        repository.KV
	log       *logger.Logger
	clock     clock.Clock
	validator *validator.Validator

	namespace    string
	historyLimit int
	degraded     bool

	history    []domain.SearchHistoryItem
	saved      []domain.SavedSearch
	presets    map[string]domain.SearchFilters
	preference *domain.SearchFilters
}

// Open loads every record from kv. It never fails: unreadable records are
// discarded and an unreachable kv puts the Store in degraded mode.
func Open(ctx context.Context, kv repository.KV, log *logger.Logger, opts ...Option) *Store {
	if log == nil {
		log = logger.NewNop()
	}

	s := &Store{
		kv:           kv,
		log:          log.WithComponent("persistence"),
		clock:        clock.New(),
		validator:    validator.New(),
		historyLimit: domain.DefaultHistoryLimit,
		presets:      make(map[string]domain.SearchFilters),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	var history []domain.SearchHistoryItem
	if s.read(ctx, KeyHistory, &history) {
		if len(history) > s.historyLimit {
			history = history[:s.historyLimit]
		}
		s.history = history
	}

	var saved []domain.SavedSearch
	if s.read(ctx, KeySavedSearches, &saved) {
		s.saved = saved
	}

	var presets map[string]domain.SearchFilters
	if s.read(ctx, KeyFilterPresets, &presets) && presets != nil {
		s.presets = presets
	}

	var pref domain.SearchFilters
	if s.read(ctx, KeyFilterPreference, &pref) {
		s.preference = &pref
	}

	s.log.Debug("records loaded",
		"namespace", s.namespace,
		"history", len(s.history),
		"saved_searches", len(s.saved),
		"presets", len(s.presets),
		"degraded", s.degraded,
	)
}

// read decodes the envelope stored under key into v and reports success
func (s *Store) read(ctx context.Context, key string, v interface{}) bool {
	if s.degraded {
		return false
	}

	raw, err := s.kv.Get(ctx, s.key(key))
	if errors.Is(err, repository.ErrNotFound) {
		return false
	}
	if err != nil {
		s.fail(key, err)
		return false
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.log.Warn("discarding undecodable record", "key", key, "error", err)
		return false
	}
	if env.Version != SchemaVersion {
		s.log.Warn("discarding record with unknown schema version", "key", key, "version", env.Version)
		return false
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		s.log.Warn("discarding undecodable record", "key", key, "error", err)
		return false
	}
	return true
}

// write persists v under key. Callers hold s.mu. Failures are logged, switch
// the Store to memory-only and are not returned.
func (s *Store) write(ctx context.Context, key string, v interface{}) {
	if s.degraded {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error("failed to encode record", "key", key, "error", err)
		return
	}
	raw, err := json.Marshal(envelope{Version: SchemaVersion, Data: data})
	if err != nil {
		s.log.Error("failed to encode envelope", "key", key, "error", err)
		return
	}

	if err := s.kv.Set(ctx, s.key(key), raw); err != nil {
		s.fail(key, err)
	}
}

func (s *Store) remove(ctx context.Context, key string) {
	if s.degraded {
		return
	}
	if err := s.kv.Delete(ctx, s.key(key)); err != nil {
		s.fail(key, err)
	}
}

// fail handles a KV error. A cancelled or expired caller context says
// nothing about the store, so only the one operation is lost; the next
// write of key persists the full record again.
func (s *Store) fail(key string, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.log.Warn("store operation abandoned by caller", "key", key, "error", err)
		return
	}
	s.degrade(key, err)
}

func (s *Store) degrade(key string, err error) {
	s.degraded = true
	s.log.Warn("durable store unavailable, continuing in memory for this session",
		"key", key,
		"error", fmt.Errorf("%w: %v", domain.ErrPersistence, err),
	)
}

func (s *Store) key(k string) string {
	if s.namespace == "" {
		return k
	}
	return s.namespace + ":" + k
}

func (s *Store) now() time.Time {
	return s.clock.Now().UTC()
}

// Degraded reports whether the Store has fallen back to memory-only mode
func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// Namespace returns the key scope of the Store
func (s *Store) Namespace() string {
	return s.namespace
}

// SaveFilterPreference records the live filter state for the next session
func (s *Store) SaveFilterPreference(ctx context.Context, f domain.SearchFilters) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pref := f.Clone()
	s.preference = &pref
	s.write(ctx, KeyFilterPreference, pref)
}

// FilterPreference returns the filter state saved by the previous session
func (s *Store) FilterPreference() (domain.SearchFilters, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.preference == nil {
		return domain.SearchFilters{}, false
	}
	return s.preference.Clone(), true
}

// Close releases the underlying KV
func (s *Store) Close() error {
	return s.kv.Close()
}
