package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
)

// RecordSearch adds a search to the front of the history. Repeating a search
// with identical query and filters moves the existing entry to the front and
// refreshes its timestamp and result count. The oldest entries beyond the
// limit are evicted.
func (s *Store) RecordSearch(ctx context.Context, query string, filters domain.SearchFilters, resultCount int) domain.SearchHistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := domain.SearchHistoryItem{
		ID:      uuid.New().String(),
		Query:   query,
		Filters: filters.Clone(),
	}
	for i, h := range s.history {
		if h.SameSearch(query, filters) {
			item = h
			s.history = append(s.history[:i], s.history[i+1:]...)
			break
		}
	}
	item.Timestamp = s.now()
	item.ResultCount = resultCount

	s.history = append([]domain.SearchHistoryItem{item}, s.history...)
	if len(s.history) > s.historyLimit {
		s.history = s.history[:s.historyLimit]
	}

	s.write(ctx, KeyHistory, s.history)
	return item.Clone()
}

// History returns the history, most recent first
func (s *Store) History() []domain.SearchHistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.SearchHistoryItem, len(s.history))
	for i, h := range s.history {
		out[i] = h.Clone()
	}
	return out
}

// HistoryItem looks up a history entry by id
func (s *Store) HistoryItem(id string) (domain.SearchHistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, h := range s.history {
		if h.ID == id {
			return h.Clone(), nil
		}
	}
	return domain.SearchHistoryItem{}, domain.ErrHistoryItemNotFound
}

// DeleteHistoryItem removes one entry
func (s *Store) DeleteHistoryItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, h := range s.history {
		if h.ID == id {
			s.history = append(s.history[:i], s.history[i+1:]...)
			s.write(ctx, KeyHistory, s.history)
			return nil
		}
	}
	return domain.ErrHistoryItemNotFound
}

// ClearHistory removes every entry
func (s *Store) ClearHistory(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = nil
	s.remove(ctx, KeyHistory)
}
