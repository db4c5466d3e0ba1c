package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
)

// UpsertSavedSearch creates or replaces (by ID) a saved search. Names are
// trimmed and must be unique within the namespace, compared case-insensitively.
// Missing ID, CreatedAt and AlertFrequency are filled in.
func (s *Store) UpsertSavedSearch(ctx context.Context, saved domain.SavedSearch) (domain.SavedSearch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.prepare(saved)
	if err != nil {
		return domain.SavedSearch{}, err
	}

	s.put(out)
	s.write(ctx, KeySavedSearches, s.saved)
	return out.Clone(), nil
}

// prepare normalizes and validates a saved search. Callers hold s.mu.
func (s *Store) prepare(saved domain.SavedSearch) (domain.SavedSearch, error) {
	out := saved.Clone()
	out.Name = strings.TrimSpace(out.Name)
	if out.Name == "" {
		return domain.SavedSearch{}, domain.ErrEmptyName
	}
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = s.now()
	}
	if out.AlertFrequency == "" {
		out.AlertFrequency = domain.AlertNever
	}

	if err := s.validator.Validate(out); err != nil {
		return domain.SavedSearch{}, err
	}
	if s.nameTaken(out.Name, out.ID) {
		return domain.SavedSearch{}, domain.ErrDuplicateName
	}
	return out, nil
}

func (s *Store) nameTaken(name, exceptID string) bool {
	for _, existing := range s.saved {
		if existing.ID != exceptID && strings.EqualFold(strings.TrimSpace(existing.Name), name) {
			return true
		}
	}
	return false
}

func (s *Store) put(saved domain.SavedSearch) {
	for i, existing := range s.saved {
		if existing.ID == saved.ID {
			s.saved[i] = saved
			return
		}
	}
	s.saved = append(s.saved, saved)
}

// DeleteSavedSearch removes a saved search by id
func (s *Store) DeleteSavedSearch(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.saved {
		if existing.ID == id {
			s.saved = append(s.saved[:i], s.saved[i+1:]...)
			s.write(ctx, KeySavedSearches, s.saved)
			return nil
		}
	}
	return domain.ErrSavedSearchNotFound
}

// SavedSearches lists saved searches in creation order
func (s *Store) SavedSearches() []domain.SavedSearch {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.SavedSearch, len(s.saved))
	for i, saved := range s.saved {
		out[i] = saved.Clone()
	}
	return out
}

// SavedSearch looks up a saved search by id
func (s *Store) SavedSearch(id string) (domain.SavedSearch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, saved := range s.saved {
		if saved.ID == id {
			return saved.Clone(), nil
		}
	}
	return domain.SavedSearch{}, domain.ErrSavedSearchNotFound
}

// SavedSearchByName looks up a saved search by case-insensitive name
func (s *Store) SavedSearchByName(name string) (domain.SavedSearch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	for _, saved := range s.saved {
		if strings.EqualFold(saved.Name, name) {
			return saved.Clone(), nil
		}
	}
	return domain.SavedSearch{}, domain.ErrSavedSearchNotFound
}

// TouchSavedSearch sets LastUsed to now and returns the updated search
func (s *Store) TouchSavedSearch(ctx context.Context, id string) (domain.SavedSearch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.saved {
		if s.saved[i].ID == id {
			s.saved[i].LastUsed = s.now()
			s.write(ctx, KeySavedSearches, s.saved)
			return s.saved[i].Clone(), nil
		}
	}
	return domain.SavedSearch{}, domain.ErrSavedSearchNotFound
}
