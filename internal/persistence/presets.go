package persistence

import (
	"context"
	"sort"
	"strings"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
)

// SavePreset stores a named filter snapshot, replacing any preset of that name
func (s *Store) SavePreset(ctx context.Context, name string, filters domain.SearchFilters) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.presets[name] = filters.Clone()
	s.write(ctx, KeyFilterPresets, s.presets)
	return nil
}

// LoadPreset returns a deep copy of the named preset
func (s *Store) LoadPreset(name string) (domain.SearchFilters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.presets[strings.TrimSpace(name)]
	if !ok {
		return domain.SearchFilters{}, domain.ErrPresetNotFound
	}
	return f.Clone(), nil
}

// DeletePreset removes the named preset
func (s *Store) DeletePreset(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if _, ok := s.presets[name]; !ok {
		return domain.ErrPresetNotFound
	}
	delete(s.presets, name)
	s.write(ctx, KeyFilterPresets, s.presets)
	return nil
}

// PresetNames lists preset names in sorted order
func (s *Store) PresetNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.presets))
	for name := range s.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Presets returns a deep copy of every preset
func (s *Store) Presets() map[string]domain.SearchFilters {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]domain.SearchFilters, len(s.presets))
	for name, f := range s.presets {
		out[name] = f.Clone()
	}
	return out
}
