package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
)

// Format is a serialization format for import and export
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml and yml, case-insensitively
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%q: %w", s, domain.ErrUnsupportedFormat)
}

// Bundle is the portable form of saved searches and presets. Timestamps are
// ISO-8601 and sets are arrays in both formats.
type Bundle struct {
	Version       int                             `json:"version" yaml:"version"`
	ExportedAt    time.Time                       `json:"exported_at" yaml:"exported_at"`
	SavedSearches []domain.SavedSearch            `json:"saved_searches" yaml:"saved_searches"`
	FilterPresets map[string]domain.SearchFilters `json:"filter_presets" yaml:"filter_presets"`
}

// ImportResult reports what Import did
type ImportResult struct {
	SavedSearches int
	Presets       int
	// Skipped holds one message per saved search that was not imported
	Skipped []string
}

// Export writes every saved search and preset to w
func (s *Store) Export(w io.Writer, format Format) error {
	s.mu.Lock()
	bundle := Bundle{
		Version:       SchemaVersion,
		ExportedAt:    s.now(),
		SavedSearches: make([]domain.SavedSearch, len(s.saved)),
		FilterPresets: make(map[string]domain.SearchFilters, len(s.presets)),
	}
	for i, saved := range s.saved {
		bundle.SavedSearches[i] = saved.Clone()
	}
	for name, f := range s.presets {
		bundle.FilterPresets[name] = f.Clone()
	}
	s.mu.Unlock()

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(bundle)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(bundle); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("export as %q: %w", format, domain.ErrUnsupportedFormat)
	}
}

// Import merges a bundle read from r. Saved searches are upserted by ID; a
// search whose name collides with a different existing search is skipped.
// Presets replace presets of the same name.
func (s *Store) Import(ctx context.Context, r io.Reader, format Format) (ImportResult, error) {
	var bundle Bundle
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&bundle); err != nil {
			return ImportResult{}, fmt.Errorf("failed to decode bundle: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&bundle); err != nil {
			return ImportResult{}, fmt.Errorf("failed to decode bundle: %w", err)
		}
	default:
		return ImportResult{}, fmt.Errorf("import from %q: %w", format, domain.ErrUnsupportedFormat)
	}

	if bundle.Version != SchemaVersion {
		return ImportResult{}, fmt.Errorf("bundle version %d: %w", bundle.Version, domain.ErrUnsupportedFormat)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var result ImportResult
	for _, saved := range bundle.SavedSearches {
		prepared, err := s.prepare(saved)
		if err != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s: %v", saved.Name, err))
			continue
		}
		s.put(prepared)
		result.SavedSearches++
	}
	for name, f := range bundle.FilterPresets {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		s.presets[name] = f.Clone()
		result.Presets++
	}

	if result.SavedSearches > 0 {
		s.write(ctx, KeySavedSearches, s.saved)
	}
	if result.Presets > 0 {
		s.write(ctx, KeyFilterPresets, s.presets)
	}

	s.log.Info("bundle imported",
		"saved_searches", result.SavedSearches,
		"presets", result.Presets,
		"skipped", len(result.Skipped),
	)
	return result, nil
}
