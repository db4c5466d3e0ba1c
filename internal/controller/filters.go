package controller

import (
	"context"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/filters"
)

// UpdateFilters merges patch into the active filters. Malformed values are
// corrected, never rejected. The result is persisted as the filter
// preference, and the current query is searched again when a search is
// active.
func (c *Controller) UpdateFilters(ctx context.Context, patch domain.FilterPatch) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	updated, corrections := filters.Apply(c.state.Filters, patch)
	c.mu.Unlock()

	c.logCorrections(corrections)
	return c.replaceFilters(ctx, updated)
}

// ResetFilters restores the default filters
func (c *Controller) ResetFilters(ctx context.Context) error {
	return c.replaceFilters(ctx, domain.DefaultFilters())
}

// ApplyPreset replaces the active filters with a saved preset
func (c *Controller) ApplyPreset(ctx context.Context, name string) error {
	preset, err := c.store.LoadPreset(name)
	if err != nil {
		return err
	}
	return c.replaceFilters(ctx, preset)
}

// SelectSuggestion acts on a chosen suggestion. Query and tag suggestions
// become the search text; source, category and author suggestions toggle
// the matching filter before searching the current text.
func (c *Controller) SelectSuggestion(ctx context.Context, item domain.SuggestionItem) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	current := c.state.Filters.Clone()
	text := c.state.Query.Text
	c.state.Suggestions = []domain.SuggestionItem{}
	c.invalidateSuggestionsLocked()
	c.mu.Unlock()

	switch item.Type {
	case domain.SuggestionSource:
		current.Sources = filters.ToggleSetMember(current.Sources, item.Text)
	case domain.SuggestionCategory:
		current.Categories = filters.ToggleSetMember(current.Categories, item.Text)
	case domain.SuggestionAuthor:
		current.Authors = filters.ToggleSetMember(current.Authors, item.Text)
	default:
		_, err := c.Search(ctx, item.Text, nil)
		return err
	}

	c.store.SaveFilterPreference(ctx, current)
	_, err := c.Search(ctx, text, &current)
	return err
}

func (c *Controller) replaceFilters(ctx context.Context, f domain.SearchFilters) error {
	corrected, corrections := filters.Validate(f)
	c.logCorrections(corrections)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	active := c.searched
	text := c.state.Query.Text
	if !active {
		c.setFiltersLocked(corrected)
		c.unlockAndNotify()
	} else {
		c.mu.Unlock()
	}

	c.store.SaveFilterPreference(ctx, corrected)

	if active {
		_, err := c.Search(ctx, text, &corrected)
		return err
	}
	return nil
}
