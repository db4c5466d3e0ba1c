package controller

import (
	"context"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
)

// SaveSearch snapshots the current query and filters under name
func (c *Controller) SaveSearch(ctx context.Context, name string, opts domain.SaveOptions) (domain.SavedSearch, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.SavedSearch{}, ErrClosed
	}
	saved := domain.SavedSearch{
		Name:               name,
		Query:              c.state.Query.Text,
		Filters:            c.state.Filters.Clone(),
		IsPublic:           opts.IsPublic,
		AlertFrequency:     opts.AlertFrequency,
		EmailNotifications: opts.EmailNotifications,
	}
	c.mu.Unlock()

	return c.store.UpsertSavedSearch(ctx, saved)
}

// SavePreset stores the active filters as a named preset
func (c *Controller) SavePreset(ctx context.Context, name string) error {
	c.mu.Lock()
	current := c.state.Filters.Clone()
	c.mu.Unlock()
	return c.store.SavePreset(ctx, name, current)
}

// ApplySavedSearch runs a saved search and marks it as used
func (c *Controller) ApplySavedSearch(ctx context.Context, id string) (*domain.SearchResponse, error) {
	saved, err := c.store.TouchSavedSearch(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.Search(ctx, saved.Query, &saved.Filters)
}

// ReplayHistory runs a past search again
func (c *Controller) ReplayHistory(ctx context.Context, id string) (*domain.SearchResponse, error) {
	item, err := c.store.HistoryItem(id)
	if err != nil {
		return nil, err
	}
	return c.Search(ctx, item.Query, &item.Filters)
}

// HasUnsavedChanges reports whether the live query or filters differ from
// the saved search
func (c *Controller) HasUnsavedChanges(savedID string) (bool, error) {
	saved, err := c.store.SavedSearch(savedID)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return saved.Query != c.state.Query.Text || !saved.Filters.Equal(c.state.Filters), nil
}
