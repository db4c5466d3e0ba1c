package controller

import (
	"context"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/filters"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/highlight"
)

// Search runs the first page of a search for text. A nil f keeps the current
// filters. Any in-flight search or page request is abandoned.
//
// An empty query with no active filter clears the session. When a newer
// request supersedes this one, Search returns nil, nil and leaves the state
// to the newer request. A failed search keeps the previous results.
func (c *Controller) Search(ctx context.Context, text string, f *domain.SearchFilters) (*domain.SearchResponse, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}

	if f != nil {
		corrected, corrections := filters.Validate(*f)
		c.logCorrections(corrections)
		c.setFiltersLocked(corrected)
	}
	query := domain.NewSearchQuery(text)
	current := c.state.Filters.Clone()

	if query.IsEmpty() && !filters.HasActive(current) {
		c.clearLocked()
		c.unlockAndNotify()
		return nil, nil
	}

	c.queryGen++
	if c.queryTimer != nil {
		c.queryTimer.Stop()
		c.queryTimer = nil
	}
	c.invalidateLocked()
	token := c.searchToken
	reqCtx, cancel := context.WithCancel(ctx)
	c.searchCancel = cancel

	c.state.Query = query
	c.state.Status = StatusSearching
	c.state.Error = nil
	c.searched = true

	req := &domain.SearchRequest{
		Query:    text,
		Filters:  current,
		Page:     1,
		PageSize: c.cfg.PageSize,
	}
	c.unlockAndNotify()

	c.logger.Debug("Searching", "query", text, "active_filters", filters.CountActive(current))
	resp, err := c.backend.Search(reqCtx, req)

	c.mu.Lock()
	if token != c.searchToken {
		c.mu.Unlock()
		cancel()
		c.logger.Debug("Discarded superseded search response", "query", text)
		return nil, nil
	}
	c.searchCancel = nil
	cancel()

	if err != nil {
		serr := classify(err)
		c.state.Status = StatusError
		c.state.Error = serr
		c.unlockAndNotify()
		c.logger.Warn("Search failed", "query", text, "kind", serr.Kind, "error", err)
		return nil, serr
	}

	results := c.highlighter.EnhanceAll(resp.Results, highlight.ExtractTerms(text))
	c.state.Results = results
	c.state.Page = 1
	c.state.TotalResults = resp.TotalResults
	c.state.HasMore = resp.HasMore
	c.state.SearchTimeMs = resp.SearchTimeMs
	c.state.Facets = resp.Facets.Clone()
	c.state.Status = StatusSuccess
	c.searchedText = text
	c.searchedFilters = current

	out := *resp
	out.Results = make([]domain.SearchResult, len(results))
	for i, r := range results {
		out.Results[i] = r.Clone()
	}
	out.Facets = resp.Facets.Clone()

	c.unlockAndNotify()

	// the search completed, so its history entry outlives the caller
	c.store.RecordSearch(context.WithoutCancel(ctx), text, current, resp.TotalResults)
	return &out, nil
}

// LoadMore fetches the next page of the loaded results, with the query and
// filters they were searched with, and appends it, skipping results already
// shown. It does nothing when there are no more results, while a search is
// running, or while another page is being fetched.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.state.HasMore || c.state.Status == StatusSearching || c.pageCancel != nil {
		c.mu.Unlock()
		return nil
	}

	c.pageToken++
	token := c.pageToken
	reqCtx, cancel := context.WithCancel(ctx)
	c.pageCancel = cancel
	c.state.LoadingMore = true

	text := c.searchedText
	page := c.state.Page + 1
	req := &domain.SearchRequest{
		Query:    text,
		Filters:  c.searchedFilters.Clone(),
		Page:     page,
		PageSize: c.cfg.PageSize,
	}
	c.unlockAndNotify()

	resp, err := c.backend.Search(reqCtx, req)

	c.mu.Lock()
	if token != c.pageToken {
		c.mu.Unlock()
		cancel()
		return nil
	}
	c.pageCancel = nil
	cancel()
	c.state.LoadingMore = false

	if err != nil {
		serr := classify(err)
		c.settleLocked(StatusError)
		c.state.Error = serr
		c.unlockAndNotify()
		c.logger.Warn("Loading more results failed", "query", text, "page", page, "error", err)
		return serr
	}

	seen := make(map[string]struct{}, len(c.state.Results))
	for _, r := range c.state.Results {
		seen[r.ID] = struct{}{}
	}
	fresh := make([]domain.SearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		fresh = append(fresh, r)
	}

	c.state.Results = append(c.state.Results, c.highlighter.EnhanceAll(fresh, highlight.ExtractTerms(text))...)
	c.state.Page = page
	c.state.TotalResults = resp.TotalResults
	c.state.HasMore = resp.HasMore
	c.settleLocked(StatusSuccess)
	c.state.Error = nil
	c.unlockAndNotify()
	return nil
}

// settleLocked records the outcome of a page request. While the user is
// typing the outcome becomes the status the debounce restores.
func (c *Controller) settleLocked(status Status) {
	if c.state.Status == StatusDebouncing {
		c.preDebounce = status
		return
	}
	c.state.Status = status
}

func (c *Controller) logCorrections(corrections []*domain.ValidationError) {
	for _, corr := range corrections {
		c.logger.Debug("Corrected filters", "field", corr.Field, "reason", corr.Message)
	}
}
