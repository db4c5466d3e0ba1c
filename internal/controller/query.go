package controller

import (
	"context"
	"unicode/utf8"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
)

// SetQueryText records what the user is typing. It never searches: once
// typing pauses for the query debounce, suggestions are requested for the
// text. Text without usable terms returns the session to idle.
func (c *Controller) SetQueryText(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	query := domain.NewSearchQuery(text)
	if query.IsEmpty() {
		c.clearLocked()
		c.state.Query = query
		c.unlockAndNotify()
		return
	}
	c.state.Query = query

	if c.state.Status != StatusSearching {
		if c.state.Status != StatusDebouncing {
			c.preDebounce = c.state.Status
		}
		c.state.Status = StatusDebouncing
	}

	c.queryGen++
	gen := c.queryGen
	if c.queryTimer != nil {
		c.queryTimer.Stop()
	}
	c.queryTimer = c.clock.AfterFunc(c.cfg.QueryDebounce, func() {
		c.queryDebounced(gen, text)
	})
	c.unlockAndNotify()
}

func (c *Controller) queryDebounced(gen uint64, text string) {
	c.mu.Lock()
	if c.closed || gen != c.queryGen {
		c.mu.Unlock()
		return
	}
	c.queryTimer = nil
	if c.state.Status == StatusDebouncing {
		c.state.Status = c.preDebounce
	}
	c.unlockAndNotify()

	c.GetSuggestions(text)
}

// GetSuggestions schedules a suggestion fetch for partial after the
// suggestion debounce. Partials shorter than the minimum length clear the
// suggestions instead. Failures leave the current suggestions in place.
func (c *Controller) GetSuggestions(partial string) {
	c.mu.Lock()
	if c.closed || c.suggestions == nil {
		c.mu.Unlock()
		return
	}

	c.suggestGen++
	gen := c.suggestGen
	if c.suggestTimer != nil {
		c.suggestTimer.Stop()
		c.suggestTimer = nil
	}

	if utf8.RuneCountInString(partial) < c.cfg.MinSuggestLength {
		c.invalidateSuggestionsLocked()
		c.state.Suggestions = []domain.SuggestionItem{}
		c.unlockAndNotify()
		return
	}

	c.suggestTimer = c.clock.AfterFunc(c.cfg.SuggestDebounce, func() {
		c.fetchSuggestions(gen, partial)
	})
	c.mu.Unlock()
}

func (c *Controller) fetchSuggestions(gen uint64, partial string) {
	c.mu.Lock()
	if c.closed || gen != c.suggestGen {
		c.mu.Unlock()
		return
	}
	c.suggestTimer = nil
	c.invalidateSuggestionsLocked()
	token := c.suggestToken
	ctx, cancel := context.WithCancel(c.base)
	c.suggestCancel = cancel
	c.mu.Unlock()

	items, err := c.suggestions.Suggestions(ctx, partial)

	c.mu.Lock()
	if token != c.suggestToken {
		c.mu.Unlock()
		cancel()
		return
	}
	c.suggestCancel = nil
	cancel()

	if err != nil {
		c.mu.Unlock()
		c.logger.Debug("Suggestions unavailable", "partial", partial, "error", err)
		return
	}
	if items == nil {
		items = []domain.SuggestionItem{}
	}
	c.state.Suggestions = items
	c.unlockAndNotify()
}
