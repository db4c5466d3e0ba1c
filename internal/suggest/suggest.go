// Package suggest composes autocomplete suggestions from the user's own
// search history and from the search backend.
package suggest

import (
	"context"
	"sort"
	"strings"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
	"github.com/delarge95/ai-news-aggregator-sub000/pkg/logger"
)

// DefaultLimit caps the number of suggestions returned
const DefaultLimit = 8

// Provider is what the search controller consumes
type Provider interface {
	Suggestions(ctx context.Context, partial string) ([]domain.SuggestionItem, error)
}

// Source produces remote suggestions (trending queries, facet values)
type Source interface {
	Suggest(ctx context.Context, partial string) ([]domain.SuggestionItem, error)
}

// History lists past searches, most recent first
type History interface {
	History() []domain.SearchHistoryItem
}

// Composite merges recent history matches with remote suggestions
type Composite struct {
	source  Source
	history History
	limit   int
	logger  *logger.Logger
}

var _ Provider = (*Composite)(nil)

// Option configures a Composite
type Option func(*Composite)

// WithLimit overrides DefaultLimit
func WithLimit(n int) Option {
	return func(c *Composite) {
		if n > 0 {
			c.limit = n
		}
	}
}

// NewComposite creates a provider. Either dependency may be nil.
func NewComposite(source Source, history History, log *logger.Logger, opts ...Option) *Composite {
	c := &Composite{
		source:  source,
		history: history,
		limit:   DefaultLimit,
		logger:  log.WithComponent("suggest"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Suggestions returns recent matches first, then remote items by count.
// A remote failure is reported only when there is nothing recent to show.
func (c *Composite) Suggestions(ctx context.Context, partial string) ([]domain.SuggestionItem, error) {
	needle := strings.ToLower(strings.TrimSpace(partial))
	if needle == "" {
		return []domain.SuggestionItem{}, nil
	}

	recent := c.recent(needle)

	var remote []domain.SuggestionItem
	if c.source != nil {
		items, err := c.source.Suggest(ctx, partial)
		if err != nil {
			if len(recent) == 0 || ctx.Err() != nil {
				return nil, err
			}
			c.logger.Debug("Remote suggestions unavailable", "partial", partial, "error", err)
		}
		remote = items
	}

	return Merge(recent, remote, c.limit), nil
}

// recent returns history queries containing needle, newest first
func (c *Composite) recent(needle string) []domain.SuggestionItem {
	if c.history == nil {
		return nil
	}
	var out []domain.SuggestionItem
	for _, h := range c.history.History() {
		if h.Query == "" || !strings.Contains(strings.ToLower(h.Query), needle) {
			continue
		}
		out = append(out, domain.SuggestionItem{
			ID:       "recent:" + h.ID,
			Text:     h.Query,
			Type:     domain.SuggestionQuery,
			Count:    h.ResultCount,
			IsRecent: true,
		})
	}
	return out
}

// Merge de-duplicates by type and case-folded text, keeping the first
// occurrence. Recent items keep their order and come first; the rest are
// ranked by count.
func Merge(recent, remote []domain.SuggestionItem, limit int) []domain.SuggestionItem {
	seen := make(map[string]struct{}, len(recent)+len(remote))
	out := make([]domain.SuggestionItem, 0, len(recent)+len(remote))

	add := func(item domain.SuggestionItem) {
		key := string(item.Type) + "\x00" + strings.ToLower(item.Text)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}

	for _, item := range recent {
		item.IsRecent = true
		add(item)
	}

	ranked := append([]domain.SuggestionItem(nil), remote...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	for _, item := range ranked {
		item.IsRecent = false
		add(item)
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
