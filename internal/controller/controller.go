// Package controller owns the live state of a search session: the query being
// typed, the active filters, the loaded pages of results and the suggestions
// on offer. It coordinates the backend, the suggestion provider, the
// highlighter and the persistence store.
//
// State is guarded by a single mutex that is never held while waiting on a
// timer or the backend. Every backend round trip carries a request token;
// a response is applied only if its token is still current, so the most
// recent request always wins.
package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/filters"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/highlight"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/suggest"
	"github.com/delarge95/ai-news-aggregator-sub000/pkg/logger"
)

// ErrClosed is returned by operations on a closed controller
var ErrClosed = errors.New("search controller closed")

// Status is the lifecycle phase of the session
type Status string

const (
	StatusIdle       Status = "idle"
	StatusDebouncing Status = "debouncing"
	StatusSearching  Status = "searching"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// Backend runs searches
type Backend interface {
	Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error)
}

// Store is the subset of the persistence store the controller writes to
type Store interface {
	RecordSearch(ctx context.Context, query string, filters domain.SearchFilters, resultCount int) domain.SearchHistoryItem
	HistoryItem(id string) (domain.SearchHistoryItem, error)
	UpsertSavedSearch(ctx context.Context, saved domain.SavedSearch) (domain.SavedSearch, error)
	SavedSearch(id string) (domain.SavedSearch, error)
	TouchSavedSearch(ctx context.Context, id string) (domain.SavedSearch, error)
	SavePreset(ctx context.Context, name string, filters domain.SearchFilters) error
	LoadPreset(name string) (domain.SearchFilters, error)
	SaveFilterPreference(ctx context.Context, f domain.SearchFilters)
	FilterPreference() (domain.SearchFilters, bool)
}

// State is a snapshot of the session. Snapshots share no memory with the
// controller.
type State struct {
	Status        Status                  `json:"status"`
	Query         domain.SearchQuery      `json:"query"`
	Filters       domain.SearchFilters    `json:"filters"`
	ActiveFilters int                     `json:"active_filters"`
	Results       []domain.SearchResult   `json:"results"`
	TotalResults  int                     `json:"total_results"`
	HasMore       bool                    `json:"has_more"`
	Page          int                     `json:"page"`
	LoadingMore   bool                    `json:"loading_more"`
	SearchTimeMs  int64                   `json:"search_time_ms"`
	Facets        *domain.Facets          `json:"facets,omitempty"`
	Suggestions   []domain.SuggestionItem `json:"suggestions"`
	Error         *domain.SearchError     `json:"error,omitempty"`
}

func (s State) clone() State {
	out := s
	out.Query = s.Query.Clone()
	out.Filters = s.Filters.Clone()
	out.Results = make([]domain.SearchResult, len(s.Results))
	for i, r := range s.Results {
		out.Results[i] = r.Clone()
	}
	out.Facets = s.Facets.Clone()
	out.Suggestions = append([]domain.SuggestionItem{}, s.Suggestions...)
	if s.Error != nil {
		e := *s.Error
		out.Error = &e
	}
	return out
}

// Config holds the session timings and sizes
type Config struct {
	PageSize         int
	QueryDebounce    time.Duration
	SuggestDebounce  time.Duration
	MinSuggestLength int
}

// DefaultConfig returns the standard timings
func DefaultConfig() Config {
	return Config{
		PageSize:         20,
		QueryDebounce:    300 * time.Millisecond,
		SuggestDebounce:  150 * time.Millisecond,
		MinSuggestLength: domain.MinTermLength,
	}
}

// Option configures a Controller
type Option func(*Controller)

// WithConfig replaces the default timings. Zero fields keep their defaults.
func WithConfig(cfg Config) Option {
	return func(c *Controller) {
		if cfg.PageSize > 0 {
			c.cfg.PageSize = cfg.PageSize
		}
		if cfg.QueryDebounce > 0 {
			c.cfg.QueryDebounce = cfg.QueryDebounce
		}
		if cfg.SuggestDebounce > 0 {
			c.cfg.SuggestDebounce = cfg.SuggestDebounce
		}
		if cfg.MinSuggestLength > 0 {
			c.cfg.MinSuggestLength = cfg.MinSuggestLength
		}
	}
}

// WithClock sets the clock driving the debounce timers
func WithClock(clk clock.Clock) Option {
	return func(c *Controller) {
		c.clock = clk
	}
}

// WithOnChange registers a callback receiving a snapshot after every state
// change. It may be called from several goroutines.
func WithOnChange(fn func(State)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// WithHighlighter replaces the default highlighter
func WithHighlighter(h *highlight.Highlighter) Option {
	return func(c *Controller) {
		c.highlighter = h
	}
}

// Controller is the search session state machine
type Controller struct {
	mu sync.Mutex

	backend     Backend
	suggestions suggest.Provider
	store       Store
	highlighter *highlight.Highlighter
	clock       clock.Clock
	cfg         Config
	onChange    func(State)
	logger      *logger.Logger

	// base is cancelled by Close; timer-driven work runs under it
	base       context.Context
	cancelBase context.CancelFunc
	closed     bool

	state State

	// searched is set once a search has been issued for the current query
	searched bool
	// searchedText and searchedFilters describe the loaded results
	searchedText    string
	searchedFilters domain.SearchFilters
	// preDebounce is restored when the query debounce fires
	preDebounce Status

	queryTimer   *clock.Timer
	queryGen     uint64
	suggestTimer *clock.Timer
	suggestGen   uint64

	searchToken   uint64
	searchCancel  context.CancelFunc
	pageToken     uint64
	pageCancel    context.CancelFunc
	suggestToken  uint64
	suggestCancel context.CancelFunc
}

// New creates a controller. The initial filters are the persisted filter
// preference when one exists. provider may be nil to disable suggestions.
func New(backend Backend, provider suggest.Provider, store Store, log *logger.Logger, opts ...Option) *Controller {
	base, cancel := context.WithCancel(context.Background())
	c := &Controller{
		backend:     backend,
		suggestions: provider,
		store:       store,
		clock:       clock.New(),
		cfg:         DefaultConfig(),
		logger:      log.WithComponent("search-controller"),
		base:        base,
		cancelBase:  cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.highlighter == nil {
		c.highlighter = highlight.New(highlight.DefaultOptions())
	}

	initial := domain.DefaultFilters()
	if pref, ok := store.FilterPreference(); ok {
		initial, _ = filters.Validate(pref)
	}
	c.state = State{
		Status:        StatusIdle,
		Filters:       initial,
		ActiveFilters: filters.CountActive(initial),
		Results:       []domain.SearchResult{},
		Suggestions:   []domain.SuggestionItem{},
	}
	return c
}

// State returns a deep copy of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Close stops the timers and abandons in-flight requests. Pending Search
// and LoadMore calls return without applying their responses.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.stopTimersLocked()
	c.invalidateLocked()
	c.invalidateSuggestionsLocked()
	c.cancelBase()
}

// unlockAndNotify releases the lock and publishes a snapshot
func (c *Controller) unlockAndNotify() {
	var snap State
	notify := c.onChange != nil
	if notify {
		snap = c.state.clone()
	}
	c.mu.Unlock()
	if notify {
		c.onChange(snap)
	}
}

func (c *Controller) setFiltersLocked(f domain.SearchFilters) {
	c.state.Filters = f
	c.state.ActiveFilters = filters.CountActive(f)
}

func (c *Controller) stopTimersLocked() {
	c.queryGen++
	if c.queryTimer != nil {
		c.queryTimer.Stop()
		c.queryTimer = nil
	}
	c.suggestGen++
	if c.suggestTimer != nil {
		c.suggestTimer.Stop()
		c.suggestTimer = nil
	}
}

// invalidateLocked abandons the in-flight search and page requests
func (c *Controller) invalidateLocked() {
	c.searchToken++
	if c.searchCancel != nil {
		c.searchCancel()
		c.searchCancel = nil
	}
	c.pageToken++
	if c.pageCancel != nil {
		c.pageCancel()
		c.pageCancel = nil
	}
	c.state.LoadingMore = false
}

func (c *Controller) invalidateSuggestionsLocked() {
	c.suggestToken++
	if c.suggestCancel != nil {
		c.suggestCancel()
		c.suggestCancel = nil
	}
}

// clearLocked resets everything but the filters
func (c *Controller) clearLocked() {
	c.stopTimersLocked()
	c.invalidateLocked()
	c.invalidateSuggestionsLocked()

	c.state.Status = StatusIdle
	c.state.Query = domain.SearchQuery{}
	c.state.Results = []domain.SearchResult{}
	c.state.TotalResults = 0
	c.state.HasMore = false
	c.state.Page = 0
	c.state.SearchTimeMs = 0
	c.state.Facets = nil
	c.state.Suggestions = []domain.SuggestionItem{}
	c.state.Error = nil
	c.searched = false
	c.searchedText = ""
	c.searchedFilters = domain.SearchFilters{}
}

// ClearSearch returns the session to idle. Filters and persisted records
// are kept.
func (c *Controller) ClearSearch() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.clearLocked()
	c.unlockAndNotify()
}

// classify maps a backend failure to the user-facing error
func classify(err error) *domain.SearchError {
	var serr *domain.SearchError
	if errors.As(err, &serr) {
		return serr
	}
	if errors.Is(err, domain.ErrInvalidRequest) {
		return &domain.SearchError{
			Kind:    domain.ErrorKindValidation,
			Message: "search request rejected",
			Err:     err,
		}
	}
	return domain.NewNetworkError(err)
}
