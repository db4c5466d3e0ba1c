package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/persistence"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/repository/memory"
	"github.com/delarge95/ai-news-aggregator-sub000/pkg/logger"
)

const waitFor = 2 * time.Second

var _ Store = (*persistence.Store)(nil)

// backendFunc answers synchronously
type backendFunc func(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error)

func (f backendFunc) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
	return f(ctx, req)
}

// pendingCall is a request held by a gatedBackend until the test answers it
type pendingCall struct {
	ctx   context.Context
	req   *domain.SearchRequest
	reply chan reply
}

type reply struct {
	resp *domain.SearchResponse
	err  error
}

func (p *pendingCall) respond(resp *domain.SearchResponse, err error) {
	p.reply <- reply{resp, err}
}

// gatedBackend hands every request to the test and ignores cancellation,
// so late answers can be simulated
type gatedBackend struct {
	calls chan *pendingCall
}

func newGatedBackend() *gatedBackend {
	return &gatedBackend{calls: make(chan *pendingCall, 8)}
}

func (g *gatedBackend) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
	call := &pendingCall{ctx: ctx, req: req, reply: make(chan reply, 1)}
	g.calls <- call
	r := <-call.reply
	return r.resp, r.err
}

func (g *gatedBackend) next(t *testing.T) *pendingCall {
	t.Helper()
	select {
	case call := <-g.calls:
		return call
	case <-time.After(waitFor):
		t.Fatal("backend was not called")
		return nil
	}
}

type stubProvider struct {
	mu    sync.Mutex
	calls []string
	items []domain.SuggestionItem
	err   error
}

func (p *stubProvider) Suggestions(ctx context.Context, partial string) ([]domain.SuggestionItem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, partial)
	return p.items, p.err
}

func (p *stubProvider) seen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func results(ids ...string) []domain.SearchResult {
	out := make([]domain.SearchResult, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.SearchResult{
			ID:      id,
			Title:   "AI story " + id,
			Content: "Coverage of AI policy in article " + id,
		})
	}
	return out
}

func resultIDs(rs []domain.SearchResult) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func newStore(t *testing.T) *persistence.Store {
	t.Helper()
	return persistence.Open(context.Background(), memory.New(), logger.NewNop())
}

func newController(t *testing.T, backend Backend, opts ...Option) (*Controller, *persistence.Store) {
	t.Helper()
	store := newStore(t)
	c := New(backend, nil, store, logger.NewNop(), opts...)
	t.Cleanup(c.Close)
	return c, store
}

func staticBackend(pages map[int]*domain.SearchResponse) (Backend, *[]*domain.SearchRequest) {
	var mu sync.Mutex
	var seen []*domain.SearchRequest
	return backendFunc(func(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
		mu.Lock()
		seen = append(seen, req)
		mu.Unlock()
		if resp, ok := pages[req.Page]; ok {
			copied := *resp
			return &copied, nil
		}
		return &domain.SearchResponse{Results: []domain.SearchResult{}}, nil
	}), &seen
}

func TestSearch_Success(t *testing.T) {
	backend, seen := staticBackend(map[int]*domain.SearchResponse{
		1: {Results: results("1", "2"), TotalResults: 2, SearchTimeMs: 12, Facets: &domain.Facets{Sources: []domain.FacetCount{{Name: "BBC", Count: 2}}}},
	})
	c, store := newController(t, backend)

	resp, err := c.Search(context.Background(), "AI", nil)
	require.NoError(t, err)
	require.NotNil(t, resp)

	st := c.State()
	assert.Equal(t, StatusSuccess, st.Status)
	assert.Equal(t, []string{"1", "2"}, resultIDs(st.Results))
	assert.Equal(t, 2, st.TotalResults)
	assert.Equal(t, 1, st.Page)
	assert.Equal(t, int64(12), st.SearchTimeMs)
	assert.Equal(t, []string{"ai"}, st.Query.NormalizedTerms)
	require.NotNil(t, st.Facets)

	require.NotNil(t, st.Results[0].Highlight)
	assert.Equal(t, "<mark>AI</mark> story 1", st.Results[0].Highlight.TitleHTML)
	assert.Equal(t, []string{"ai"}, st.Results[0].Highlight.MatchedTerms)
	require.NotNil(t, resp.Results[0].Highlight)

	require.Len(t, *seen, 1)
	assert.Equal(t, 1, (*seen)[0].Page)
	assert.Equal(t, 20, (*seen)[0].PageSize)

	history := store.History()
	require.Len(t, history, 1)
	assert.Equal(t, "AI", history[0].Query)
	assert.Equal(t, 2, history[0].ResultCount)
}

func TestSearch_ZeroResultsIsSuccess(t *testing.T) {
	backend, _ := staticBackend(nil)
	c, _ := newController(t, backend)

	_, err := c.Search(context.Background(), "nothing here", nil)
	require.NoError(t, err)

	st := c.State()
	assert.Equal(t, StatusSuccess, st.Status)
	assert.NotNil(t, st.Results)
	assert.Empty(t, st.Results)
}

func TestSearch_LastWriterWins(t *testing.T) {
	backend := newGatedBackend()
	c, store := newController(t, backend)
	ctx := context.Background()

	type outcome struct {
		resp *domain.SearchResponse
		err  error
	}
	first := make(chan outcome, 1)
	second := make(chan outcome, 1)

	go func() {
		resp, err := c.Search(ctx, "alpha", nil)
		first <- outcome{resp, err}
	}()
	callA := backend.next(t)
	assert.Equal(t, "alpha", callA.req.Query)

	go func() {
		resp, err := c.Search(ctx, "beta", nil)
		second <- outcome{resp, err}
	}()
	callB := backend.next(t)
	assert.Equal(t, "beta", callB.req.Query)
	assert.Error(t, callA.ctx.Err(), "superseded request is cancelled")

	callB.respond(&domain.SearchResponse{Results: results("b"), TotalResults: 1}, nil)
	got := <-second
	require.NoError(t, got.err)
	require.NotNil(t, got.resp)

	// the first request answers late
	callA.respond(&domain.SearchResponse{Results: results("a"), TotalResults: 1}, nil)
	late := <-first
	assert.NoError(t, late.err)
	assert.Nil(t, late.resp)

	st := c.State()
	assert.Equal(t, StatusSuccess, st.Status)
	assert.Equal(t, []string{"b"}, resultIDs(st.Results))
	assert.Equal(t, "beta", st.Query.Text)

	history := store.History()
	require.Len(t, history, 1)
	assert.Equal(t, "beta", history[0].Query)
}

func TestSearch_ErrorKeepsResults(t *testing.T) {
	fail := false
	backend := backendFunc(func(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
		if fail {
			return nil, fmt.Errorf("%w: connection refused", domain.ErrNetwork)
		}
		return &domain.SearchResponse{Results: results("1"), TotalResults: 1}, nil
	})
	c, _ := newController(t, backend)
	ctx := context.Background()

	_, err := c.Search(ctx, "ai", nil)
	require.NoError(t, err)

	fail = true
	_, err = c.Search(ctx, "ai policy", nil)
	var serr *domain.SearchError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, domain.ErrorKindNetwork, serr.Kind)
	assert.True(t, serr.Retryable)
	assert.ErrorIs(t, err, domain.ErrNetwork)

	st := c.State()
	assert.Equal(t, StatusError, st.Status)
	require.NotNil(t, st.Error)
	assert.Equal(t, domain.ErrorKindNetwork, st.Error.Kind)
	assert.Equal(t, []string{"1"}, resultIDs(st.Results))

	fail = false
	_, err = c.Search(ctx, "ai policy", nil)
	require.NoError(t, err)
	assert.Nil(t, c.State().Error)
}

func TestSearch_EmptyQuery(t *testing.T) {
	backend, seen := staticBackend(map[int]*domain.SearchResponse{1: {Results: results("1"), TotalResults: 1}})
	c, _ := newController(t, backend)
	ctx := context.Background()

	_, err := c.Search(ctx, "ai", nil)
	require.NoError(t, err)

	resp, err := c.Search(ctx, "  ", nil)
	require.NoError(t, err)
	assert.Nil(t, resp)
	st := c.State()
	assert.Equal(t, StatusIdle, st.Status)
	assert.Empty(t, st.Results)
	assert.Len(t, *seen, 1)

	f := domain.DefaultFilters()
	f.Sources = domain.NewStringSet("BBC")
	_, err = c.Search(ctx, "", &f)
	require.NoError(t, err)
	require.Len(t, *seen, 2)
	assert.Equal(t, "", (*seen)[1].Query)
	assert.True(t, (*seen)[1].Filters.Sources.Has("BBC"))
	assert.Equal(t, StatusSuccess, c.State().Status)
}

func TestLoadMore_AppendsAndDedups(t *testing.T) {
	backend, seen := staticBackend(map[int]*domain.SearchResponse{
		1: {Results: results("1", "2"), TotalResults: 3, HasMore: true},
		2: {Results: results("2", "3"), TotalResults: 3, HasMore: false},
	})
	c, _ := newController(t, backend, WithConfig(Config{PageSize: 2}))
	ctx := context.Background()

	require.NoError(t, c.LoadMore(ctx), "no-op before any search")
	assert.Empty(t, *seen)

	_, err := c.Search(ctx, "ai", nil)
	require.NoError(t, err)
	require.NoError(t, c.LoadMore(ctx))

	st := c.State()
	assert.Equal(t, []string{"1", "2", "3"}, resultIDs(st.Results))
	assert.Equal(t, 2, st.Page)
	assert.False(t, st.HasMore)
	require.NotNil(t, st.Results[2].Highlight)

	require.Len(t, *seen, 2)
	assert.Equal(t, 2, (*seen)[1].Page)
	assert.Equal(t, "ai", (*seen)[1].Query)

	require.NoError(t, c.LoadMore(ctx))
	assert.Len(t, *seen, 2, "no request once the last page is loaded")
}

func TestLoadMore_AfterFailedSearchContinuesLoadedResults(t *testing.T) {
	var mu sync.Mutex
	var seen []*domain.SearchRequest
	backend := backendFunc(func(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
		mu.Lock()
		seen = append(seen, req)
		mu.Unlock()
		if len(req.Filters.Sources) > 0 {
			return nil, fmt.Errorf("%w: timeout", domain.ErrNetwork)
		}
		id := fmt.Sprintf("p%d", req.Page)
		return &domain.SearchResponse{Results: results(id), TotalResults: 10, HasMore: true}, nil
	})
	c, _ := newController(t, backend, WithConfig(Config{PageSize: 1}))
	ctx := context.Background()

	_, err := c.Search(ctx, "ai", nil)
	require.NoError(t, err)
	require.NoError(t, c.LoadMore(ctx))
	require.NoError(t, c.LoadMore(ctx))

	f := domain.DefaultFilters()
	f.Sources = domain.NewStringSet("bbc")
	_, err = c.Search(ctx, "ai", &f)
	require.ErrorIs(t, err, domain.ErrNetwork)

	st := c.State()
	assert.Equal(t, StatusError, st.Status)
	assert.Equal(t, []string{"p1", "p2", "p3"}, resultIDs(st.Results))
	assert.Equal(t, 3, st.Page, "page belongs to the loaded results")

	require.NoError(t, c.LoadMore(ctx))

	mu.Lock()
	last := seen[len(seen)-1]
	mu.Unlock()
	assert.Equal(t, 4, last.Page)
	assert.Equal(t, "ai", last.Query)
	assert.Empty(t, last.Filters.Sources, "next page uses the filters of the loaded results")
	assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, resultIDs(c.State().Results))
}

func TestLoadMore_OutcomeWhileTypingIsRestoredAfterDebounce(t *testing.T) {
	mock := clock.NewMock()
	backend := newGatedBackend()
	c := New(backend, nil, newStore(t), logger.NewNop(), WithClock(mock))
	defer c.Close()
	ctx := context.Background()

	searched := make(chan error, 1)
	go func() {
		_, err := c.Search(ctx, "ai", nil)
		searched <- err
	}()
	backend.next(t).respond(&domain.SearchResponse{Results: results("1"), TotalResults: 2, HasMore: true}, nil)
	require.NoError(t, <-searched)

	loaded := make(chan error, 1)
	go func() { loaded <- c.LoadMore(ctx) }()
	page := backend.next(t)

	c.SetQueryText("ai pol")
	require.Equal(t, StatusDebouncing, c.State().Status)

	page.respond(nil, fmt.Errorf("%w: reset", domain.ErrNetwork))
	require.Error(t, <-loaded)
	assert.Equal(t, StatusDebouncing, c.State().Status, "typing status survives the page outcome")
	assert.NotNil(t, c.State().Error)

	require.Eventually(t, func() bool {
		mock.Add(50 * time.Millisecond)
		return c.State().Status == StatusError
	}, waitFor, time.Millisecond)
}

func TestLoadMore_SinglePageInFlight(t *testing.T) {
	backend := newGatedBackend()
	c, _ := newController(t, backend)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := c.Search(ctx, "ai", nil)
		done <- err
	}()
	backend.next(t).respond(&domain.SearchResponse{Results: results("1"), TotalResults: 2, HasMore: true}, nil)
	require.NoError(t, <-done)

	loaded := make(chan error, 1)
	go func() { loaded <- c.LoadMore(ctx) }()
	page := backend.next(t)
	assert.Equal(t, 2, page.req.Page)
	assert.True(t, c.State().LoadingMore)

	require.NoError(t, c.LoadMore(ctx))
	select {
	case extra := <-backend.calls:
		t.Fatalf("unexpected request for page %d", extra.req.Page)
	default:
	}

	page.respond(&domain.SearchResponse{Results: results("2"), TotalResults: 2}, nil)
	require.NoError(t, <-loaded)
	assert.Equal(t, []string{"1", "2"}, resultIDs(c.State().Results))
	assert.False(t, c.State().LoadingMore)
}

func TestLoadMore_IgnoredWhileSearching(t *testing.T) {
	backend := newGatedBackend()
	c, _ := newController(t, backend)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := c.Search(ctx, "ai", nil)
		done <- err
	}()
	backend.next(t).respond(&domain.SearchResponse{Results: results("1"), TotalResults: 2, HasMore: true}, nil)
	require.NoError(t, <-done)

	go func() {
		_, err := c.Search(ctx, "ai news", nil)
		done <- err
	}()
	pending := backend.next(t)
	require.Equal(t, StatusSearching, c.State().Status)

	require.NoError(t, c.LoadMore(ctx))
	select {
	case extra := <-backend.calls:
		t.Fatalf("unexpected request for page %d", extra.req.Page)
	default:
	}

	pending.respond(&domain.SearchResponse{Results: results("9"), TotalResults: 1}, nil)
	require.NoError(t, <-done)
}

func TestUpdateFilters_KeepsScoreRangeOrdered(t *testing.T) {
	backend, seen := staticBackend(nil)
	c, store := newController(t, backend)
	ctx := context.Background()

	min, max := 80, 20
	require.NoError(t, c.UpdateFilters(ctx, domain.FilterPatch{MinScore: &min, MaxScore: &max}))

	st := c.State()
	assert.Equal(t, 20, st.Filters.MinScore)
	assert.Equal(t, 80, st.Filters.MaxScore)
	assert.Equal(t, 1, st.ActiveFilters)
	assert.Equal(t, StatusIdle, st.Status)
	assert.Empty(t, *seen, "no search without an active one")

	pref, ok := store.FilterPreference()
	require.True(t, ok)
	assert.Equal(t, 20, pref.MinScore)
}

func TestUpdateFilters_ResearchesActiveSearch(t *testing.T) {
	backend, seen := staticBackend(map[int]*domain.SearchResponse{1: {Results: results("1"), TotalResults: 1}})
	c, _ := newController(t, backend)
	ctx := context.Background()

	_, err := c.Search(ctx, "ai", nil)
	require.NoError(t, err)

	lang := "DE"
	require.NoError(t, c.UpdateFilters(ctx, domain.FilterPatch{Language: &lang, Sources: domain.NewStringSet("BBC")}))

	require.Len(t, *seen, 2)
	last := (*seen)[1]
	assert.Equal(t, "ai", last.Query)
	assert.Equal(t, "de", last.Filters.Language)
	assert.True(t, last.Filters.Sources.Has("BBC"))
	assert.Equal(t, 2, c.State().ActiveFilters)

	require.NoError(t, c.ResetFilters(ctx))
	require.Len(t, *seen, 3)
	assert.Equal(t, 0, c.State().ActiveFilters)
}

func TestInitialFiltersFromPreference(t *testing.T) {
	store := newStore(t)
	pref := domain.DefaultFilters()
	pref.Categories = domain.NewStringSet("science")
	store.SaveFilterPreference(context.Background(), pref)

	backend, _ := staticBackend(nil)
	c := New(backend, nil, store, logger.NewNop())
	defer c.Close()

	st := c.State()
	assert.True(t, st.Filters.Categories.Has("science"))
	assert.Equal(t, 1, st.ActiveFilters)
}

func TestSetQueryText_DebouncesThenSuggests(t *testing.T) {
	mock := clock.NewMock()
	provider := &stubProvider{items: []domain.SuggestionItem{{ID: "q", Text: "ai news", Type: domain.SuggestionQuery}}}
	backend, seen := staticBackend(nil)
	store := newStore(t)
	c := New(backend, provider, store, logger.NewNop(), WithClock(mock))
	defer c.Close()

	c.SetQueryText("a")
	assert.Equal(t, StatusIdle, c.State().Status)

	c.SetQueryText("ai")
	assert.Equal(t, StatusDebouncing, c.State().Status)
	mock.Add(100 * time.Millisecond)
	c.SetQueryText("ai ne")
	assert.Equal(t, "ai ne", c.State().Query.Text)

	require.Eventually(t, func() bool {
		mock.Add(20 * time.Millisecond)
		return len(provider.seen()) > 0
	}, waitFor, time.Millisecond)

	assert.Equal(t, []string{"ai ne"}, provider.seen())
	require.Eventually(t, func() bool {
		return len(c.State().Suggestions) == 1
	}, waitFor, time.Millisecond)
	assert.Equal(t, StatusIdle, c.State().Status, "status restored after debounce")
	assert.Empty(t, *seen, "typing never searches")

	mock.Add(time.Second)
	assert.Equal(t, []string{"ai ne"}, provider.seen())
}

func TestSetQueryText_WhileSearchingKeepsStatus(t *testing.T) {
	mock := clock.NewMock()
	backend := newGatedBackend()
	c := New(backend, nil, newStore(t), logger.NewNop(), WithClock(mock))
	defer c.Close()

	done := make(chan error, 1)
	go func() {
		_, err := c.Search(context.Background(), "ai", nil)
		done <- err
	}()
	call := backend.next(t)

	c.SetQueryText("ai policy")
	assert.Equal(t, StatusSearching, c.State().Status)

	call.respond(&domain.SearchResponse{Results: results("1"), TotalResults: 1}, nil)
	require.NoError(t, <-done)
	assert.Equal(t, StatusSuccess, c.State().Status)
}

func TestSetQueryText_EmptyClears(t *testing.T) {
	backend, _ := staticBackend(map[int]*domain.SearchResponse{1: {Results: results("1"), TotalResults: 1}})
	c, _ := newController(t, backend)

	_, err := c.Search(context.Background(), "ai", nil)
	require.NoError(t, err)

	c.SetQueryText("a")
	st := c.State()
	assert.Equal(t, StatusIdle, st.Status)
	assert.Empty(t, st.Results)
	assert.Equal(t, 0, st.Page)
}

func TestGetSuggestions_ShortPartialAndFailures(t *testing.T) {
	mock := clock.NewMock()
	provider := &stubProvider{items: []domain.SuggestionItem{{Text: "climate"}}}
	backend, _ := staticBackend(nil)
	c := New(backend, provider, newStore(t), logger.NewNop(), WithClock(mock))
	defer c.Close()

	c.GetSuggestions("c")
	mock.Add(time.Second)
	assert.Empty(t, provider.seen())

	c.GetSuggestions("cl")
	require.Eventually(t, func() bool {
		mock.Add(50 * time.Millisecond)
		return len(c.State().Suggestions) == 1
	}, waitFor, time.Millisecond)

	provider.mu.Lock()
	provider.err = errors.New("offline")
	provider.mu.Unlock()

	c.GetSuggestions("cli")
	require.Eventually(t, func() bool {
		mock.Add(50 * time.Millisecond)
		return len(provider.seen()) == 2
	}, waitFor, time.Millisecond)
	assert.Len(t, c.State().Suggestions, 1, "failure keeps the previous suggestions")
}

func TestClearSearch(t *testing.T) {
	backend, _ := staticBackend(map[int]*domain.SearchResponse{1: {Results: results("1"), TotalResults: 1, HasMore: true}})
	c, store := newController(t, backend)
	ctx := context.Background()

	f := domain.DefaultFilters()
	f.Authors = domain.NewStringSet("Jane Doe")
	_, err := c.Search(ctx, "ai", &f)
	require.NoError(t, err)

	c.ClearSearch()
	st := c.State()
	assert.Equal(t, StatusIdle, st.Status)
	assert.Empty(t, st.Query.Text)
	assert.Empty(t, st.Results)
	assert.False(t, st.HasMore)
	assert.True(t, st.Filters.Authors.Has("Jane Doe"), "filters survive a clear")
	assert.Len(t, store.History(), 1, "history survives a clear")
}

func TestSaveSearch(t *testing.T) {
	backend, seen := staticBackend(nil)
	c, store := newController(t, backend)
	ctx := context.Background()

	f := domain.DefaultFilters()
	f.Sources = domain.NewStringSet("BBC")
	_, err := c.Search(ctx, "ai", &f)
	require.NoError(t, err)

	saved, err := c.SaveSearch(ctx, "Tech Daily", domain.SaveOptions{AlertFrequency: domain.AlertDaily})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "ai", saved.Query)
	assert.True(t, saved.Filters.Sources.Has("BBC"))
	assert.Equal(t, domain.AlertDaily, saved.AlertFrequency)

	_, err = c.SaveSearch(ctx, "tech daily", domain.SaveOptions{})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
	_, err = c.SaveSearch(ctx, "  ", domain.SaveOptions{})
	assert.ErrorIs(t, err, domain.ErrEmptyName)

	changed, err := c.HasUnsavedChanges(saved.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	lang := "fr"
	require.NoError(t, c.UpdateFilters(ctx, domain.FilterPatch{Language: &lang}))
	changed, err = c.HasUnsavedChanges(saved.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	_, err = c.ApplySavedSearch(ctx, saved.ID)
	require.NoError(t, err)
	last := (*seen)[len(*seen)-1]
	assert.Equal(t, "ai", last.Query)
	assert.Equal(t, domain.LanguageAll, last.Filters.Language)

	touched, err := store.SavedSearch(saved.ID)
	require.NoError(t, err)
	assert.False(t, touched.LastUsed.IsZero())

	_, err = c.ApplySavedSearch(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSavedSearchNotFound)
}

func TestReplayHistory(t *testing.T) {
	backend, seen := staticBackend(nil)
	c, store := newController(t, backend)
	ctx := context.Background()

	f := domain.DefaultFilters()
	f.MinScore = 60
	_, err := c.Search(ctx, "climate", &f)
	require.NoError(t, err)
	c.ClearSearch()

	id := store.History()[0].ID
	_, err = c.ReplayHistory(ctx, id)
	require.NoError(t, err)

	st := c.State()
	assert.Equal(t, "climate", st.Query.Text)
	assert.Equal(t, 60, st.Filters.MinScore)
	assert.Len(t, *seen, 2)
	assert.Len(t, store.History(), 1, "replaying moves the entry to the front")
}

func TestPresets(t *testing.T) {
	backend, _ := staticBackend(nil)
	c, _ := newController(t, backend)
	ctx := context.Background()

	require.NoError(t, c.UpdateFilters(ctx, domain.FilterPatch{Categories: domain.NewStringSet("science")}))
	require.NoError(t, c.SavePreset(ctx, "science only"))
	require.NoError(t, c.ResetFilters(ctx))
	assert.Equal(t, 0, c.State().ActiveFilters)

	require.NoError(t, c.ApplyPreset(ctx, "science only"))
	assert.True(t, c.State().Filters.Categories.Has("science"))
	assert.ErrorIs(t, c.ApplyPreset(ctx, "nope"), domain.ErrPresetNotFound)
}

func TestSelectSuggestion(t *testing.T) {
	backend, seen := staticBackend(nil)
	c, _ := newController(t, backend)
	ctx := context.Background()

	require.NoError(t, c.SelectSuggestion(ctx, domain.SuggestionItem{Text: "ai regulation", Type: domain.SuggestionQuery}))
	require.Len(t, *seen, 1)
	assert.Equal(t, "ai regulation", (*seen)[0].Query)

	require.NoError(t, c.SelectSuggestion(ctx, domain.SuggestionItem{Text: "BBC", Type: domain.SuggestionSource}))
	require.Len(t, *seen, 2)
	assert.Equal(t, "ai regulation", (*seen)[1].Query)
	assert.True(t, (*seen)[1].Filters.Sources.Has("BBC"))

	require.NoError(t, c.SelectSuggestion(ctx, domain.SuggestionItem{Text: "BBC", Type: domain.SuggestionSource}))
	assert.False(t, c.State().Filters.Sources.Has("BBC"), "selecting again toggles off")
}

func TestStateIsACopy(t *testing.T) {
	backend, _ := staticBackend(map[int]*domain.SearchResponse{1: {Results: results("1"), TotalResults: 1}})
	c, _ := newController(t, backend)

	_, err := c.Search(context.Background(), "ai", nil)
	require.NoError(t, err)

	st := c.State()
	st.Results[0].Title = "changed"
	st.Filters.Sources["x"] = struct{}{}
	st.Results[0].Highlight.MatchedTerms[0] = "zz"

	fresh := c.State()
	assert.Equal(t, "AI story 1", fresh.Results[0].Title)
	assert.Empty(t, fresh.Filters.Sources)
	assert.Equal(t, "ai", fresh.Results[0].Highlight.MatchedTerms[0])
}

func TestOnChangeAndClose(t *testing.T) {
	var mu sync.Mutex
	var statuses []Status
	backend, _ := staticBackend(nil)
	c := New(backend, nil, newStore(t), logger.NewNop(), WithOnChange(func(s State) {
		mu.Lock()
		statuses = append(statuses, s.Status)
		mu.Unlock()
	}))

	_, err := c.Search(context.Background(), "ai", nil)
	require.NoError(t, err)

	mu.Lock()
	assert.Equal(t, []Status{StatusSearching, StatusSuccess}, statuses)
	mu.Unlock()

	c.Close()
	c.Close()
	_, err = c.Search(context.Background(), "ai", nil)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, c.LoadMore(context.Background()), ErrClosed)
}
