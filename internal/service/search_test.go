package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
	"github.com/delarge95/ai-news-aggregator-sub000/pkg/logger"
)

// fakeIndex records the last request it saw
type fakeIndex struct {
	lastReq  *domain.SearchRequest
	indexed  []*domain.Article
	err      error
	docCount uint64
}

func (f *fakeIndex) Close() error { return nil }

func (f *fakeIndex) IndexArticles(ctx context.Context, articles []*domain.Article) error {
	f.indexed = append(f.indexed, articles...)
	return f.err
}

func (f *fakeIndex) DeleteArticle(ctx context.Context, id string) error { return f.err }

func (f *fakeIndex) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.SearchResponse{Results: []domain.SearchResult{}, TotalResults: 0}, nil
}

func (f *fakeIndex) Suggest(ctx context.Context, partial string, limit int) ([]domain.SuggestionItem, error) {
	return []domain.SuggestionItem{{Text: partial, Count: limit}}, f.err
}

func (f *fakeIndex) Count() (uint64, error) { return f.docCount, f.err }

func TestSearch_NormalizesRequest(t *testing.T) {
	idx := &fakeIndex{}
	svc := NewSearchService(idx, logger.NewNop())

	f := domain.DefaultFilters()
	f.MinScore, f.MaxScore = 80, 20
	_, err := svc.Search(context.Background(), &domain.SearchRequest{Query: "ai", Filters: f, Page: 0, PageSize: 500})
	require.NoError(t, err)

	require.NotNil(t, idx.lastReq)
	assert.Equal(t, 1, idx.lastReq.Page)
	assert.Equal(t, 100, idx.lastReq.PageSize)
	assert.Equal(t, 20, idx.lastReq.Filters.MinScore)
	assert.Equal(t, 80, idx.lastReq.Filters.MaxScore)
}

func TestSearch_PropagatesIndexError(t *testing.T) {
	boom := errors.New("index closed")
	svc := NewSearchService(&fakeIndex{err: boom}, logger.NewNop())

	_, err := svc.Search(context.Background(), &domain.SearchRequest{Query: "ai", Filters: domain.DefaultFilters(), Page: 1, PageSize: 10})
	assert.ErrorIs(t, err, boom)

	_, err = svc.Search(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestIndexArticles_RejectsInvalid(t *testing.T) {
	idx := &fakeIndex{}
	svc := NewSearchService(idx, logger.NewNop())

	good := &domain.Article{ID: "1", Title: "t", Source: "s", PublishedAt: time.Now()}
	bad := &domain.Article{ID: "2", Title: "", Source: "s"}

	err := svc.IndexArticles(context.Background(), []*domain.Article{good, bad})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "title", verr.Field)
	assert.Empty(t, idx.indexed)

	require.NoError(t, svc.IndexArticles(context.Background(), []*domain.Article{good}))
	assert.Len(t, idx.indexed, 1)
}

func TestSuggest_DefaultsLimit(t *testing.T) {
	svc := NewSearchService(&fakeIndex{}, logger.NewNop())
	items, err := svc.Suggest(context.Background(), "cli", 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 8, items[0].Count)
}

func TestGetIndexStats(t *testing.T) {
	svc := NewSearchService(&fakeIndex{docCount: 7}, logger.NewNop())
	stats, err := svc.GetIndexStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(7), stats["total_documents"])
}
