package service

import (
	"context"
	"fmt"
	"time"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/filters"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/search"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/validator"
	"github.com/delarge95/ai-news-aggregator-sub000/pkg/logger"
)

const (
	defaultPageSize        = 20
	maxPageSize            = 100
	defaultSuggestionLimit = 8
)

// SearchService handles search-related operations
type SearchService struct {
	index     search.Index
	validator *validator.Validator
	logger    *logger.Logger
}

// NewSearchService creates a new search service
func NewSearchService(index search.Index, logger *logger.Logger) *SearchService {
	return &SearchService{
		index:     index,
		validator: validator.New(),
		logger:    logger.WithComponent("search-service"),
	}
}

// Search runs one page of a search. Malformed filters are corrected rather
// than rejected; page and page size are clamped into range.
func (s *SearchService) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", domain.ErrInvalidRequest)
	}

	normalized := *req
	if normalized.Page < 1 {
		normalized.Page = 1
	}
	if normalized.PageSize < 1 {
		normalized.PageSize = defaultPageSize
	}
	if normalized.PageSize > maxPageSize {
		normalized.PageSize = maxPageSize
	}

	corrected, corrections := filters.Validate(normalized.Filters)
	for _, c := range corrections {
		s.logger.Debug("Corrected search filters", "field", c.Field, "reason", c.Message)
	}
	normalized.Filters = corrected

	if err := s.validator.Validate(&normalized); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	start := time.Now()
	resp, err := s.index.Search(ctx, &normalized)
	if err != nil {
		s.logger.Error("Search failed", "query", normalized.Query, "error", err)
		return nil, err
	}
	resp.SearchTimeMs = time.Since(start).Milliseconds()

	s.logger.Debug("Search completed",
		"query", normalized.Query,
		"page", normalized.Page,
		"results", resp.TotalResults,
		"active_filters", filters.CountActive(normalized.Filters),
		"time_ms", resp.SearchTimeMs,
	)

	return resp, nil
}

// Suggest returns index-derived suggestions for a partial query
func (s *SearchService) Suggest(ctx context.Context, partial string, limit int) ([]domain.SuggestionItem, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = defaultSuggestionLimit
	}
	items, err := s.index.Suggest(ctx, partial, limit)
	if err != nil {
		s.logger.Error("Suggest failed", "partial", partial, "error", err)
		return nil, err
	}
	return items, nil
}

// IndexArticles validates and indexes articles. Nothing is indexed when any
// article is invalid.
func (s *SearchService) IndexArticles(ctx context.Context, articles []*domain.Article) error {
	for _, a := range articles {
		if err := a.Validate(); err != nil {
			return err
		}
		if err := s.validator.Validate(a); err != nil {
			return err
		}
	}
	if err := s.index.IndexArticles(ctx, articles); err != nil {
		return err
	}
	s.logger.Info("Indexed articles", "count", len(articles))
	return nil
}

// DeleteArticle removes an article from the search index
func (s *SearchService) DeleteArticle(ctx context.Context, articleID string) error {
	return s.index.DeleteArticle(ctx, articleID)
}

// GetIndexStats returns statistics about the search index
func (s *SearchService) GetIndexStats(ctx context.Context) (map[string]interface{}, error) {
	count, err := s.index.Count()
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"total_documents": count,
	}, nil
}
