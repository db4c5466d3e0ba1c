package search

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
	"github.com/delarge95/ai-news-aggregator-sub000/pkg/logger"
)

// Facet names in search requests and responses
const (
	facetSources    = "sources"
	facetCategories = "categories"
	facetAuthors    = "authors"

	facetSize = 20

	// suggestField indexes titles without stemming for query completion
	suggestField = "title_words"
)

// BleveIndex implements the Index interface using Bleve
type BleveIndex struct {
	index  bleve.Index
	mu     sync.RWMutex
	logger *logger.Logger
}

// NewBleveIndex creates a new Bleve search index
func NewBleveIndex(logger *logger.Logger) *BleveIndex {
	return &BleveIndex{
		logger: logger.WithComponent("bleve-index"),
	}
}

// Open opens or creates the search index at indexPath
func (b *BleveIndex) Open(indexPath string) error {
	if err := os.MkdirAll(filepath.Dir(indexPath), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	var err error

	b.index, err = bleve.Open(indexPath)
	if err == nil {
		b.logger.Info("Opened existing search index", "path", indexPath)
		return nil
	}

	b.index, err = bleve.New(indexPath, buildIndexMapping())
	if err != nil {
		return fmt.Errorf("failed to create search index: %w", err)
	}

	b.logger.Info("Created new search index", "path", indexPath)
	return nil
}

// OpenInMemory creates an index that lives only in memory
func (b *BleveIndex) OpenInMemory() error {
	var err error
	b.index, err = bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("failed to create in-memory index: %w", err)
	}
	b.logger.Info("Created in-memory search index")
	return nil
}

func buildIndexMapping() mapping.IndexMapping {
	articleMapping := bleve.NewDocumentMapping()
	articleMapping.Dynamic = false

	text := func(store bool) *mapping.FieldMapping {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = "en"
		fm.Store = store
		fm.IncludeTermVectors = false
		return fm
	}
	keyword := func() *mapping.FieldMapping {
		fm := bleve.NewKeywordFieldMapping()
		fm.Store = true
		return fm
	}

	// Title is analyzed twice: stemmed for ranking, plain for completion
	titleWords := bleve.NewTextFieldMapping()
	titleWords.Name = suggestField
	titleWords.Analyzer = "standard"
	titleWords.Store = false
	articleMapping.AddFieldMappingsAt("title", text(true), titleWords)

	articleMapping.AddFieldMappingsAt("content", text(true))
	articleMapping.AddFieldMappingsAt("summary", text(true))

	urlMapping := bleve.NewKeywordFieldMapping()
	urlMapping.Index = false
	urlMapping.Store = true
	articleMapping.AddFieldMappingsAt("url", urlMapping)

	for _, field := range []string{"source", "author", "category", "tags", "language", "sentiment"} {
		articleMapping.AddFieldMappingsAt(field, keyword())
	}

	publishedMapping := bleve.NewDateTimeFieldMapping()
	publishedMapping.Store = true
	articleMapping.AddFieldMappingsAt("published_at", publishedMapping)

	scoreMapping := bleve.NewNumericFieldMapping()
	scoreMapping.Store = true
	articleMapping.AddFieldMappingsAt("relevance_score", scoreMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("article", articleMapping)
	indexMapping.DefaultMapping = articleMapping
	indexMapping.DefaultAnalyzer = "en"

	return indexMapping
}

// Close closes the search index
func (b *BleveIndex) Close() error {
	if b.index != nil {
		if err := b.index.Close(); err != nil {
			return fmt.Errorf("failed to close index: %w", err)
		}
		b.logger.Info("Closed search index")
	}
	return nil
}

// IndexArticles indexes articles in a single batch
func (b *BleveIndex) IndexArticles(ctx context.Context, articles []*domain.Article) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	batch := b.index.NewBatch()
	for _, article := range articles {
		if err := batch.Index(article.ID, ArticleToDocument(article)); err != nil {
			return fmt.Errorf("failed to add article %s to batch: %w", article.ID, err)
		}
	}

	if err := b.index.Batch(batch); err != nil {
		b.logger.Error("Failed to index batch", "size", len(articles), "error", err)
		return fmt.Errorf("failed to index articles: %w", err)
	}

	b.logger.Debug("Indexed articles", "count", len(articles))
	return nil
}

// DeleteArticle removes an article from the index
func (b *BleveIndex) DeleteArticle(ctx context.Context, articleID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.index.Delete(articleID); err != nil {
		b.logger.Error("Failed to delete article from index", "article_id", articleID, "error", err)
		return fmt.Errorf("failed to delete from index: %w", err)
	}

	b.logger.Debug("Deleted article from index", "article_id", articleID)
	return nil
}

// Search searches the index
func (b *BleveIndex) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	startTime := time.Now()

	from := (req.Page - 1) * req.PageSize
	searchRequest := bleve.NewSearchRequestOptions(buildSearchQuery(req), req.PageSize, from, false)
	searchRequest.Fields = []string{"*"}
	searchRequest.SortBy(sortOrder(req.Filters))
	searchRequest.AddFacet(facetSources, bleve.NewFacetRequest("source", facetSize))
	searchRequest.AddFacet(facetCategories, bleve.NewFacetRequest("category", facetSize))
	searchRequest.AddFacet(facetAuthors, bleve.NewFacetRequest("author", facetSize))

	searchResults, err := b.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		b.logger.Error("Search failed", "error", err)
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(searchResults.Hits))
	for _, hit := range searchResults.Hits {
		results = append(results, hitToResult(hit.ID, hit.Fields))
	}

	total := int(searchResults.Total)
	resp := &domain.SearchResponse{
		Results:      results,
		TotalResults: total,
		HasMore:      from+len(results) < total,
		SearchTimeMs: time.Since(startTime).Milliseconds(),
		Facets: &domain.Facets{
			Sources:    facetCounts(searchResults.Facets[facetSources]),
			Categories: facetCounts(searchResults.Facets[facetCategories]),
			Authors:    facetCounts(searchResults.Facets[facetAuthors]),
		},
	}

	b.logger.Debug("Search completed",
		"query", req.Query,
		"page", req.Page,
		"results", total,
		"time_ms", resp.SearchTimeMs,
	)

	return resp, nil
}

// buildSearchQuery combines the text query and every active filter with AND
func buildSearchQuery(req *domain.SearchRequest) query.Query {
	var queries []query.Query

	if terms := domain.NormalizeTerms(req.Query); len(terms) > 0 {
		queries = append(queries, textQuery(req.Query))
	}

	f := req.Filters
	if q := anyOf("source", f.Sources.Values()); q != nil {
		queries = append(queries, q)
	}
	if q := anyOf("category", f.Categories.Values()); q != nil {
		queries = append(queries, q)
	}
	if q := anyOf("author", f.Authors.Values()); q != nil {
		queries = append(queries, q)
	}

	if f.Language != "" && f.Language != domain.LanguageAll {
		lang := bleve.NewTermQuery(f.Language)
		lang.SetField("language")
		queries = append(queries, lang)
	}

	if f.DateRange.IsSet() {
		var start, end time.Time
		if f.DateRange.Start != nil {
			start = *f.DateRange.Start
		}
		if f.DateRange.End != nil {
			end = *f.DateRange.End
		}
		inclusive := true
		dateQuery := bleve.NewDateRangeInclusiveQuery(start, end, &inclusive, &inclusive)
		dateQuery.SetField("published_at")
		queries = append(queries, dateQuery)
	}

	if f.MinScore > domain.MinScoreBound || f.MaxScore < domain.MaxScoreBound {
		min, max := float64(f.MinScore), float64(f.MaxScore)
		inclusive := true
		scoreQuery := bleve.NewNumericRangeInclusiveQuery(&min, &max, &inclusive, &inclusive)
		scoreQuery.SetField("relevance_score")
		queries = append(queries, scoreQuery)
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}

// textQuery matches the query in title, summary or content, title weighted most
func textQuery(text string) query.Query {
	title := bleve.NewMatchQuery(text)
	title.SetField("title")
	title.SetBoost(3)

	summary := bleve.NewMatchQuery(text)
	summary.SetField("summary")
	summary.SetBoost(1.5)

	content := bleve.NewMatchQuery(text)
	content.SetField("content")

	tags := bleve.NewMatchQuery(text)
	tags.SetField("tags")

	return bleve.NewDisjunctionQuery(title, summary, content, tags)
}

func anyOf(field string, values []string) query.Query {
	if len(values) == 0 {
		return nil
	}
	terms := make([]query.Query, 0, len(values))
	for _, v := range values {
		tq := bleve.NewTermQuery(v)
		tq.SetField(field)
		terms = append(terms, tq)
	}
	return bleve.NewDisjunctionQuery(terms...)
}

// sortOrder maps the filter sort options to bleve sort keys with stable
// tie-breakers
func sortOrder(f domain.SearchFilters) []string {
	prefix := "-"
	if f.SortOrder == domain.SortAsc {
		prefix = ""
	}

	switch f.SortBy {
	case domain.SortByDate:
		return []string{prefix + "published_at", "_id"}
	case domain.SortBySource:
		return []string{prefix + "source", "-published_at", "_id"}
	default:
		return []string{prefix + "_score", "-published_at", "_id"}
	}
}

// Count returns the number of documents in the index
func (b *BleveIndex) Count() (uint64, error) {
	count, err := b.index.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to get doc count: %w", err)
	}
	return count, nil
}
