package search

import (
	"context"
	"strings"
	"time"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
)

// SearchDocument represents a document in the search index
type SearchDocument struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Summary        string    `json:"summary"`
	URL            string    `json:"url"`
	PublishedAt    time.Time `json:"published_at"`
	Source         string    `json:"source"`
	Author         string    `json:"author"`
	Category       string    `json:"category"`
	Tags           []string  `json:"tags"`
	Sentiment      string    `json:"sentiment"`
	Language       string    `json:"language"`
	RelevanceScore int       `json:"relevance_score"`
}

// Index is the reference search backend: it ranks, filters, paginates and
// aggregates articles, and derives suggestions from its term dictionaries.
type Index interface {
	// Close closes the search index
	Close() error

	// IndexArticles adds or replaces articles in one batch
	IndexArticles(ctx context.Context, articles []*domain.Article) error

	// DeleteArticle removes an article from the index
	DeleteArticle(ctx context.Context, articleID string) error

	// Search runs one page of a filtered, sorted search
	Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error)

	// Suggest returns up to limit completions for a partial query
	Suggest(ctx context.Context, partial string, limit int) ([]domain.SuggestionItem, error)

	// Count returns the number of documents in the index
	Count() (uint64, error)
}

// ArticleToDocument converts an article to a search document
func ArticleToDocument(article *domain.Article) *SearchDocument {
	return &SearchDocument{
		ID:             article.ID,
		Title:          article.Title,
		Content:        article.Content,
		Summary:        article.Summary,
		URL:            article.URL,
		PublishedAt:    article.PublishedAt,
		Source:         article.Source,
		Author:         article.Author,
		Category:       article.Category,
		Tags:           article.Tags,
		Sentiment:      article.Sentiment,
		Language:       strings.ToLower(article.Language),
		RelevanceScore: article.RelevanceScore,
	}
}
