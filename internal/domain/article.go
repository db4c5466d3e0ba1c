package domain

import (
	"encoding/json"
	"time"
)

// Article is a news article as stored by the search backend.
// RelevanceScore is assigned upstream by the ingestion pipeline.
type Article struct {
	ID             string    `json:"id" validate:"required"`
	Title          string    `json:"title" validate:"required,max=500"`
	Content        string    `json:"content"`
	Summary        string    `json:"summary"`
	URL            string    `json:"url" validate:"omitempty,url"`
	PublishedAt    time.Time `json:"published_at"`
	Source         string    `json:"source" validate:"required"`
	Author         string    `json:"author"`
	Category       string    `json:"category"`
	Tags           []string  `json:"tags"`
	Sentiment      string    `json:"sentiment"`
	Language       string    `json:"language"`
	RelevanceScore int       `json:"relevance_score" validate:"min=0,max=100"`
}

// Validate validates the article fields
func (a *Article) Validate() error {
	if a.ID == "" {
		return NewValidationError("id", "id is required")
	}
	if a.Title == "" {
		return NewValidationError("title", "title is required")
	}
	if a.Source == "" {
		return NewValidationError("source", "source is required")
	}
	if a.RelevanceScore < MinScoreBound || a.RelevanceScore > MaxScoreBound {
		return NewValidationError("relevance_score", "relevance score must be between 0 and 100")
	}
	return nil
}

// ToResult projects the article into a search result
func (a *Article) ToResult() SearchResult {
	return SearchResult{
		ID:             a.ID,
		Title:          a.Title,
		Content:        a.Content,
		Summary:        a.Summary,
		URL:            a.URL,
		PublishedAt:    a.PublishedAt,
		Source:         a.Source,
		Author:         a.Author,
		Category:       a.Category,
		Tags:           append([]string(nil), a.Tags...),
		Sentiment:      a.Sentiment,
		Language:       a.Language,
		RelevanceScore: a.RelevanceScore,
	}
}

// ArticlesFromJSON parses a JSON array of articles
func ArticlesFromJSON(data []byte) ([]*Article, error) {
	var articles []*Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}
