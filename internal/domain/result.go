package domain

import "time"

// SearchResult is the backend's projection of a matching article.
// Highlight is derived client-side and never persisted.
type SearchResult struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Summary        string     `json:"summary"`
	URL            string     `json:"url"`
	PublishedAt    time.Time  `json:"published_at"`
	Source         string     `json:"source"`
	Author         string     `json:"author"`
	Category       string     `json:"category"`
	Tags           []string   `json:"tags"`
	Sentiment      string     `json:"sentiment"`
	Language       string     `json:"language"`
	RelevanceScore int        `json:"relevance_score"`
	Highlight      *Highlight `json:"highlight,omitempty"`
}

// Clone returns a deep copy of the result
func (r SearchResult) Clone() SearchResult {
	out := r
	if r.Tags != nil {
		out.Tags = append([]string(nil), r.Tags...)
	}
	if r.Highlight != nil {
		h := r.Highlight.Clone()
		out.Highlight = &h
	}
	return out
}

// Highlight is the per-result decoration computed for the current query
type Highlight struct {
	TitleHTML      string   `json:"title_html"`
	SnippetHTML    string   `json:"snippet_html"`
	MatchedTerms   []string `json:"matched_terms"`
	TitleMatches   int      `json:"title_matches"`
	ContentMatches int      `json:"content_matches"`
	SummaryMatches int      `json:"summary_matches"`
}

// Clone returns a deep copy
func (h Highlight) Clone() Highlight {
	out := h
	if h.MatchedTerms != nil {
		out.MatchedTerms = append([]string(nil), h.MatchedTerms...)
	}
	return out
}

// TotalMatches sums the per-field match counts
func (h Highlight) TotalMatches() int {
	return h.TitleMatches + h.ContentMatches + h.SummaryMatches
}

// SearchRequest is sent to the search backend
type SearchRequest struct {
	Query    string        `json:"query"`
	Filters  SearchFilters `json:"filters"`
	Page     int           `json:"page" validate:"min=1"`
	PageSize int           `json:"page_size" validate:"min=1,max=100"`
}

// SearchResponse is returned by the search backend for one page
type SearchResponse struct {
	Results      []SearchResult `json:"results"`
	TotalResults int            `json:"total_results"`
	HasMore      bool           `json:"has_more"`
	SearchTimeMs int64          `json:"search_time_ms"`
	Facets       *Facets        `json:"facets,omitempty"`
}

// FacetCount is one bucket of a facet
type FacetCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Facets are backend-reported aggregates used to populate filter options
type Facets struct {
	Sources    []FacetCount `json:"sources"`
	Categories []FacetCount `json:"categories"`
	Authors    []FacetCount `json:"authors"`
}

// Clone returns a deep copy
func (f *Facets) Clone() *Facets {
	if f == nil {
		return nil
	}
	return &Facets{
		Sources:    append([]FacetCount(nil), f.Sources...),
		Categories: append([]FacetCount(nil), f.Categories...),
		Authors:    append([]FacetCount(nil), f.Authors...),
	}
}
