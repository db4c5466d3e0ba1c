package search

import (
	"time"

	bsearch "github.com/blevesearch/bleve/v2/search"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
)

// hitToResult rebuilds a result from the stored fields of a hit
func hitToResult(id string, fields map[string]interface{}) domain.SearchResult {
	r := domain.SearchResult{
		ID:        id,
		Title:     stringField(fields, "title"),
		Content:   stringField(fields, "content"),
		Summary:   stringField(fields, "summary"),
		URL:       stringField(fields, "url"),
		Source:    stringField(fields, "source"),
		Author:    stringField(fields, "author"),
		Category:  stringField(fields, "category"),
		Sentiment: stringField(fields, "sentiment"),
		Language:  stringField(fields, "language"),
		Tags:      stringsField(fields, "tags"),
	}

	if v, ok := fields["relevance_score"].(float64); ok {
		r.RelevanceScore = int(v)
	}
	if v := stringField(fields, "published_at"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			r.PublishedAt = t.UTC()
		}
	}
	return r
}

func stringField(fields map[string]interface{}, name string) string {
	switch v := fields[name].(type) {
	case string:
		return v
	case []interface{}:
		// repeated values of a single-valued field: keep the first
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

// stringsField reads an array field. Bleve returns a bare string when the
// array had exactly one element.
func stringsField(fields map[string]interface{}, name string) []string {
	switch v := fields[name].(type) {
	case string:
		return []string{v}
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func facetCounts(facet *bsearch.FacetResult) []domain.FacetCount {
	if facet == nil || facet.Terms == nil {
		return []domain.FacetCount{}
	}
	terms := facet.Terms.Terms()
	out := make([]domain.FacetCount, 0, len(terms))
	for _, t := range terms {
		out = append(out, domain.FacetCount{Name: t.Term, Count: t.Count})
	}
	return out
}
