package domain

import "time"

// DefaultHistoryLimit caps the search history
const DefaultHistoryLimit = 50

// SearchHistoryItem records one issued search
type SearchHistoryItem struct {
	ID          string        `json:"id"`
	Query       string        `json:"query"`
	Filters     SearchFilters `json:"filters"`
	Timestamp   time.Time     `json:"timestamp"`
	ResultCount int           `json:"result_count"`
}

// Clone returns a deep copy
func (h SearchHistoryItem) Clone() SearchHistoryItem {
	out := h
	out.Filters = h.Filters.Clone()
	return out
}

// SameSearch reports whether h was issued with exactly this query and filters
func (h SearchHistoryItem) SameSearch(query string, filters SearchFilters) bool {
	return h.Query == query && h.Filters.Equal(filters)
}
