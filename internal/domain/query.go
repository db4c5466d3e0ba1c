package domain

import (
	"strings"
	"unicode/utf8"
)

// MinTermLength is the shortest term (in runes) kept by query normalization.
const MinTermLength = 2

// SearchQuery holds the raw query text and the terms derived from it.
// NormalizedTerms is only ever produced by NewSearchQuery.
type SearchQuery struct {
	Text            string   `json:"text"`
	NormalizedTerms []string `json:"normalized_terms"`
}

// NewSearchQuery builds a query and derives its normalized terms
func NewSearchQuery(text string) SearchQuery {
	return SearchQuery{
		Text:            text,
		NormalizedTerms: NormalizeTerms(text),
	}
}

// IsEmpty reports whether the query has no usable terms
func (q SearchQuery) IsEmpty() bool {
	return len(q.NormalizedTerms) == 0
}

// Clone returns a copy that shares no memory with q
func (q SearchQuery) Clone() SearchQuery {
	out := SearchQuery{Text: q.Text}
	if q.NormalizedTerms != nil {
		out.NormalizedTerms = append([]string(nil), q.NormalizedTerms...)
	}
	return out
}

// NormalizeTerms lower-cases text, splits it on whitespace, drops terms
// shorter than MinTermLength and removes duplicates keeping first-seen order.
func NormalizeTerms(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) < MinTermLength {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}
