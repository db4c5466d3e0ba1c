package highlight

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
)

// ExtractTerms lower-cases the query, splits it on whitespace, punctuation and
// symbols, drops terms shorter than two runes and removes duplicates keeping
// first-seen order. Queries shorter than two runes yield nil.
func ExtractTerms(query string) []string {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < domain.MinTermLength {
		return nil
	}

	words := strings.FieldsFunc(strings.ToLower(query), isSeparator)
	seen := make(map[string]struct{}, len(words))
	terms := make([]string, 0, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) < domain.MinTermLength {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		terms = append(terms, w)
	}
	return terms
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
}
