package highlight

import "unicode"

// span is a half-open rune range [start, end) of a match
type span struct {
	start, end int
}

// matcher holds the lower-cased rune form of each term, in caller order.
// Alternation order matters: at any position the first listed term that
// matches wins, and scanning resumes after it.
type matcher struct {
	terms [][]rune
}

func newMatcher(terms []string) *matcher {
	m := &matcher{terms: make([][]rune, 0, len(terms))}
	for _, t := range terms {
		if t == "" {
			continue
		}
		m.terms = append(m.terms, lowerRunes([]rune(t)))
	}
	return m
}

func (m *matcher) empty() bool {
	return len(m.terms) == 0
}

// matchAt returns the length of the first term matching folded at i, or 0
func (m *matcher) matchAt(folded []rune, i int) int {
	for _, term := range m.terms {
		if hasPrefixAt(folded, i, term) {
			return len(term)
		}
	}
	return 0
}

// scan returns the non-overlapping matches of folded, left to right
func (m *matcher) scan(folded []rune) []span {
	if m.empty() {
		return nil
	}
	var spans []span
	for i := 0; i < len(folded); {
		if n := m.matchAt(folded, i); n > 0 {
			spans = append(spans, span{start: i, end: i + n})
			i += n
			continue
		}
		i++
	}
	return spans
}

// anchor returns the position and rune length of the earliest occurrence of
// the first listed term that occurs anywhere in folded, or -1, 0.
func (m *matcher) anchor(folded []rune) (int, int) {
	for _, term := range m.terms {
		for i := 0; i+len(term) <= len(folded); i++ {
			if hasPrefixAt(folded, i, term) {
				return i, len(term)
			}
		}
	}
	return -1, 0
}

func hasPrefixAt(s []rune, i int, prefix []rune) bool {
	if i+len(prefix) > len(s) {
		return false
	}
	for j, r := range prefix {
		if s[i+j] != r {
			return false
		}
	}
	return true
}

// lowerRunes folds each rune independently so indexes stay aligned with the
// original text.
func lowerRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}
