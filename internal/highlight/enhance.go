package highlight

import (
	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
)

// Enhance returns a copy of result carrying a Highlight for terms. The title
// is highlighted in full; content and summary are windowed. The snippet is
// taken from the first of content or summary that contains a match.
// Enhance reads only the raw fields, so running it twice gives the same output.
func (h *Highlighter) Enhance(result domain.SearchResult, terms []string) domain.SearchResult {
	out := result.Clone()

	content := h.PlainText(result.Content)
	summary := h.PlainText(result.Summary)

	hl := domain.Highlight{
		TitleHTML:      h.Highlight(result.Title, terms),
		TitleMatches:   h.CountMatches(result.Title, terms),
		ContentMatches: h.CountMatches(content, terms),
		SummaryMatches: h.CountMatches(summary, terms),
		MatchedTerms:   matchedTerms(terms, result.Title, content, summary),
	}

	switch {
	case hl.ContentMatches > 0:
		hl.SnippetHTML = h.HighlightWithContext(content, terms, h.opts.SnippetLength)
	case hl.SummaryMatches > 0:
		hl.SnippetHTML = h.HighlightWithContext(summary, terms, h.opts.SummaryLength)
	case content != "":
		hl.SnippetHTML = h.HighlightWithContext(content, terms, h.opts.SnippetLength)
	default:
		hl.SnippetHTML = h.HighlightWithContext(summary, terms, h.opts.SummaryLength)
	}

	out.Highlight = &hl
	return out
}

// EnhanceAll enhances every result, preserving order
func (h *Highlighter) EnhanceAll(results []domain.SearchResult, terms []string) []domain.SearchResult {
	out := make([]domain.SearchResult, len(results))
	for i, r := range results {
		out[i] = h.Enhance(r, terms)
	}
	return out
}

// matchedTerms lists, in query order, the terms found in any of the fields
func matchedTerms(terms []string, fields ...string) []string {
	matched := make([]string, 0, len(terms))
	for _, t := range terms {
		m := newMatcher([]string{t})
		if m.empty() {
			continue
		}
		for _, f := range fields {
			if idx, _ := m.anchor(lowerRunes([]rune(f))); idx >= 0 {
				matched = append(matched, t)
				break
			}
		}
	}
	return matched
}
