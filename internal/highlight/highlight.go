// Package highlight decorates search results with the terms of the current
// query. Every function is pure: the same input always yields byte-identical
// output, and nothing here reads state outside its arguments.
package highlight

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Format is the markup of article bodies returned by the backend
type Format string

const (
	FormatText     Format = "text"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// Options configures a Highlighter
type Options struct {
	OpenMarker    string
	CloseMarker   string
	Ellipsis      string
	SnippetLength int
	SummaryLength int
	ContentFormat Format
}

// DefaultOptions returns <mark> markers, 200 rune snippets and 150 rune summaries
func DefaultOptions() Options {
	return Options{
		OpenMarker:    "<mark>",
		CloseMarker:   "</mark>",
		Ellipsis:      "...",
		SnippetLength: 200,
		SummaryLength: 150,
		ContentFormat: FormatText,
	}
}

// Highlighter wraps query term occurrences in markers
type Highlighter struct {
	opts   Options
	policy *bluemonday.Policy
	md     goldmark.Markdown
}

// New creates a Highlighter. Zero-valued options fall back to DefaultOptions.
func New(opts Options) *Highlighter {
	def := DefaultOptions()
	if opts.OpenMarker == "" {
		opts.OpenMarker = def.OpenMarker
	}
	if opts.CloseMarker == "" {
		opts.CloseMarker = def.CloseMarker
	}
	if opts.Ellipsis == "" {
		opts.Ellipsis = def.Ellipsis
	}
	if opts.SnippetLength <= 0 {
		opts.SnippetLength = def.SnippetLength
	}
	if opts.SummaryLength <= 0 {
		opts.SummaryLength = def.SummaryLength
	}
	if opts.ContentFormat == "" {
		opts.ContentFormat = def.ContentFormat
	}

	return &Highlighter{
		opts:   opts,
		policy: bluemonday.StrictPolicy().AddSpaceWhenStrippingTag(true),
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Options returns the effective options
func (h *Highlighter) Options() Options {
	return h.opts
}

// Highlight wraps every case-insensitive occurrence of terms in markers.
// Matching is by substring, not word boundary. Text outside and inside the
// markers is HTML-escaped.
func (h *Highlighter) Highlight(text string, terms []string) string {
	runes := []rune(text)
	return h.render(runes, newMatcher(terms).scan(lowerRunes(runes)))
}

// CountMatches returns the number of marker pairs Highlight would insert
func (h *Highlighter) CountMatches(text string, terms []string) int {
	m := newMatcher(terms)
	if m.empty() || text == "" {
		return 0
	}
	return len(m.scan(lowerRunes([]rune(text))))
}

// HighlightWithContext returns a window of at most maxLength runes centred on
// the first occurrence of the first listed term that appears in text,
// highlighted.
// Truncated sides carry the ellipsis. Without any occurrence the leading
// maxLength runes are used.
func (h *Highlighter) HighlightWithContext(text string, terms []string, maxLength int) string {
	runes := []rune(text)
	if maxLength <= 0 || len(runes) <= maxLength {
		return h.Highlight(text, terms)
	}

	m := newMatcher(terms)
	folded := lowerRunes(runes)

	start, end := 0, maxLength
	if idx, n := m.anchor(folded); idx >= 0 {
		start = idx + n/2 - maxLength/2
		if start < 0 {
			start = 0
		}
		end = start + maxLength
		if end > len(runes) {
			end = len(runes)
			start = end - maxLength
		}
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString(h.opts.Ellipsis)
	}
	b.WriteString(h.render(runes[start:end], m.scan(folded[start:end])))
	if end < len(runes) {
		b.WriteString(h.opts.Ellipsis)
	}
	return b.String()
}

// StripMarkers removes the markers and reverses the HTML escaping, giving back
// the plain text Highlight was called with.
func (h *Highlighter) StripMarkers(highlighted string) string {
	s := strings.ReplaceAll(highlighted, h.opts.OpenMarker, "")
	s = strings.ReplaceAll(s, h.opts.CloseMarker, "")
	return html.UnescapeString(s)
}

func (h *Highlighter) render(runes []rune, spans []span) string {
	if len(spans) == 0 {
		return html.EscapeString(string(runes))
	}

	var b strings.Builder
	b.Grow(len(runes) + len(spans)*(len(h.opts.OpenMarker)+len(h.opts.CloseMarker)))
	prev := 0
	for _, sp := range spans {
		b.WriteString(html.EscapeString(string(runes[prev:sp.start])))
		b.WriteString(h.opts.OpenMarker)
		b.WriteString(html.EscapeString(string(runes[sp.start:sp.end])))
		b.WriteString(h.opts.CloseMarker)
		prev = sp.end
	}
	b.WriteString(html.EscapeString(string(runes[prev:])))
	return b.String()
}
