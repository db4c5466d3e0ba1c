package main

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/controller"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	matchStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	metaStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// terminalText turns highlighted HTML into styled terminal text
func terminalText(highlighted, open, close string) string {
	var b strings.Builder
	rest := highlighted
	for {
		i := strings.Index(rest, open)
		if i < 0 {
			b.WriteString(html.UnescapeString(rest))
			return b.String()
		}
		b.WriteString(html.UnescapeString(rest[:i]))
		rest = rest[i+len(open):]

		j := strings.Index(rest, close)
		if j < 0 {
			b.WriteString(html.UnescapeString(rest))
			return b.String()
		}
		b.WriteString(matchStyle.Render(html.UnescapeString(rest[:j])))
		rest = rest[j+len(close):]
	}
}

func renderState(w io.Writer, st controller.State, open, close string) {
	if st.Error != nil {
		fmt.Fprintln(w, errorStyle.Render("search failed: "+st.Error.Message))
	}

	for i, r := range st.Results {
		title, snippet := html.EscapeString(r.Title), ""
		if r.Highlight != nil {
			title, snippet = r.Highlight.TitleHTML, r.Highlight.SnippetHTML
		}
		fmt.Fprintf(w, "%d. %s\n", i+1, titleStyle.Render(terminalText(title, open, close)))
		fmt.Fprintf(w, "   %s\n", metaStyle.Render(resultMeta(r)))
		if snippet != "" {
			fmt.Fprintf(w, "   %s\n", terminalText(snippet, open, close))
		}
		if r.URL != "" {
			fmt.Fprintf(w, "   %s\n", r.URL)
		}
	}

	summary := fmt.Sprintf("%d of %d results (%dms)", len(st.Results), st.TotalResults, st.SearchTimeMs)
	if st.ActiveFilters > 0 {
		summary += fmt.Sprintf(", %d filters active", st.ActiveFilters)
	}
	if st.HasMore {
		summary += ", more available"
	}
	fmt.Fprintln(w, metaStyle.Render(summary))
}

func resultMeta(r domain.SearchResult) string {
	parts := []string{r.Source}
	if r.Author != "" {
		parts = append(parts, r.Author)
	}
	if !r.PublishedAt.IsZero() {
		parts = append(parts, r.PublishedAt.Format("2006-01-02"))
	}
	parts = append(parts, fmt.Sprintf("score %d", r.RelevanceScore))
	return strings.Join(parts, " | ")
}

func renderSuggestions(w io.Writer, items []domain.SuggestionItem) {
	for _, s := range items {
		line := fmt.Sprintf("%s  [%s]", s.Text, s.Type)
		if s.Count > 0 {
			line += fmt.Sprintf(" (%d)", s.Count)
		}
		if s.IsRecent {
			line += " " + metaStyle.Render("recent")
		}
		fmt.Fprintln(w, line)
	}
}

func describeFilters(f domain.SearchFilters) string {
	var parts []string
	if len(f.Sources) > 0 {
		parts = append(parts, "sources="+strings.Join(f.Sources.Values(), ","))
	}
	if len(f.Categories) > 0 {
		parts = append(parts, "categories="+strings.Join(f.Categories.Values(), ","))
	}
	if len(f.Authors) > 0 {
		parts = append(parts, "authors="+strings.Join(f.Authors.Values(), ","))
	}
	if f.Language != "" && f.Language != domain.LanguageAll {
		parts = append(parts, "language="+f.Language)
	}
	if f.DateRange.Start != nil {
		parts = append(parts, "from="+f.DateRange.Start.Format("2006-01-02"))
	}
	if f.DateRange.End != nil {
		parts = append(parts, "to="+f.DateRange.End.Format("2006-01-02"))
	}
	if f.MinScore > domain.MinScoreBound || f.MaxScore < domain.MaxScoreBound {
		parts = append(parts, fmt.Sprintf("score=%d-%d", f.MinScore, f.MaxScore))
	}
	if len(parts) == 0 {
		return "no filters"
	}
	return strings.Join(parts, " ")
}
