package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/filters"
)

// filterFlags are the filter options shared by search, saved and presets
type filterFlags struct {
	sources    []string
	categories []string
	authors    []string
	language   string
	from       string
	to         string
	sortBy     string
	sortOrder  string
	minScore   int
	maxScore   int
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringSliceVar(&f.sources, "source", nil, "only these sources (repeatable)")
	fl.StringSliceVar(&f.categories, "category", nil, "only these categories (repeatable)")
	fl.StringSliceVar(&f.authors, "author", nil, "only these authors (repeatable)")
	fl.StringVar(&f.language, "language", "", "language code, or 'all'")
	fl.StringVar(&f.from, "from", "", "published on or after (YYYY-MM-DD or RFC3339)")
	fl.StringVar(&f.to, "to", "", "published on or before (YYYY-MM-DD or RFC3339)")
	fl.StringVar(&f.sortBy, "sort", "", "relevance, date or source")
	fl.StringVar(&f.sortOrder, "order", "", "asc or desc")
	fl.IntVar(&f.minScore, "min-score", domain.MinScoreBound, "minimum relevance score")
	fl.IntVar(&f.maxScore, "max-score", domain.MaxScoreBound, "maximum relevance score")
}

// patch turns the flags the user set into a filter patch
func (f *filterFlags) patch(cmd *cobra.Command) (domain.FilterPatch, error) {
	var p domain.FilterPatch
	fl := cmd.Flags()

	if fl.Changed("source") {
		p.Sources = domain.NewStringSet(f.sources...)
	}
	if fl.Changed("category") {
		p.Categories = domain.NewStringSet(f.categories...)
	}
	if fl.Changed("author") {
		p.Authors = domain.NewStringSet(f.authors...)
	}
	if fl.Changed("language") {
		p.Language = &f.language
	}
	if fl.Changed("sort") {
		s := domain.SortBy(f.sortBy)
		p.SortBy = &s
	}
	if fl.Changed("order") {
		o := domain.SortOrder(f.sortOrder)
		p.SortOrder = &o
	}
	if fl.Changed("min-score") {
		p.MinScore = &f.minScore
	}
	if fl.Changed("max-score") {
		p.MaxScore = &f.maxScore
	}
	if fl.Changed("from") || fl.Changed("to") {
		var dr domain.DateRange
		var err error
		if dr.Start, err = parseDate(f.from); err != nil {
			return p, fmt.Errorf("invalid --from: %w", err)
		}
		if dr.End, err = parseDate(f.to); err != nil {
			return p, fmt.Errorf("invalid --to: %w", err)
		}
		p.DateRange = &dr
	}
	return p, nil
}

// filters applies the flags to the default filter set
func (f *filterFlags) filters(cmd *cobra.Command) (domain.SearchFilters, error) {
	p, err := f.patch(cmd)
	if err != nil {
		return domain.SearchFilters{}, err
	}
	out, _ := filters.Apply(domain.DefaultFilters(), p)
	return out, nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%q is not a date", s)
}
