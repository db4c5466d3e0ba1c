// Package filters holds the stateless transformations applied to
// domain.SearchFilters. Every function returns a new value; inputs are never
// mutated.
package filters

import (
	"strings"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
)

// ClampScoreRange clamps both bounds into [0,100] and swaps them when inverted
func ClampScoreRange(min, max int) (int, int) {
	min = clamp(min, domain.MinScoreBound, domain.MaxScoreBound)
	max = clamp(max, domain.MinScoreBound, domain.MaxScoreBound)
	if min > max {
		min, max = max, min
	}
	return min, max
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NormalizeDateRange swaps start and end when start is after end
func NormalizeDateRange(dr domain.DateRange) domain.DateRange {
	out := dr.Clone()
	if out.Start != nil && out.End != nil && out.Start.After(*out.End) {
		out.Start, out.End = out.End, out.Start
	}
	return out
}

// ToggleSetMember adds value when absent and removes it when present
func ToggleSetMember(set domain.StringSet, value string) domain.StringSet {
	out := set.Clone()
	if out.Has(value) {
		delete(out, value)
	} else {
		out[value] = struct{}{}
	}
	return out
}

// CountActive returns the number of filter dimensions that differ from
// domain.DefaultFilters. Sorting is ordering, not filtering, and is not counted.
// Every "N filters active" indicator must be derived from this function.
func CountActive(f domain.SearchFilters) int {
	n := 0
	if f.DateRange.IsSet() {
		n++
	}
	if len(f.Sources) > 0 {
		n++
	}
	if len(f.Categories) > 0 {
		n++
	}
	if len(f.Authors) > 0 {
		n++
	}
	if f.Language != "" && f.Language != domain.LanguageAll {
		n++
	}
	if f.MinScore > domain.MinScoreBound || f.MaxScore < domain.MaxScoreBound {
		n++
	}
	return n
}

// HasActive reports whether any filter dimension is active
func HasActive(f domain.SearchFilters) bool {
	return CountActive(f) > 0
}

// Apply merges patch into f and returns the validated result together with
// the corrections that validation had to make.
func Apply(f domain.SearchFilters, patch domain.FilterPatch) (domain.SearchFilters, []*domain.ValidationError) {
	out := f.Clone()
	if patch.DateRange != nil {
		out.DateRange = patch.DateRange.Clone()
	}
	if patch.Sources != nil {
		out.Sources = patch.Sources.Clone()
	}
	if patch.Categories != nil {
		out.Categories = patch.Categories.Clone()
	}
	if patch.Authors != nil {
		out.Authors = patch.Authors.Clone()
	}
	if patch.Language != nil {
		out.Language = *patch.Language
	}
	if patch.SortBy != nil {
		out.SortBy = *patch.SortBy
	}
	if patch.SortOrder != nil {
		out.SortOrder = *patch.SortOrder
	}
	if patch.MinScore != nil {
		out.MinScore = *patch.MinScore
	}
	if patch.MaxScore != nil {
		out.MaxScore = *patch.MaxScore
	}
	return Validate(out)
}

// Validate corrects malformed filter input locally. The returned errors
// describe what was corrected; they are meant for logging, not for users.
func Validate(f domain.SearchFilters) (domain.SearchFilters, []*domain.ValidationError) {
	out := f.Clone()
	var corrections []*domain.ValidationError

	min, max := ClampScoreRange(out.MinScore, out.MaxScore)
	if min != out.MinScore || max != out.MaxScore {
		corrections = append(corrections, domain.NewValidationError("score_range", "score range clamped to [0,100] with min <= max"))
		out.MinScore, out.MaxScore = min, max
	}

	normalized := NormalizeDateRange(out.DateRange)
	if !normalized.Equal(out.DateRange) {
		corrections = append(corrections, domain.NewValidationError("date_range", "inverted date range swapped"))
	}
	out.DateRange = normalized

	lang := strings.ToLower(strings.TrimSpace(out.Language))
	if lang == "" {
		lang = domain.LanguageAll
	}
	if lang != out.Language {
		corrections = append(corrections, domain.NewValidationError("language", "language normalized"))
		out.Language = lang
	}

	if !out.SortBy.Valid() {
		corrections = append(corrections, domain.NewValidationError("sort_by", "unknown sort field, using relevance"))
		out.SortBy = domain.SortByRelevance
	}
	if !out.SortOrder.Valid() {
		corrections = append(corrections, domain.NewValidationError("sort_order", "unknown sort order, using desc"))
		out.SortOrder = domain.SortDesc
	}

	if out.Sources == nil {
		out.Sources = domain.StringSet{}
	}
	if out.Categories == nil {
		out.Categories = domain.StringSet{}
	}
	if out.Authors == nil {
		out.Authors = domain.StringSet{}
	}

	return out, corrections
}
