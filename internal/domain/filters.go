package domain

import (
	"encoding/json"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// LanguageAll is the language sentinel meaning "no language filter"
const LanguageAll = "all"

// Score bounds
const (
	MinScoreBound = 0
	MaxScoreBound = 100
)

// SortBy selects the ordering applied by the backend
type SortBy string

const (
	SortByRelevance SortBy = "relevance"
	SortByDate      SortBy = "date"
	SortBySource    SortBy = "source"
)

// Valid reports whether s is a known sort field
func (s SortBy) Valid() bool {
	switch s {
	case SortByRelevance, SortByDate, SortBySource:
		return true
	}
	return false
}

// SortOrder is the direction of the sort
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Valid reports whether o is a known sort direction
func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// StringSet is an unordered set of strings.
// It serializes as a sorted array in both JSON and YAML.
type StringSet map[string]struct{}

// NewStringSet builds a set from values
func NewStringSet(values ...string) StringSet {
	s := make(StringSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports membership
func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Values returns the members in sorted order
func (s StringSet) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy
func (s StringSet) Clone() StringSet {
	out := make(StringSet, len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}

// Equal compares two sets by membership; nil and empty are equal
func (s StringSet) Equal(other StringSet) bool {
	if len(s) != len(other) {
		return false
	}
	for v := range s {
		if !other.Has(v) {
			return false
		}
	}
	return true
}

func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

func (s *StringSet) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = NewStringSet(values...)
	return nil
}

func (s StringSet) MarshalYAML() (interface{}, error) {
	return s.Values(), nil
}

func (s *StringSet) UnmarshalYAML(value *yaml.Node) error {
	var values []string
	if err := value.Decode(&values); err != nil {
		return err
	}
	*s = NewStringSet(values...)
	return nil
}

// DateRange bounds the publication date. Nil means unbounded on that side.
type DateRange struct {
	Start *time.Time `json:"start" yaml:"start"`
	End   *time.Time `json:"end" yaml:"end"`
}

// IsSet reports whether either bound is present
func (d DateRange) IsSet() bool {
	return d.Start != nil || d.End != nil
}

// Clone copies the bounds so the result shares no pointers with d
func (d DateRange) Clone() DateRange {
	var out DateRange
	if d.Start != nil {
		t := *d.Start
		out.Start = &t
	}
	if d.End != nil {
		t := *d.End
		out.End = &t
	}
	return out
}

// Equal compares bounds by instant
func (d DateRange) Equal(other DateRange) bool {
	return timePtrEqual(d.Start, other.Start) && timePtrEqual(d.End, other.End)
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// SearchFilters is the structured filter set applied to a search.
// Treat values as immutable: transformations return new values.
type SearchFilters struct {
	DateRange  DateRange `json:"date_range" yaml:"date_range"`
	Sources    StringSet `json:"sources" yaml:"sources"`
	Categories StringSet `json:"categories" yaml:"categories"`
	Authors    StringSet `json:"authors" yaml:"authors"`
	Language   string    `json:"language" yaml:"language"`
	SortBy     SortBy    `json:"sort_by" yaml:"sort_by" validate:"omitempty,oneof=relevance date source"`
	SortOrder  SortOrder `json:"sort_order" yaml:"sort_order" validate:"omitempty,oneof=asc desc"`
	MinScore   int       `json:"min_score" yaml:"min_score" validate:"min=0,max=100"`
	MaxScore   int       `json:"max_score" yaml:"max_score" validate:"min=0,max=100"`
}

// DefaultFilters returns the filter set with no active dimension
func DefaultFilters() SearchFilters {
	return SearchFilters{
		Sources:    StringSet{},
		Categories: StringSet{},
		Authors:    StringSet{},
		Language:   LanguageAll,
		SortBy:     SortByRelevance,
		SortOrder:  SortDesc,
		MinScore:   MinScoreBound,
		MaxScore:   MaxScoreBound,
	}
}

// Clone returns a deep copy
func (f SearchFilters) Clone() SearchFilters {
	out := f
	out.DateRange = f.DateRange.Clone()
	out.Sources = f.Sources.Clone()
	out.Categories = f.Categories.Clone()
	out.Authors = f.Authors.Clone()
	return out
}

// Equal reports value equality, used to detect unsaved changes and
// duplicate history entries.
func (f SearchFilters) Equal(other SearchFilters) bool {
	return f.DateRange.Equal(other.DateRange) &&
		f.Sources.Equal(other.Sources) &&
		f.Categories.Equal(other.Categories) &&
		f.Authors.Equal(other.Authors) &&
		f.Language == other.Language &&
		f.SortBy == other.SortBy &&
		f.SortOrder == other.SortOrder &&
		f.MinScore == other.MinScore &&
		f.MaxScore == other.MaxScore
}

// FilterPatch is a partial update of SearchFilters. Nil fields are left untouched.
type FilterPatch struct {
	DateRange  *DateRange
	Sources    StringSet
	Categories StringSet
	Authors    StringSet
	Language   *string
	SortBy     *SortBy
	SortOrder  *SortOrder
	MinScore   *int
	MaxScore   *int
}
