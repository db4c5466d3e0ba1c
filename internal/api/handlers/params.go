package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
)

// PaginationParams holds parsed pagination parameters
type PaginationParams struct {
	Page  int
	Limit int
}

// QueryParamParser provides helpers for parsing and validating query parameters.
// The first failure sticks; later calls return defaults.
type QueryParamParser struct {
	c   *gin.Context
	err error
}

// NewQueryParamParser creates a new query parameter parser
func NewQueryParamParser(c *gin.Context) *QueryParamParser {
	return &QueryParamParser{c: c}
}

// Error returns any parsing error that occurred
func (p *QueryParamParser) Error() error {
	return p.err
}

// Pagination parses and validates pagination parameters
func (p *QueryParamParser) Pagination(defaultLimit int) PaginationParams {
	page := p.Int("page", 1)
	limit := p.Int("limit", defaultLimit)
	if p.err != nil {
		return PaginationParams{Page: 1, Limit: defaultLimit}
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}

	return PaginationParams{Page: page, Limit: limit}
}

// Int parses an integer parameter
func (p *QueryParamParser) Int(key string, defaultValue int) int {
	if p.err != nil {
		return defaultValue
	}
	raw := p.c.Query(key)
	if raw == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		p.err = fmt.Errorf("invalid '%s' parameter: must be a number", key)
		return defaultValue
	}
	return parsed
}

// DateRange parses RFC3339 bounds. Missing bounds stay nil; an inverted
// range is left for the filter validation to swap.
func (p *QueryParamParser) DateRange(fromKey, toKey string) domain.DateRange {
	var result domain.DateRange
	result.Start = p.time(fromKey)
	result.End = p.time(toKey)
	if p.err != nil {
		return domain.DateRange{}
	}
	return result
}

func (p *QueryParamParser) time(key string) *time.Time {
	if p.err != nil {
		return nil
	}
	raw := p.c.Query(key)
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		p.err = fmt.Errorf("invalid '%s' date format: use RFC3339 format (e.g., 2024-01-15T00:00:00Z)", key)
		return nil
	}
	parsed = parsed.UTC()
	return &parsed
}

// Set parses a comma-separated parameter into a set
func (p *QueryParamParser) Set(key string) domain.StringSet {
	if p.err != nil {
		return domain.StringSet{}
	}

	set := domain.StringSet{}
	for _, part := range strings.Split(p.c.Query(key), ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return set
}

// String gets a string parameter with optional default
func (p *QueryParamParser) String(key, defaultValue string) string {
	if p.err != nil {
		return defaultValue
	}

	value := strings.TrimSpace(p.c.Query(key))
	if value == "" {
		return defaultValue
	}
	return value
}

// Filters reads a complete filter set from the query string
func (p *QueryParamParser) Filters() domain.SearchFilters {
	f := domain.DefaultFilters()
	f.DateRange = p.DateRange("from", "to")
	f.Sources = p.Set("sources")
	f.Categories = p.Set("categories")
	f.Authors = p.Set("authors")
	f.Language = p.String("language", domain.LanguageAll)
	f.SortBy = domain.SortBy(p.String("sort_by", string(domain.SortByRelevance)))
	f.SortOrder = domain.SortOrder(p.String("sort_order", string(domain.SortDesc)))
	f.MinScore = p.Int("min_score", domain.MinScoreBound)
	f.MaxScore = p.Int("max_score", domain.MaxScoreBound)
	return f
}
