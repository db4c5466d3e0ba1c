package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
)

func TestValidate_SavedSearch(t *testing.T) {
	v := New()

	ok := domain.SavedSearch{
		Name:           "Tech Daily",
		Filters:        domain.DefaultFilters(),
		AlertFrequency: domain.AlertDaily,
	}
	require.NoError(t, v.Validate(ok))

	badFreq := ok
	badFreq.AlertFrequency = "hourly"
	err := v.Validate(badFreq)
	require.Error(t, err)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "alertfrequency", verr.Field)
	assert.Contains(t, verr.Message, "immediate, daily, weekly, never")

	longName := ok
	longName.Name = strings.Repeat("x", 101)
	assert.Error(t, v.Validate(longName))

	noName := ok
	noName.Name = ""
	assert.Error(t, v.Validate(noName))
}

func TestValidate_SearchRequest(t *testing.T) {
	req := &domain.SearchRequest{Query: "ai", Filters: domain.DefaultFilters(), Page: 1, PageSize: 20}
	require.NoError(t, ValidateStruct(req))

	req.PageSize = 0
	assert.Error(t, ValidateStruct(req))

	req.PageSize = 20
	req.Filters.MaxScore = 140
	assert.Error(t, ValidateStruct(req))
}
