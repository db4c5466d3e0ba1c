package filters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
)

func TestClampScoreRange(t *testing.T) {
	tests := []struct {
		name             string
		min, max         int
		wantMin, wantMax int
	}{
		{"valid range untouched", 20, 80, 20, 80},
		{"inverted range swapped", 80, 20, 20, 80},
		{"out of bounds clamped", -5, 140, 0, 100},
		{"inverted and out of bounds", 150, -10, 0, 100},
		{"equal bounds", 50, 50, 50, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max := ClampScoreRange(tt.min, tt.max)
			assert.Equal(t, tt.wantMin, min)
			assert.Equal(t, tt.wantMax, max)
		})
	}
}

func TestNormalizeDateRange(t *testing.T) {
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	swapped := NormalizeDateRange(domain.DateRange{Start: &late, End: &early})
	require.NotNil(t, swapped.Start)
	require.NotNil(t, swapped.End)
	assert.True(t, swapped.Start.Equal(early))
	assert.True(t, swapped.End.Equal(late))

	open := NormalizeDateRange(domain.DateRange{Start: &late})
	assert.True(t, open.Start.Equal(late))
	assert.Nil(t, open.End)
}

func TestToggleSetMember(t *testing.T) {
	original := domain.NewStringSet("bbc")

	added := ToggleSetMember(original, "reuters")
	assert.True(t, added.Has("reuters"))
	assert.False(t, original.Has("reuters"), "input must not be mutated")

	removed := ToggleSetMember(added, "bbc")
	assert.False(t, removed.Has("bbc"))
	assert.True(t, added.Has("bbc"))

	assert.True(t, ToggleSetMember(ToggleSetMember(original, "x"), "x").Equal(original))
}

func TestCountActive(t *testing.T) {
	f := domain.DefaultFilters()
	assert.Equal(t, 0, CountActive(f))
	assert.False(t, HasActive(f))

	start := time.Now()
	f.DateRange.Start = &start
	f.Sources = domain.NewStringSet("bbc", "cnn")
	f.Language = "en"
	f.MinScore = 10
	f.MaxScore = 90
	assert.Equal(t, 4, CountActive(f))

	f.SortBy = domain.SortByDate
	f.SortOrder = domain.SortAsc
	assert.Equal(t, 4, CountActive(f), "sort options are not filters")

	f.Categories = domain.NewStringSet("tech")
	f.Authors = domain.NewStringSet("jane")
	assert.Equal(t, 6, CountActive(f))
}

func TestApply_ScoreInvariant(t *testing.T) {
	min, max := 80, 20
	out, corrections := Apply(domain.DefaultFilters(), domain.FilterPatch{MinScore: &min, MaxScore: &max})

	assert.LessOrEqual(t, out.MinScore, out.MaxScore)
	assert.Equal(t, 20, out.MinScore)
	assert.Equal(t, 80, out.MaxScore)
	require.Len(t, corrections, 1)
	assert.Equal(t, "score_range", corrections[0].Field)
}

func TestApply_MergesOnlyPatchedFields(t *testing.T) {
	base := domain.DefaultFilters()
	base.Sources = domain.NewStringSet("bbc")

	lang := "EN "
	out, corrections := Apply(base, domain.FilterPatch{
		Language:   &lang,
		Categories: domain.NewStringSet("science"),
	})

	assert.Equal(t, "en", out.Language)
	assert.True(t, out.Sources.Has("bbc"))
	assert.True(t, out.Categories.Has("science"))
	assert.Len(t, corrections, 1)

	out.Sources["cnn"] = struct{}{}
	assert.False(t, base.Sources.Has("cnn"), "Apply must not share sets with its input")
}

func TestApply_SwapsInvertedDates(t *testing.T) {
	early := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)

	out, corrections := Apply(domain.DefaultFilters(), domain.FilterPatch{
		DateRange: &domain.DateRange{Start: &late, End: &early},
	})

	assert.True(t, out.DateRange.Start.Equal(early))
	assert.True(t, out.DateRange.End.Equal(late))
	require.Len(t, corrections, 1)
	assert.Equal(t, "date_range", corrections[0].Field)
}

func TestValidate_FixesUnknownEnumsAndNilSets(t *testing.T) {
	out, corrections := Validate(domain.SearchFilters{
		SortBy:    "popularity",
		SortOrder: "sideways",
		MaxScore:  100,
	})

	assert.Equal(t, domain.SortByRelevance, out.SortBy)
	assert.Equal(t, domain.SortDesc, out.SortOrder)
	assert.Equal(t, domain.LanguageAll, out.Language)
	assert.NotNil(t, out.Sources)
	assert.NotNil(t, out.Categories)
	assert.NotNil(t, out.Authors)
	assert.Len(t, corrections, 3)
}
