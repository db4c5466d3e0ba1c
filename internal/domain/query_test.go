package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTerms(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"lowercases and dedups", "AI Ethics  ai", []string{"ai", "ethics"}},
		{"drops short terms", "a bc d efg", []string{"bc", "efg"}},
		{"whitespace only", "   \t\n", []string{}},
		{"keeps punctuation inside terms", "U.S. elections", []string{"u.s.", "elections"}},
		{"counts runes not bytes", "é ñu", []string{"ñu"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTerms(tt.text))
		})
	}
}

func TestNewSearchQuery(t *testing.T) {
	q := NewSearchQuery("Climate climate POLICY")
	assert.Equal(t, "Climate climate POLICY", q.Text)
	assert.Equal(t, []string{"climate", "policy"}, q.NormalizedTerms)
	assert.False(t, q.IsEmpty())

	assert.True(t, NewSearchQuery("a").IsEmpty())
}

func TestSearchQuery_Clone(t *testing.T) {
	q := NewSearchQuery("space launch")
	c := q.Clone()
	c.NormalizedTerms[0] = "changed"
	assert.Equal(t, "space", q.NormalizedTerms[0])
}
