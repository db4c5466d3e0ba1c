package domain

// SuggestionType tells where a suggestion comes from
type SuggestionType string

const (
	SuggestionQuery    SuggestionType = "query"
	SuggestionSource   SuggestionType = "source"
	SuggestionCategory SuggestionType = "category"
	SuggestionTag      SuggestionType = "tag"
	SuggestionAuthor   SuggestionType = "author"
)

// SuggestionItem is an ephemeral autocomplete entry
type SuggestionItem struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Type     SuggestionType `json:"type"`
	Count    int            `json:"count"`
	IsRecent bool           `json:"is_recent"`
}
