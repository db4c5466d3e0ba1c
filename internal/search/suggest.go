package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
)

// facet-like fields offered as suggestions, with the type they report
var suggestionFields = []struct {
	field string
	kind  domain.SuggestionType
}{
	{"source", domain.SuggestionSource},
	{"category", domain.SuggestionCategory},
	{"author", domain.SuggestionAuthor},
	{"tags", domain.SuggestionTag},
}

// Suggest derives suggestions from the index dictionaries: keyword values
// containing the partial query, and completions of its last word from
// titles. Results are ranked by document count.
func (b *BleveIndex) Suggest(ctx context.Context, partial string, limit int) ([]domain.SuggestionItem, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(partial))
	if needle == "" {
		return []domain.SuggestionItem{}, nil
	}

	var items []domain.SuggestionItem

	for _, sf := range suggestionFields {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found, err := b.dictionaryMatches(sf.field, sf.kind, needle)
		if err != nil {
			return nil, err
		}
		items = append(items, found...)
	}

	completions, err := b.completions(needle)
	if err != nil {
		return nil, err
	}
	items = append(items, completions...)

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Text < items[j].Text
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	if items == nil {
		items = []domain.SuggestionItem{}
	}
	return items, nil
}

func (b *BleveIndex) dictionaryMatches(field string, kind domain.SuggestionType, needle string) ([]domain.SuggestionItem, error) {
	dict, err := b.index.FieldDict(field)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s dictionary: %w", field, err)
	}
	defer dict.Close()

	var items []domain.SuggestionItem
	for {
		entry, err := dict.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s dictionary: %w", field, err)
		}
		if entry == nil {
			break
		}
		if strings.Contains(strings.ToLower(entry.Term), needle) {
			items = append(items, domain.SuggestionItem{
				ID:    string(kind) + ":" + entry.Term,
				Text:  entry.Term,
				Type:  kind,
				Count: int(entry.Count),
			})
		}
	}
	return items, nil
}

// completions extends the last word of needle with title terms
func (b *BleveIndex) completions(needle string) ([]domain.SuggestionItem, error) {
	words := strings.Fields(needle)
	last := words[len(words)-1]
	if len([]rune(last)) < domain.MinTermLength {
		return nil, nil
	}
	head := strings.Join(words[:len(words)-1], " ")

	dict, err := b.index.FieldDictPrefix(suggestField, []byte(last))
	if err != nil {
		return nil, fmt.Errorf("failed to read title dictionary: %w", err)
	}
	defer dict.Close()

	var items []domain.SuggestionItem
	for {
		entry, err := dict.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to read title dictionary: %w", err)
		}
		if entry == nil {
			break
		}
		text := entry.Term
		if head != "" {
			text = head + " " + entry.Term
		}
		items = append(items, domain.SuggestionItem{
			ID:    string(domain.SuggestionQuery) + ":" + text,
			Text:  text,
			Type:  domain.SuggestionQuery,
			Count: int(entry.Count),
		})
	}
	return items, nil
}
