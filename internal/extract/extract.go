// Package extract turns free-form Korean utterances into reminiscence metadata
// using the static taxonomy tables. Matching is plain substring containment,
// case-sensitive, with no tokenization; the taxonomy is small enough that the
// full scan per call is cheap.
package extract

import (
	"strings"

	"github.com/dasomlab/dasom/internal/taxonomy"
)

// KeywordMap groups matched surface terms by category and subcategory. Term
// lists preserve taxonomy scan order, not input order.
type KeywordMap map[taxonomy.Category]map[string][]string

// Keywords scans every taxonomy term against text and records each hit.
// Empty or whitespace-only input yields an empty map.
func Keywords(text string) KeywordMap {
	found := KeywordMap{}
	if strings.TrimSpace(text) == "" {
		return found
	}

	for _, group := range taxonomy.Memory {
		for _, sub := range group.Subgroups {
			var hits []string
			for _, term := range sub.Terms {
				if strings.Contains(text, term) {
					hits = append(hits, term)
				}
			}
			if len(hits) == 0 {
				continue
			}
			if found[group.Name] == nil {
				found[group.Name] = make(map[string][]string)
			}
			found[group.Name][sub.Name] = hits
		}
	}
	return found
}

// Emotions scans the emotion taxonomy, short-circuiting to the first matching
// term per label so each label appears at most once.
func Emotions(text string) []taxonomy.Emotion {
	var emotions []taxonomy.Emotion
	if strings.TrimSpace(text) == "" {
		return emotions
	}

	for _, group := range taxonomy.Emotions {
		for _, term := range group.Terms {
			if strings.Contains(text, term) {
				emotions = append(emotions, group.Label)
				break
			}
		}
	}
	return emotions
}

// Flatten walks the map in taxonomy declaration order and returns every
// matched term. Iterating the taxonomy rather than the map keeps the result
// deterministic.
func (m KeywordMap) Flatten() []string {
	var terms []string
	for _, group := range taxonomy.Memory {
		subs, ok := m[group.Name]
		if !ok {
			continue
		}
		for _, sub := range group.Subgroups {
			terms = append(terms, subs[sub.Name]...)
		}
	}
	return terms
}

// Categories returns the categories with at least one hit, in taxonomy order.
func (m KeywordMap) Categories() []taxonomy.Category {
	var cats []taxonomy.Category
	for _, group := range taxonomy.Memory {
		if _, ok := m[group.Name]; ok {
			cats = append(cats, group.Name)
		}
	}
	return cats
}

// TermCount is the total number of matched terms across all categories.
func (m KeywordMap) TermCount() int {
	n := 0
	for _, subs := range m {
		for _, terms := range subs {
			n += len(terms)
		}
	}
	return n
}
