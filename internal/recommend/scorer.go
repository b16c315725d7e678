package recommend

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/dasomlab/dasom/internal/extract"
	"github.com/dasomlab/dasom/internal/taxonomy"
)

// Scoring weights, summing to 1.0 together with the history bonus cap.
const (
	weightKeyword    = 0.4
	weightEmotion    = 0.3
	weightPopularity = 0.2
	historyBonusCap  = 0.1
)

const maxResults = 5

const fallbackReason = "회상치료에 도움이 되는 콘텐츠"

// Library holds the mutable in-memory content catalogs. Safe for concurrent
// use; popularity feedback and additions take the write lock.
type Library struct {
	mu       sync.RWMutex
	catalogs map[Catalog][]Item
}

// NewLibrary returns a library populated with the seed catalogs.
func NewLibrary() *Library {
	return &Library{catalogs: seedCatalogs()}
}

// Recommend scores every item in the selected catalogs against the utterance
// and returns the top five across catalogs, highest score first. Items that
// score exactly zero are dropped. favorites is the user's topic-frequency
// history and may be nil.
func (l *Library) Recommend(userText string, favorites map[string]int, filter Catalog) []Result {
	keywords := extract.Keywords(userText).Flatten()
	emotions := extract.Emotions(userText)

	l.mu.RLock()
	defer l.mu.RUnlock()

	var results []Result
	for _, cat := range catalogOrder {
		if filter != CatalogAll && filter != cat {
			continue
		}
		for _, item := range l.catalogs[cat] {
			score := scoreItem(item, keywords, emotions, favorites)
			if score <= 0 {
				continue
			}
			results = append(results, Result{
				Type:         resultType[cat],
				ID:           item.ID,
				Title:        item.Title,
				Artist:       item.Artist,
				YouTubeQuery: item.YouTubeQuery,
				Description:  item.Description,
				Duration:     item.Duration,
				Suggestions:  item.Suggestions,
				Questions:    item.Questions,
				Score:        score,
				Reason:       buildReason(item, keywords, emotions),
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

func scoreItem(item Item, keywords []string, emotions []taxonomy.Emotion, favorites map[string]int) float64 {
	score := 0.0

	if len(keywords) > 0 {
		matched := 0
		for _, w := range keywords {
			if containsKeyword(item.Keywords, w) {
				matched++
			}
		}
		score += float64(matched) / float64(len(keywords)) * weightKeyword
	}

	if len(emotions) > 0 {
		matched := 0
		for _, e := range emotions {
			if containsEmotion(item.Emotions, e) {
				matched++
			}
		}
		score += float64(matched) / float64(len(emotions)) * weightEmotion
	}

	score += float64(item.Popularity) / 100 * weightPopularity

	for _, w := range item.Keywords {
		if freq, ok := favorites[w]; ok {
			bonus := float64(freq) * 0.01
			if bonus > historyBonusCap {
				bonus = historyBonusCap
			}
			score += bonus
		}
	}

	if score > 1 {
		score = 1
	}
	return score
}

// buildReason explains a recommendation from the matched keywords, matched
// emotions and the item's popularity, in that order.
func buildReason(item Item, keywords []string, emotions []taxonomy.Emotion) string {
	var clauses []string

	var matched []string
	for _, w := range keywords {
		if containsKeyword(item.Keywords, w) {
			matched = append(matched, w)
		}
	}
	if len(matched) > 0 {
		if len(matched) > 2 {
			matched = matched[:2]
		}
		clauses = append(clauses, fmt.Sprintf("'%s'와 관련된 내용", strings.Join(matched, ", ")))
	}

	var moods []string
	for _, e := range emotions {
		if !containsEmotion(item.Emotions, e) {
			continue
		}
		if display, ok := taxonomy.EmotionDisplay[e]; ok {
			moods = append(moods, display)
		} else {
			moods = append(moods, string(e))
		}
		if len(moods) == 2 {
			break
		}
	}
	if len(moods) > 0 {
		clauses = append(clauses, fmt.Sprintf("%s을 불러일으킬 수 있는 콘텐츠", strings.Join(moods, ", ")))
	}

	if item.Popularity > 90 {
		clauses = append(clauses, "많은 분들이 좋아하시는 인기 콘텐츠")
	}

	if len(clauses) == 0 {
		return fallbackReason
	}
	return strings.Join(clauses, " · ")
}

func containsKeyword(haystack []string, w string) bool {
	for _, k := range haystack {
		if k == w {
			return true
		}
	}
	return false
}

func containsEmotion(haystack []taxonomy.Emotion, e taxonomy.Emotion) bool {
	for _, k := range haystack {
		if k == e {
			return true
		}
	}
	return false
}

// RandomSample returns up to count distinct items from one catalog.
func (l *Library) RandomSample(cat Catalog, count int) []Item {
	l.mu.RLock()
	defer l.mu.RUnlock()

	items := l.catalogs[cat]
	if len(items) == 0 || count <= 0 {
		return nil
	}
	if count > len(items) {
		count = len(items)
	}
	picked := rand.Perm(len(items))[:count]
	out := make([]Item, 0, count)
	for _, i := range picked {
		out = append(out, items[i])
	}
	return out
}

// TopByPopularity returns up to count items from one catalog, most popular
// first. Ties keep seed order.
func (l *Library) TopByPopularity(cat Catalog, count int) []Item {
	l.mu.RLock()
	defer l.mu.RUnlock()

	items := l.catalogs[cat]
	if len(items) == 0 || count <= 0 {
		return nil
	}
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Popularity > sorted[j].Popularity
	})
	if count > len(sorted) {
		count = len(sorted)
	}
	return sorted[:count]
}

// AddItem upserts an item into a catalog, matching on ID.
func (l *Library) AddItem(cat Catalog, item Item) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, existing := range l.catalogs[cat] {
		if existing.ID == item.ID {
			l.catalogs[cat][i] = item
			return
		}
	}
	l.catalogs[cat] = append(l.catalogs[cat], item)
}

// AdjustPopularity applies feedback to one item, clamping popularity to
// [0,100]. It reports whether the item exists.
func (l *Library) AdjustPopularity(cat Catalog, id string, delta int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, item := range l.catalogs[cat] {
		if item.ID != id {
			continue
		}
		p := item.Popularity + delta
		if p < 0 {
			p = 0
		}
		if p > 100 {
			p = 100
		}
		l.catalogs[cat][i].Popularity = p
		return true
	}
	return false
}
