package extract

import (
	"regexp"
	"strings"

	"github.com/dasomlab/dasom/internal/taxonomy"
)

// searchPattern is one pattern/extractor pair. The slice below is evaluated in
// order and the first successful capture wins; the ordering is a deliberate
// priority policy, from the most explicit phrasing down to the loosest.
type searchPattern struct {
	name string
	re   *regexp.Regexp
}

var searchPatterns = []searchPattern{
	{name: "youtube_quoted_search", re: regexp.MustCompile(`유튜브에서\s*['"]([^'"]+)['"].*?검색`)},
	{name: "youtube_quoted", re: regexp.MustCompile(`유튜브에서\s*['"]([^'"]+)['"]`)},
	{name: "quoted_search", re: regexp.MustCompile(`'([^']+)'\s*(?:을|를)?\s*검색`)},
	{name: "search_label", re: regexp.MustCompile(`검색어:\s*['"]([^'"]+)['"]`)},
}

// SearchPhrase looks for an embedded search directive in an assistant sentence
// and returns the quoted term, if any.
func SearchPhrase(text string) (string, bool) {
	for _, p := range searchPatterns {
		if m := p.re.FindStringSubmatch(text); m != nil {
			phrase := strings.TrimSpace(m[1])
			if phrase != "" {
				return phrase, true
			}
		}
	}
	return "", false
}

var suggestionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:노래|음악|곡).*?['"](.*?)['"]*?(?:들려|틀어|찾아)`),
	regexp.MustCompile(`['"](.*?)['"]*?(?:노래|음악|곡)`),
	regexp.MustCompile(`(?:유튜브에서|검색해).*?['"](.*?)['"]*`),
}

// SearchSuggestions collects YouTube search queries implied by a user
// utterance: direct song-title and era mentions from the taxonomy mapping,
// plus quoted song requests. Duplicates are removed keeping first occurrence.
func SearchSuggestions(text string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(q string) {
		if q == "" || seen[q] {
			return
		}
		seen[q] = true
		out = append(out, q)
	}

	for _, e := range taxonomy.SongSearches {
		if strings.Contains(text, e.Trigger) {
			add(e.Query)
		}
	}
	for _, e := range taxonomy.EraSearches {
		if strings.Contains(text, e.Trigger) {
			add(e.Query)
		}
	}

	for _, re := range suggestionPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			phrase := strings.TrimSpace(m[1])
			if phrase != "" {
				add(phrase + " 노래")
			}
		}
	}
	return out
}
