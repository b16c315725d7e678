package chat

import (
	"regexp"
	"strings"
)

var sentenceEnd = regexp.MustCompile(`[.!?]$`)

// segmenter folds a token stream into completed sentences. It accumulates
// chunks until the trimmed buffer ends at sentence-terminal punctuation, and
// stops accepting input once the sentence cap is exceeded. The sentence that
// tripped the cap stays in the buffer and comes out through flush, so a
// truncated stream still ends on a complete thought.
type segmenter struct {
	max       int
	buf       string
	full      strings.Builder
	count     int
	truncated bool
}

func newSegmenter(max int) *segmenter {
	return &segmenter{max: max}
}

// feed appends one chunk and reports a completed sentence, if any.
func (g *segmenter) feed(chunk string) (string, bool) {
	if g.truncated {
		return "", false
	}
	g.full.WriteString(chunk)
	g.buf += chunk

	trimmed := strings.TrimSpace(g.buf)
	if trimmed == "" || !sentenceEnd.MatchString(trimmed) {
		return "", false
	}
	g.count++
	if g.count > g.max {
		g.truncated = true
		return "", false
	}
	g.buf = ""
	return trimmed, true
}

// flush drains whatever partial sentence remains.
func (g *segmenter) flush() string {
	rest := strings.TrimSpace(g.buf)
	g.buf = ""
	return rest
}

// text is the full reply consumed so far.
func (g *segmenter) text() string {
	return strings.TrimSpace(g.full.String())
}
