package memory

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// UserIDFor derives a short stable user identifier from a caller-supplied
// identity string.
func UserIDFor(identifier string) string {
	if identifier == "" {
		identifier = "default"
	}
	sum := md5.Sum([]byte(identifier))
	return hex.EncodeToString(sum[:])[:8]
}

// nowStamp formats timestamps with sub-second precision so turns appended in
// the same second still sort correctly at read time.
func nowStamp() string {
	return time.Now().Format(time.RFC3339Nano)
}

func emptyRecord(userID string) *UserRecord {
	now := nowStamp()
	return &UserRecord{
		UserID:        userID,
		Conversations: []Turn{},
		Profile: Profile{
			Preferences:     map[string]any{},
			MemoryThemes:    map[string]any{},
			FavoriteContent: []string{},
			EmotionalState:  "neutral",
		},
		Statistics: Statistics{
			FavoriteTopics: map[string]int{},
		},
		CreatedAt:   now,
		LastUpdated: now,
	}
}

// recentTurns returns up to limit turns, most recent first. Turns are
// re-sorted by timestamp at read time: append order is not trusted for time
// queries since concurrent writers and clock skew can interleave. Each
// timestamp is parsed once into a sort key; turns whose timestamps do not
// parse sort after every parsed one, ordered among themselves by raw string,
// so the order is well-defined even for mixed records.
func recentTurns(rec *UserRecord, limit int) []Turn {
	type keyedTurn struct {
		turn   Turn
		ts     time.Time
		parsed bool
	}
	keyed := make([]keyedTurn, len(rec.Conversations))
	for i, turn := range rec.Conversations {
		ts, err := parseTimestamp(turn.Timestamp)
		keyed[i] = keyedTurn{turn: turn, ts: ts, parsed: err == nil}
	}
	sort.SliceStable(keyed, func(i, j int) bool {
		a, b := keyed[i], keyed[j]
		if a.parsed != b.parsed {
			return a.parsed
		}
		if a.parsed {
			return a.ts.After(b.ts)
		}
		return a.turn.Timestamp > b.turn.Timestamp
	})

	turns := make([]Turn, len(keyed))
	for i, k := range keyed {
		turns[i] = k.turn
	}
	if limit > 0 && limit < len(turns) {
		turns = turns[:limit]
	}
	return turns
}

// contextString renders the length most recent turns oldest-first as
// alternating speaker lines for prompt assembly.
func contextString(rec *UserRecord, length int) string {
	recent := recentTurns(rec, length)

	var lines []string
	for i := len(recent) - 1; i >= 0; i-- {
		turn := recent[i]
		if turn.User == "" || turn.Assistant == "" {
			continue
		}
		lines = append(lines, "사용자: "+turn.User)
		lines = append(lines, "아바타: "+turn.Assistant)
	}
	return strings.Join(lines, "\n")
}

// analyzeRecord flattens every stored turn's keyword map into topic-frequency
// counts (bare category plus category_subcategory compounds) and buckets each
// turn's hour of day. Turns with unparsable timestamps contribute topics but
// skip the time histogram.
func analyzeRecord(rec *UserRecord) Preferences {
	prefs := Preferences{
		FavoriteTopics:     map[string]int{},
		TimeOfDay:          map[string]int{},
		TotalConversations: len(rec.Conversations),
		AnalyzedAt:         nowStamp(),
	}

	for _, turn := range rec.Conversations {
		for category, subs := range turn.Keywords {
			prefs.FavoriteTopics[string(category)]++
			for sub := range subs {
				prefs.FavoriteTopics[fmt.Sprintf("%s_%s", category, sub)]++
			}
		}

		ts, err := parseTimestamp(turn.Timestamp)
		if err != nil {
			continue
		}
		prefs.TimeOfDay[hourBucket(ts.Hour())]++
	}
	return prefs
}

func hourBucket(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 18:
		return "afternoon"
	case hour >= 18 && hour < 22:
		return "evening"
	default:
		return "night"
	}
}

// similarTurns scores each stored turn by how many query keywords occur in
// its combined text, case-insensitively, and returns the top limit by score.
// The sort is stable so ties keep original order.
func similarTurns(rec *UserRecord, keywords []string, limit int) []SimilarTurn {
	if len(rec.Conversations) == 0 || len(keywords) == 0 {
		return nil
	}

	var scored []SimilarTurn
	for _, turn := range rec.Conversations {
		content := strings.ToLower(turn.User + " " + turn.Assistant)
		score := 0
		for _, kw := range keywords {
			if strings.Contains(content, strings.ToLower(kw)) {
				score++
			}
		}
		if score > 0 {
			scored = append(scored, SimilarTurn{Turn: turn, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if limit > 0 && limit < len(scored) {
		scored = scored[:limit]
	}
	return scored
}

// pruneTurns drops turns older than the cutoff. Turns with missing or
// unparsable timestamps are conservatively kept.
func pruneTurns(rec *UserRecord, cutoff time.Time) int {
	kept := rec.Conversations[:0]
	removed := 0
	for _, turn := range rec.Conversations {
		if turn.Timestamp == "" {
			kept = append(kept, turn)
			continue
		}
		ts, err := parseTimestamp(turn.Timestamp)
		if err != nil || ts.After(cutoff) {
			kept = append(kept, turn)
			continue
		}
		removed++
	}
	rec.Conversations = kept
	return removed
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
