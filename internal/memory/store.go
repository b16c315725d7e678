package memory

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// errAbsent signals that a backend holds no usable record for a user. Corrupt
// persisted state maps to errAbsent too: availability wins over consistency
// and the caller gets a fresh empty record.
var errAbsent = errors.New("memory: record absent")

// backend persists whole user records. Implementations do not serialize
// concurrent writers; the Store does.
type backend interface {
	load(ctx context.Context, userID string) (*UserRecord, error)
	save(ctx context.Context, rec *UserRecord) error
	users(ctx context.Context) ([]string, error)
	size(ctx context.Context, userID string) (int64, error)
	Close() error
}

// Store is the conversation memory API. Writes for the same user are
// serialized with a per-user mutex held across the whole load-modify-persist
// sequence, so two concurrent turns cannot silently drop each other's append.
// Writers in other processes remain last-write-wins.
type Store struct {
	backend backend

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newStore(b backend) *Store {
	return &Store{backend: b, locks: make(map[string]*sync.Mutex)}
}

func (s *Store) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// Load returns the persisted record for userID, or a fresh empty one. It
// never fails: read faults and corrupt state are logged and replaced.
func (s *Store) Load(ctx context.Context, userID string) *UserRecord {
	rec, err := s.backend.load(ctx, userID)
	if err != nil {
		if !errors.Is(err, errAbsent) {
			log.Printf("memory: load %s failed, starting empty: %v", userID, err)
		}
		return emptyRecord(userID)
	}
	return rec
}

// AppendTurn stores a completed turn with a monotonically increasing index
// and returns the resulting conversation count. Persistence faults are logged
// and reported as false, with the pre-append count; a failed write may still
// have partially replaced the record on disk.
func (s *Store) AppendTurn(ctx context.Context, userID, userText, assistantText string, meta TurnMetadata) (int, bool) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	rec := s.Load(ctx, userID)
	now := nowStamp()

	rec.Conversations = append(rec.Conversations, Turn{
		Index:     len(rec.Conversations) + 1,
		ID:        uuid.NewString(),
		User:      userText,
		Assistant: assistantText,
		Timestamp: now,
		Keywords:  meta.Keywords,
		Emotions:  meta.Emotions,
	})
	rec.Statistics.TotalConversations = len(rec.Conversations)
	rec.Statistics.LastActive = now
	rec.LastUpdated = now

	if err := s.backend.save(ctx, rec); err != nil {
		log.Printf("memory: append turn for %s failed: %v", userID, err)
		return len(rec.Conversations) - 1, false
	}
	return len(rec.Conversations), true
}

// Recent returns the limit most recent turns, most recent first.
func (s *Store) Recent(ctx context.Context, userID string, limit int) []Turn {
	return recentTurns(s.Load(ctx, userID), limit)
}

// ContextString renders the length most recent turns oldest-first as
// alternating speaker lines for prompt assembly.
func (s *Store) ContextString(ctx context.Context, userID string, length int) string {
	return contextString(s.Load(ctx, userID), length)
}

// AnalyzePreferences aggregates topic frequencies and time-of-day buckets
// over every stored turn.
func (s *Store) AnalyzePreferences(ctx context.Context, userID string) Preferences {
	return analyzeRecord(s.Load(ctx, userID))
}

// UpdateProfile merges the update into the stored profile.
func (s *Store) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) bool {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	rec := s.Load(ctx, userID)
	if update.Preferences != nil {
		if rec.Profile.Preferences == nil {
			rec.Profile.Preferences = map[string]any{}
		}
		for k, v := range update.Preferences {
			rec.Profile.Preferences[k] = v
		}
	}
	if update.MemoryThemes != nil {
		if rec.Profile.MemoryThemes == nil {
			rec.Profile.MemoryThemes = map[string]any{}
		}
		for k, v := range update.MemoryThemes {
			rec.Profile.MemoryThemes[k] = v
		}
	}
	if update.FavoriteContent != nil {
		rec.Profile.FavoriteContent = append(rec.Profile.FavoriteContent, update.FavoriteContent...)
	}
	if update.EmotionalState != "" {
		rec.Profile.EmotionalState = update.EmotionalState
	}
	rec.LastUpdated = nowStamp()

	if err := s.backend.save(ctx, rec); err != nil {
		log.Printf("memory: profile update for %s failed: %v", userID, err)
		return false
	}
	return true
}

// FindSimilar returns stored turns scored by query-keyword overlap, best first.
func (s *Store) FindSimilar(ctx context.Context, userID string, keywords []string, limit int) []SimilarTurn {
	return similarTurns(s.Load(ctx, userID), keywords, limit)
}

// Cleanup drops conversations older than daysToKeep from every record and
// returns how many turns were removed. Per-user faults are logged and skipped
// so one bad record cannot abort retention for everyone else.
func (s *Store) Cleanup(ctx context.Context, daysToKeep int) int {
	cutoff := time.Now().AddDate(0, 0, -daysToKeep)
	removed := 0

	ids, err := s.backend.users(ctx)
	if err != nil {
		log.Printf("memory: cleanup scan failed: %v", err)
		return 0
	}

	for _, userID := range ids {
		l := s.userLock(userID)
		l.Lock()
		rec := s.Load(ctx, userID)
		n := pruneTurns(rec, cutoff)
		if n > 0 {
			rec.LastUpdated = nowStamp()
			if err := s.backend.save(ctx, rec); err != nil {
				log.Printf("memory: cleanup save for %s failed: %v", userID, err)
				l.Unlock()
				continue
			}
			removed += n
		}
		l.Unlock()
	}
	return removed
}

// Stats aggregates counts and storage footprint across all persisted records.
func (s *Store) Stats(ctx context.Context) ServiceStats {
	var stats ServiceStats

	ids, err := s.backend.users(ctx)
	if err != nil {
		log.Printf("memory: stats scan failed: %v", err)
		return stats
	}

	for _, userID := range ids {
		stats.TotalUsers++
		rec := s.Load(ctx, userID)
		stats.TotalConversations += len(rec.Conversations)
		if n, err := s.backend.size(ctx, userID); err == nil {
			stats.TotalSizeBytes += n
		}
	}
	if stats.TotalUsers > 0 {
		stats.AvgConversationsPerUser = float64(stats.TotalConversations) / float64(stats.TotalUsers)
	}
	return stats
}

// ExportUser dumps a user's record with a fresh preference analysis attached.
func (s *Store) ExportUser(ctx context.Context, userID string, includeConversations bool) Export {
	rec := s.Load(ctx, userID)
	export := Export{
		UserID:      userID,
		Profile:     rec.Profile,
		Statistics:  rec.Statistics,
		Preferences: analyzeRecord(rec),
		ExportedAt:  nowStamp(),
	}
	if includeConversations {
		export.Conversations = rec.Conversations
	}
	return export
}

// Close releases backend resources.
func (s *Store) Close() error {
	return s.backend.Close()
}
