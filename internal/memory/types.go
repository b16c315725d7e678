// Package memory manages the per-user conversation records that feed context
// back into prompting and recommendation. One record per user; records are
// loaded, mutated and rewritten wholesale by whichever backend is configured.
package memory

import (
	"github.com/dasomlab/dasom/internal/extract"
	"github.com/dasomlab/dasom/internal/taxonomy"
)

// Turn is one user utterance plus the generated reply. Turns are append-only:
// once stored they are never mutated.
type Turn struct {
	Index     int    `json:"index"`
	ID        string `json:"id"`
	User      string `json:"user"`
	Assistant string `json:"assistant"`
	// Timestamp stays a string so records with unparsable timestamps survive
	// load and cleanup unchanged instead of being coerced or dropped.
	Timestamp string             `json:"timestamp"`
	Keywords  extract.KeywordMap `json:"memory_keywords,omitempty"`
	Emotions  []taxonomy.Emotion `json:"emotions,omitempty"`
}

// Profile holds the slow-moving user attributes alongside the conversation log.
type Profile struct {
	Preferences     map[string]any `json:"preferences"`
	MemoryThemes    map[string]any `json:"memory_themes"`
	FavoriteContent []string       `json:"favorite_content"`
	EmotionalState  string         `json:"emotional_state"`
}

// Statistics are the aggregate counters stored inside a record.
type Statistics struct {
	TotalConversations int            `json:"total_conversations"`
	FavoriteTopics     map[string]int `json:"favorite_topics"`
	LastActive         string         `json:"last_active,omitempty"`
}

// UserRecord is the full persisted state for one user.
type UserRecord struct {
	UserID        string     `json:"user_id"`
	Conversations []Turn     `json:"conversations"`
	Profile       Profile    `json:"profile"`
	Statistics    Statistics `json:"statistics"`
	CreatedAt     string     `json:"created_at"`
	LastUpdated   string     `json:"last_updated"`
}

// TurnMetadata carries extraction results attached to a stored turn.
type TurnMetadata struct {
	Keywords extract.KeywordMap
	Emotions []taxonomy.Emotion
}

// Preferences is the result of analyzing a user's stored turns.
type Preferences struct {
	FavoriteTopics     map[string]int `json:"favorite_topics"`
	TimeOfDay          map[string]int `json:"time_preferences"`
	TotalConversations int            `json:"total_conversations"`
	AnalyzedAt         string         `json:"analysis_date"`
}

// SimilarTurn is a stored turn with its keyword-overlap score.
type SimilarTurn struct {
	Turn
	Score int `json:"similarity_score"`
}

// ServiceStats aggregates across every persisted record.
type ServiceStats struct {
	TotalUsers              int     `json:"total_users"`
	TotalConversations      int     `json:"total_conversations"`
	TotalSizeBytes          int64   `json:"total_size_bytes"`
	AvgConversationsPerUser float64 `json:"average_conversations_per_user"`
}

// ProfileUpdate merges set fields into a stored profile. Nil maps and empty
// values leave the stored field untouched.
type ProfileUpdate struct {
	Preferences     map[string]any `json:"preferences,omitempty"`
	MemoryThemes    map[string]any `json:"memory_themes,omitempty"`
	FavoriteContent []string       `json:"favorite_content,omitempty"`
	EmotionalState  string         `json:"emotional_state,omitempty"`
}

// Export is a full user-record dump with fresh analysis attached.
type Export struct {
	UserID        string      `json:"user_id"`
	Profile       Profile     `json:"profile"`
	Statistics    Statistics  `json:"statistics"`
	Preferences   Preferences `json:"preferences"`
	Conversations []Turn      `json:"conversations,omitempty"`
	ExportedAt    string      `json:"export_date"`
}
