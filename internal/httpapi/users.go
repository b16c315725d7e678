package httpapi

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dasomlab/dasom/internal/extract"
	"github.com/dasomlab/dasom/internal/memory"
	"github.com/dasomlab/dasom/internal/taxonomy"
)

func userIDParam(r *http.Request) string {
	return memory.UserIDFor(chi.URLParam(r, "id"))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", 10)
	turns := s.store.Recent(r.Context(), userIDParam(r), limit)
	respondJSON(w, http.StatusOK, map[string]any{
		"conversations": turns,
		"count":         len(turns),
	})
}

func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.AnalyzePreferences(r.Context(), userIDParam(r)))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update memory.ProfileUpdate
	if err := decodeJSON(r, &update); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if !s.store.UpdateProfile(r.Context(), userIDParam(r), update) {
		respondError(w, http.StatusInternalServerError, "profile_update_failed", "could not persist profile")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"updated": true})
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondError(w, http.StatusBadRequest, "empty_query", "검색어를 입력해 주세요.")
		return
	}
	keywords := extract.Keywords(query).Flatten()
	if len(keywords) == 0 {
		keywords = strings.Fields(query)
	}
	limit := intQuery(r, "limit", 5)
	turns := s.store.FindSimilar(r.Context(), userIDParam(r), keywords, limit)
	respondJSON(w, http.StatusOK, map[string]any{
		"conversations": turns,
		"keywords":      keywords,
		"count":         len(turns),
	})
}

// handleGreeting opens a session with a line tailored to the user's last
// conversation.
func (s *Server) handleGreeting(w http.ResponseWriter, r *http.Request) {
	var topics []taxonomy.Category
	var emotions []taxonomy.Emotion
	if turns := s.store.Recent(r.Context(), userIDParam(r), 1); len(turns) > 0 {
		topics = turns[0].Keywords.Categories()
		emotions = turns[0].Emotions
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"greeting": extract.PersonalizedGreeting(topics, emotions),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	includeConversations := r.URL.Query().Get("include_conversations") != "false"
	export := s.store.ExportUser(r.Context(), userIDParam(r), includeConversations)
	respondJSON(w, http.StatusOK, export)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.Stats(r.Context()))
}

type cleanupRequest struct {
	DaysToKeep int `json:"days_to_keep"`
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	req := cleanupRequest{DaysToKeep: s.cfg.RetentionDays}
	if err := decodeJSON(r, &req); err != nil && err != errEmptyBody {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.DaysToKeep < 1 {
		respondError(w, http.StatusBadRequest, "invalid_retention", "days_to_keep must be at least 1")
		return
	}
	removed := s.store.Cleanup(r.Context(), req.DaysToKeep)
	respondJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

var unsafeQueryChars = regexp.MustCompile(`[^\w\s가-힣]`)

// handleYouTubeSearch turns an extracted search phrase into a results URL.
func (s *Server) handleYouTubeSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondError(w, http.StatusBadRequest, "empty_query", "검색어를 입력해 주세요.")
		return
	}
	safe := strings.TrimSpace(unsafeQueryChars.ReplaceAllString(query, ""))
	if safe == "" {
		respondError(w, http.StatusBadRequest, "invalid_query", "유효한 검색어가 아닙니다.")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"search_url": "https://www.youtube.com/results?search_query=" + strings.ReplaceAll(safe, " ", "+"),
		"query":      safe,
		"timestamp":  time.Now().Format(time.RFC3339Nano),
	})
}
