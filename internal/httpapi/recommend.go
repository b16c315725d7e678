package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dasomlab/dasom/internal/memory"
	"github.com/dasomlab/dasom/internal/recommend"
)

type recommendRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
	Catalog string `json:"catalog"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "empty_message", "메시지를 입력해 주세요.")
		return
	}
	catalog := recommend.Catalog(req.Catalog)
	if req.Catalog == "" {
		catalog = recommend.CatalogAll
	}
	if !catalog.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_catalog", "unknown catalog "+req.Catalog)
		return
	}

	// Past topic frequencies nudge familiar content upward.
	var favorites map[string]int
	if strings.TrimSpace(req.UserID) != "" {
		prefs := s.store.AnalyzePreferences(r.Context(), memory.UserIDFor(req.UserID))
		favorites = prefs.FavoriteTopics
	}

	if s.metrics != nil {
		s.metrics.RecommendRequests.WithLabelValues(string(catalog)).Inc()
	}
	results := s.library.Recommend(req.Message, favorites, catalog)
	respondJSON(w, http.StatusOK, map[string]any{
		"recommendations": results,
		"count":           len(results),
	})
}

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	catalog, ok := concreteCatalog(w, r.URL.Query().Get("catalog"), recommend.CatalogMusic)
	if !ok {
		return
	}
	count := intQuery(r, "count", 5)
	respondJSON(w, http.StatusOK, map[string]any{
		"catalog": catalog,
		"items":   s.library.TopByPopularity(catalog, count),
	})
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	catalog, ok := concreteCatalog(w, r.URL.Query().Get("catalog"), recommend.CatalogMusic)
	if !ok {
		return
	}
	count := intQuery(r, "count", 1)
	respondJSON(w, http.StatusOK, map[string]any{
		"catalog": catalog,
		"items":   s.library.RandomSample(catalog, count),
	})
}

type feedbackRequest struct {
	Catalog  string `json:"catalog"`
	ItemID   string `json:"item_id"`
	Feedback int    `json:"feedback"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Feedback != 1 && req.Feedback != -1 {
		respondError(w, http.StatusBadRequest, "invalid_feedback", "feedback must be 1 or -1")
		return
	}
	catalog, ok := concreteCatalog(w, req.Catalog, "")
	if !ok {
		return
	}
	if !s.library.AdjustPopularity(catalog, req.ItemID, req.Feedback) {
		respondError(w, http.StatusNotFound, "item_not_found", "unknown item "+req.ItemID)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"updated": true})
}

// concreteCatalog parses a catalog name that must identify a single catalog;
// "all" is not acceptable here.
func concreteCatalog(w http.ResponseWriter, raw string, fallback recommend.Catalog) (recommend.Catalog, bool) {
	catalog := recommend.Catalog(raw)
	if raw == "" && fallback != "" {
		catalog = fallback
	}
	if !catalog.Valid() || catalog == recommend.CatalogAll {
		respondError(w, http.StatusBadRequest, "invalid_catalog", "unknown catalog "+raw)
		return "", false
	}
	return catalog, true
}

func intQuery(r *http.Request, key string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
