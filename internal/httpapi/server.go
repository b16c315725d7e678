// Package httpapi exposes the chat stream, memory and recommendation
// operations over HTTP and websocket.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/dasomlab/dasom/internal/chat"
	"github.com/dasomlab/dasom/internal/config"
	"github.com/dasomlab/dasom/internal/memory"
	"github.com/dasomlab/dasom/internal/observability"
	"github.com/dasomlab/dasom/internal/recommend"
)

type Server struct {
	cfg      config.Config
	chat     *chat.Service
	store    *memory.Store
	library  *recommend.Library
	metrics  *observability.Metrics
	upgrader websocket.Upgrader
}

func New(cfg config.Config, chatSvc *chat.Service, store *memory.Store, library *recommend.Library, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:     cfg,
		chat:    chatSvc,
		store:   store,
		library: library,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only allow browser websocket connections from the same
				// origin unless explicitly opened up.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/v1/chat", s.handleChat)
	r.Get("/v1/chat/ws", s.handleChatWS)

	r.Post("/v1/recommendations", s.handleRecommend)
	r.Get("/v1/recommendations/popular", s.handlePopular)
	r.Get("/v1/recommendations/random", s.handleRandom)
	r.Post("/v1/recommendations/feedback", s.handleFeedback)

	r.Get("/v1/users/{id}/history", s.handleHistory)
	r.Get("/v1/users/{id}/preferences", s.handlePreferences)
	r.Post("/v1/users/{id}/profile", s.handleUpdateProfile)
	r.Get("/v1/users/{id}/similar", s.handleSimilar)
	r.Get("/v1/users/{id}/greeting", s.handleGreeting)
	r.Get("/v1/users/{id}/export", s.handleExport)

	r.Get("/v1/stats", s.handleStats)
	r.Post("/v1/admin/cleanup", s.handleCleanup)
	r.Get("/v1/youtube/search", s.handleYouTubeSearch)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.store.Stats(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{
		"status":              "healthy",
		"total_users":         stats.TotalUsers,
		"total_conversations": stats.TotalConversations,
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
