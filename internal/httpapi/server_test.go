package httpapi

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dasomlab/dasom/internal/brain"
	"github.com/dasomlab/dasom/internal/chat"
	"github.com/dasomlab/dasom/internal/config"
	"github.com/dasomlab/dasom/internal/memory"
	"github.com/dasomlab/dasom/internal/recommend"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Config{
		MaxHistory:     4,
		MaxSentences:   3,
		StreamDelay:    time.Millisecond,
		MaxInputLength: 500,
		RetentionDays:  30,
		AllowAnyOrigin: true,
	}
	store, err := memory.NewStore(context.Background(), "", t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	chatSvc := chat.NewService(brain.NewMockAdapter(), store, nil, chat.Options{
		MaxHistory:   cfg.MaxHistory,
		MaxSentences: cfg.MaxSentences,
		StreamDelay:  cfg.StreamDelay,
	})
	srv := New(cfg, chatSvc, store, recommend.NewLibrary(), nil)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	res, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s error = %v", url, err)
	}
	return res
}

func TestChatStreamsNDJSON(t *testing.T) {
	ts := newTestServer(t)

	res := postJSON(t, ts.URL+"/v1/chat", map[string]string{
		"user_id": "u1",
		"message": "그리운 시골에서 노래를 들었어요",
	})
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	if ct := res.Header.Get("Content-Type"); !strings.Contains(ct, "ndjson") {
		t.Fatalf("content type = %q, want ndjson", ct)
	}

	var types []string
	scanner := bufio.NewScanner(res.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var ev map[string]any
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("line %q is not JSON: %v", line, err)
		}
		typ, _ := ev["type"].(string)
		types = append(types, typ)
	}
	if len(types) < 2 {
		t.Fatalf("event types = %v, want at least one sentence and a terminal event", types)
	}
	for _, typ := range types[:len(types)-1] {
		if typ != "sentence" {
			t.Fatalf("event types = %v, want sentence events before the terminal", types)
		}
	}
	if types[len(types)-1] != "complete" {
		t.Fatalf("last event type = %q, want complete", types[len(types)-1])
	}
}

func TestChatRejectsInvalidInput(t *testing.T) {
	ts := newTestServer(t)

	cases := []struct {
		name     string
		message  string
		wantCode string
	}{
		{name: "empty", message: "", wantCode: "empty_message"},
		{name: "too long", message: strings.Repeat("가", 501), wantCode: "message_too_long"},
		{name: "inappropriate", message: "정치 이야기를 해요", wantCode: "inappropriate_content"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := postJSON(t, ts.URL+"/v1/chat", map[string]string{"message": tc.message})
			defer res.Body.Close()
			if res.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadRequest)
			}
			var payload map[string]any
			if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if payload["code"] != tc.wantCode {
				t.Fatalf("code = %v, want %q", payload["code"], tc.wantCode)
			}
		})
	}
}

func TestChatWebsocketTurn(t *testing.T) {
	ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s error = %v", wsURL, err)
	}
	defer conn.Close()

	err = conn.WriteJSON(map[string]string{
		"type":    "client_chat",
		"user_id": "u1",
		"message": "고향 생각이 나요",
	})
	if err != nil {
		t.Fatalf("write error = %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		_ = conn.SetReadDeadline(deadline)
		var ev map[string]any
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("read error = %v", err)
		}
		switch ev["type"] {
		case "sentence":
			continue
		case "complete":
			if ev["full_response"] == "" {
				t.Fatalf("complete event missing full_response: %+v", ev)
			}
			return
		default:
			t.Fatalf("unexpected event: %+v", ev)
		}
	}
}

func TestRecommendEndpoint(t *testing.T) {
	ts := newTestServer(t)

	res := postJSON(t, ts.URL+"/v1/recommendations", map[string]string{
		"user_id": "u1",
		"message": "고향에서 놀던 기억이 나요",
	})
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	var payload struct {
		Recommendations []recommend.Result `json:"recommendations"`
		Count           int                `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Count == 0 || len(payload.Recommendations) != payload.Count {
		t.Fatalf("count = %d with %d results", payload.Count, len(payload.Recommendations))
	}
	if payload.Recommendations[0].ID != "고향의봄" {
		t.Fatalf("top recommendation = %q, want 고향의봄", payload.Recommendations[0].ID)
	}
}

func TestRecommendRejectsUnknownCatalog(t *testing.T) {
	ts := newTestServer(t)

	res := postJSON(t, ts.URL+"/v1/recommendations", map[string]string{
		"message": "노래",
		"catalog": "podcasts",
	})
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadRequest)
	}
}

func TestPopularEndpoint(t *testing.T) {
	ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/v1/recommendations/popular?catalog=music&count=2")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer res.Body.Close()

	var payload struct {
		Items []recommend.Item `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(payload.Items))
	}
	if payload.Items[0].ID != "고향의봄" {
		t.Fatalf("items[0] = %q, want 고향의봄", payload.Items[0].ID)
	}
}

func TestFeedbackEndpoint(t *testing.T) {
	ts := newTestServer(t)

	res := postJSON(t, ts.URL+"/v1/recommendations/feedback", map[string]any{
		"catalog": "music", "item_id": "고향의봄", "feedback": 1,
	})
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	res = postJSON(t, ts.URL+"/v1/recommendations/feedback", map[string]any{
		"catalog": "music", "item_id": "고향의봄", "feedback": 2,
	})
	res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d for out-of-range feedback", res.StatusCode, http.StatusBadRequest)
	}

	res = postJSON(t, ts.URL+"/v1/recommendations/feedback", map[string]any{
		"catalog": "music", "item_id": "없는곡", "feedback": -1,
	})
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d for unknown item", res.StatusCode, http.StatusNotFound)
	}
}

func TestHistoryReflectsChatTurns(t *testing.T) {
	ts := newTestServer(t)

	res := postJSON(t, ts.URL+"/v1/chat", map[string]string{
		"user_id": "u1",
		"message": "어릴때 고향에서 놀았어요",
	})
	// Read the stream to completion; closing early cancels the turn before
	// it persists.
	if _, err := io.Copy(io.Discard, res.Body); err != nil {
		t.Fatalf("drain chat stream: %v", err)
	}
	res.Body.Close()

	histRes, err := http.Get(ts.URL + "/v1/users/u1/history")
	if err != nil {
		t.Fatalf("GET history error = %v", err)
	}
	defer histRes.Body.Close()

	var payload struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(histRes.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Count != 1 {
		t.Fatalf("history count = %d, want 1", payload.Count)
	}
}

func TestGreetingWithoutHistory(t *testing.T) {
	ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/v1/users/new-user/greeting")
	if err != nil {
		t.Fatalf("GET greeting error = %v", err)
	}
	defer res.Body.Close()

	var payload map[string]string
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(payload["greeting"], "안녕하세요") {
		t.Fatalf("greeting = %q, want Korean salutation", payload["greeting"])
	}
}

func TestYouTubeSearchSanitizesQuery(t *testing.T) {
	ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/v1/youtube/search?q=" + "%EA%B3%A0%ED%96%A5%EC%9D%98+%EB%B4%84%21")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	var payload map[string]string
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["query"] != "고향의 봄" {
		t.Fatalf("query = %q, want 고향의 봄", payload["query"])
	}
	if !strings.HasSuffix(payload["search_url"], "search_query=고향의+봄") {
		t.Fatalf("search_url = %q", payload["search_url"])
	}
}

func TestCleanupDefaultsToConfiguredRetention(t *testing.T) {
	ts := newTestServer(t)

	res, err := http.Post(ts.URL+"/v1/admin/cleanup", "application/json", nil)
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	var payload map[string]int
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["removed"] != 0 {
		t.Fatalf("removed = %d, want 0", payload["removed"])
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	var payload map[string]any
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["status"] != "healthy" {
		t.Fatalf("status field = %v, want healthy", payload["status"])
	}
}
