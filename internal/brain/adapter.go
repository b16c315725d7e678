// Package brain bridges the conversation pipeline to the generative model
// that produces replies. Adapters stream text deltas as the model emits them.
package brain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Request is the normalized prompt for one conversational turn.
type Request struct {
	UserID       string `json:"user_id"`
	TurnID       string `json:"turn_id"`
	SystemPrompt string `json:"system_prompt"`
	// ContextText is the rendered recent-history block, already formatted as
	// alternating 사용자/아바타 lines. Empty for a first turn.
	ContextText string `json:"context_text,omitempty"`
	InputText   string `json:"input_text"`
}

// Response is the final assembled reply after streaming deltas.
type Response struct {
	Text string `json:"text"`
}

// DeltaHandler receives streaming text fragments. Returning an error stops
// the stream.
type DeltaHandler func(delta string) error

// Adapter produces a streamed reply for one request.
type Adapter interface {
	StreamResponse(ctx context.Context, req Request, onDelta DeltaHandler) (Response, error)
}

// Config controls adapter construction.
type Config struct {
	Mode        string
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// NewAdapter builds the adapter selected by cfg.Mode. Mode auto picks the
// API-backed adapter when a key is configured and falls back to the mock.
func NewAdapter(cfg Config) (Adapter, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.APIKey) != "" {
			return NewOpenAIAdapter(cfg), nil
		}
		return NewMockAdapter(), nil
	case "openai":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, errors.New("api key is required for openai mode")
		}
		return NewOpenAIAdapter(cfg), nil
	case "mock":
		return NewMockAdapter(), nil
	default:
		return nil, fmt.Errorf("unsupported brain adapter mode %q", cfg.Mode)
	}
}

// Prompt renders the full model input: system prompt, recent history, then
// the current utterance ready for the assistant to continue.
func (r Request) Prompt() string {
	var b strings.Builder
	b.WriteString(r.SystemPrompt)
	b.WriteString("\n\n")
	if r.ContextText != "" {
		b.WriteString(r.ContextText)
		b.WriteString("\n\n")
	}
	b.WriteString("사용자: ")
	b.WriteString(r.InputText)
	b.WriteString("\n아바타: ")
	return b.String()
}
