package brain

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIAdapter streams replies through an OpenAI-compatible chat API.
type OpenAIAdapter struct {
	client      openai.Client
	model       string
	maxTokens   int
	temperature float64
	topP        float64
}

func NewOpenAIAdapter(cfg Config) *OpenAIAdapter {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIAdapter{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
	}
}

func (a *OpenAIAdapter) StreamResponse(
	ctx context.Context,
	req Request,
	onDelta DeltaHandler,
) (Response, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(a.userContent(req)),
		},
	}
	if a.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(a.maxTokens))
	}
	if a.temperature > 0 {
		params.Temperature = openai.Float(a.temperature)
	}
	if a.topP > 0 {
		params.TopP = openai.Float(a.topP)
	}

	stream := a.client.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	var full strings.Builder
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if onDelta != nil {
			if err := onDelta(delta); err != nil {
				return Response{}, err
			}
		}
	}
	if err := stream.Err(); err != nil {
		return Response{}, fmt.Errorf("chat completion stream: %w", err)
	}

	return Response{Text: full.String()}, nil
}

// userContent folds the recent-history block in front of the utterance so the
// model sees the running conversation even over a stateless chat API.
func (a *OpenAIAdapter) userContent(req Request) string {
	if req.ContextText == "" {
		return req.InputText
	}
	return req.ContextText + "\n\n사용자: " + req.InputText
}
