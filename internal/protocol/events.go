// Package protocol defines the wire events shared by the NDJSON chat stream
// and the websocket transport. Every streamed line is one JSON-encoded event.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dasomlab/dasom/internal/extract"
)

// EventType identifies stream event variants.
type EventType string

const (
	TypeSentence EventType = "sentence"
	TypeComplete EventType = "complete"
	TypeError    EventType = "error"

	TypeClientChat    EventType = "client_chat"
	TypeClientControl EventType = "client_control"
)

var ErrUnsupportedType = errors.New("unsupported message type")

// Envelope carries just enough to dispatch an incoming message.
type Envelope struct {
	Type EventType `json:"type"`
}

// Sentence is one completed reply sentence with its extracted annotations.
type Sentence struct {
	Type           EventType          `json:"type"`
	Content        string             `json:"content"`
	YouTubeSearch  string             `json:"youtube_search,omitempty"`
	MemoryKeywords extract.KeywordMap `json:"memory_keywords"`
	Timestamp      string             `json:"timestamp"`
}

// Complete terminates a successful stream with the assembled reply.
type Complete struct {
	Type              EventType `json:"type"`
	FullResponse      string    `json:"full_response"`
	ConversationCount int       `json:"conversation_count"`
}

// Error terminates a failed stream. Message is user-facing Korean text.
type Error struct {
	Type    EventType `json:"type"`
	Message string    `json:"message"`
}

// ClientChat is an inbound websocket chat turn.
type ClientChat struct {
	Type    EventType `json:"type"`
	UserID  string    `json:"user_id"`
	Message string    `json:"message"`
}

// ClientControl is an inbound websocket control action, e.g. "cancel".
type ClientControl struct {
	Type   EventType `json:"type"`
	UserID string    `json:"user_id"`
	Action string    `json:"action"`
}

// NewSentence builds a sentence event stamped with ts.
func NewSentence(content, youtubeSearch string, keywords extract.KeywordMap, ts string) Sentence {
	return Sentence{
		Type:           TypeSentence,
		Content:        content,
		YouTubeSearch:  youtubeSearch,
		MemoryKeywords: keywords,
		Timestamp:      ts,
	}
}

// NewComplete builds the terminal success event.
func NewComplete(fullResponse string, conversationCount int) Complete {
	return Complete{
		Type:              TypeComplete,
		FullResponse:      fullResponse,
		ConversationCount: conversationCount,
	}
}

// NewError builds the terminal failure event.
func NewError(message string) Error {
	return Error{Type: TypeError, Message: message}
}

// ParseClientMessage decodes and validates an inbound websocket payload.
func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeClientChat:
		var msg ClientChat
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.Message == "" {
			return nil, errors.New("invalid client_chat")
		}
		return msg, nil
	case TypeClientControl:
		var msg ClientControl
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.Action == "" {
			return nil, errors.New("invalid client_control")
		}
		return msg, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, env.Type)
	}
}
