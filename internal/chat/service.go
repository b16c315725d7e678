// Package chat runs one conversational turn end to end: prompt assembly,
// streamed reply segmentation, extraction, persistence and event emission.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/dasomlab/dasom/internal/brain"
	"github.com/dasomlab/dasom/internal/extract"
	"github.com/dasomlab/dasom/internal/memory"
	"github.com/dasomlab/dasom/internal/observability"
	"github.com/dasomlab/dasom/internal/protocol"
)

// errTruncated stops draining the model stream once the sentence cap is spent.
// It is an internal control signal, not a turn failure.
var errTruncated = errors.New("sentence cap reached")

// Emitter delivers one stream event to the transport. Returning an error
// aborts the turn.
type Emitter func(event any) error

// Options tune the streaming pipeline.
type Options struct {
	SystemPrompt string
	MaxHistory   int
	MaxSentences int
	StreamDelay  time.Duration
}

func (o Options) withDefaults() Options {
	if o.SystemPrompt == "" {
		o.SystemPrompt = DefaultSystemPrompt
	}
	if o.MaxHistory <= 0 {
		o.MaxHistory = 4
	}
	if o.MaxSentences <= 0 {
		o.MaxSentences = 3
	}
	if o.StreamDelay <= 0 {
		o.StreamDelay = 100 * time.Millisecond
	}
	return o
}

// Service is the turn pipeline. One StreamTurn call is strictly sequential;
// concurrency exists only across independent calls.
type Service struct {
	adapter brain.Adapter
	store   *memory.Store
	metrics *observability.Metrics
	opts    Options
}

func NewService(adapter brain.Adapter, store *memory.Store, metrics *observability.Metrics, opts Options) *Service {
	return &Service{
		adapter: adapter,
		store:   store,
		metrics: metrics,
		opts:    opts.withDefaults(),
	}
}

// StreamTurn runs one user utterance through the model and emits sentence
// events as the reply arrives, a terminal complete event on success, or a
// single terminal error event on an upstream fault. Cancellation discards any
// unflushed partial sentence and persists nothing.
func (s *Service) StreamTurn(ctx context.Context, userID, message string, emit Emitter) error {
	start := time.Now()
	if s.metrics != nil {
		s.metrics.ActiveStreams.Inc()
		defer s.metrics.ActiveStreams.Dec()
		defer func() { s.metrics.ObserveTurnDuration(time.Since(start)) }()
	}

	seg := newSegmenter(s.opts.MaxSentences)
	req := brain.Request{
		UserID:       userID,
		TurnID:       uuid.NewString(),
		SystemPrompt: s.opts.SystemPrompt,
		ContextText:  s.store.ContextString(ctx, userID, s.opts.MaxHistory),
		InputText:    message,
	}

	_, err := s.adapter.StreamResponse(ctx, req, func(delta string) error {
		sentence, ok := seg.feed(delta)
		if !ok {
			if seg.truncated {
				return errTruncated
			}
			return nil
		}
		if err := s.emitSentence(emit, sentence); err != nil {
			return err
		}
		// Natural pacing between sentences; cancellation cuts it short.
		select {
		case <-time.After(s.opts.StreamDelay):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	if err != nil && !errors.Is(err, errTruncated) {
		if ctx.Err() != nil {
			s.countTurn("cancelled")
			return ctx.Err()
		}
		log.Printf("chat: model stream failed for user %s: %v", userID, err)
		s.countTurn("error")
		s.emitEvent(emit, protocol.NewError(streamErrorMessage(err)), "error")
		return err
	}

	if rest := seg.flush(); rest != "" {
		if err := s.emitSentence(emit, rest); err != nil {
			return err
		}
	}

	full := seg.text()
	meta := memory.TurnMetadata{
		Keywords: extract.Keywords(message + " " + full),
		Emotions: extract.Emotions(message + " " + full),
	}
	count, ok := s.store.AppendTurn(ctx, userID, message, full, meta)
	if !ok && s.metrics != nil {
		s.metrics.PersistenceFailures.Inc()
	}

	s.countTurn("complete")
	return s.emitEvent(emit, protocol.NewComplete(full, count), "complete")
}

func (s *Service) emitSentence(emit Emitter, sentence string) error {
	phrase, _ := extract.SearchPhrase(sentence)
	ev := protocol.NewSentence(sentence, phrase, extract.Keywords(sentence), time.Now().Format(time.RFC3339Nano))
	return s.emitEvent(emit, ev, "sentence")
}

func (s *Service) emitEvent(emit Emitter, event any, kind string) error {
	if s.metrics != nil {
		s.metrics.StreamEvents.WithLabelValues(kind).Inc()
	}
	return emit(event)
}

func (s *Service) countTurn(outcome string) {
	if s.metrics != nil {
		s.metrics.Turns.WithLabelValues(outcome).Inc()
	}
}

func streamErrorMessage(err error) string {
	return fmt.Sprintf("죄송합니다. 잠시 문제가 생겼네요. 다시 말씀해 주시겠어요? (오류: %v)", err)
}
