package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dasomlab/dasom/internal/brain"
	"github.com/dasomlab/dasom/internal/memory"
	"github.com/dasomlab/dasom/internal/protocol"
)

// scriptedAdapter replays fixed chunks and optionally fails afterwards.
type scriptedAdapter struct {
	chunks []string
	err    error
}

func (a *scriptedAdapter) StreamResponse(
	ctx context.Context,
	req brain.Request,
	onDelta brain.DeltaHandler,
) (brain.Response, error) {
	var full strings.Builder
	for _, c := range a.chunks {
		if err := onDelta(c); err != nil {
			return brain.Response{}, err
		}
		full.WriteString(c)
	}
	if a.err != nil {
		return brain.Response{}, a.err
	}
	return brain.Response{Text: full.String()}, nil
}

func newTestService(t *testing.T, adapter brain.Adapter, opts Options) (*Service, *memory.Store) {
	t.Helper()
	store, err := memory.NewStore(context.Background(), "", t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if opts.StreamDelay == 0 {
		opts.StreamDelay = time.Millisecond
	}
	return NewService(adapter, store, nil, opts), store
}

func collectEvents(t *testing.T) (Emitter, *[]any) {
	t.Helper()
	var events []any
	return func(event any) error {
		events = append(events, event)
		return nil
	}, &events
}

func TestStreamTurnEmitsSentencesThenComplete(t *testing.T) {
	adapter := &scriptedAdapter{chunks: []string{"안녕하세요", ". ", "반갑", "습니다."}}
	svc, _ := newTestService(t, adapter, Options{})
	emit, events := collectEvents(t)

	if err := svc.StreamTurn(context.Background(), "u1", "안녕하세요", emit); err != nil {
		t.Fatalf("StreamTurn() error = %v", err)
	}

	if len(*events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(*events))
	}
	first, ok := (*events)[0].(protocol.Sentence)
	if !ok {
		t.Fatalf("events[0] type = %T, want Sentence", (*events)[0])
	}
	if first.Content != "안녕하세요." {
		t.Fatalf("first sentence = %q, want 안녕하세요.", first.Content)
	}
	second := (*events)[1].(protocol.Sentence)
	if second.Content != "반갑습니다." {
		t.Fatalf("second sentence = %q, want 반갑습니다.", second.Content)
	}
	complete, ok := (*events)[2].(protocol.Complete)
	if !ok {
		t.Fatalf("events[2] type = %T, want Complete", (*events)[2])
	}
	if complete.FullResponse != "안녕하세요. 반갑습니다." {
		t.Fatalf("full response = %q", complete.FullResponse)
	}
	if complete.ConversationCount != 1 {
		t.Fatalf("conversation count = %d, want 1", complete.ConversationCount)
	}
}

func TestStreamTurnPersistsTurn(t *testing.T) {
	adapter := &scriptedAdapter{chunks: []string{"고향 이야기를 들려주세요."}}
	svc, store := newTestService(t, adapter, Options{})
	emit, _ := collectEvents(t)

	if err := svc.StreamTurn(context.Background(), "u1", "고향 생각이 나요", emit); err != nil {
		t.Fatalf("StreamTurn() error = %v", err)
	}

	turns := store.Recent(context.Background(), "u1", 10)
	if len(turns) != 1 {
		t.Fatalf("len(turns) = %d, want 1", len(turns))
	}
	if turns[0].User != "고향 생각이 나요" {
		t.Fatalf("stored user text = %q", turns[0].User)
	}
	if turns[0].Assistant != "고향 이야기를 들려주세요." {
		t.Fatalf("stored assistant text = %q", turns[0].Assistant)
	}
	if len(turns[0].Keywords) == 0 {
		t.Fatal("stored turn has no extracted keywords")
	}
}

func TestStreamTurnFlushesTrailingPartial(t *testing.T) {
	adapter := &scriptedAdapter{chunks: []string{"오늘 날씨가 좋네요. ", "같이 산책"}}
	svc, _ := newTestService(t, adapter, Options{})
	emit, events := collectEvents(t)

	if err := svc.StreamTurn(context.Background(), "u1", "산책 갈까요", emit); err != nil {
		t.Fatalf("StreamTurn() error = %v", err)
	}

	if len(*events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(*events))
	}
	trailing := (*events)[1].(protocol.Sentence)
	if trailing.Content != "같이 산책" {
		t.Fatalf("trailing sentence = %q, want 같이 산책", trailing.Content)
	}
}

func TestStreamTurnStopsAtSentenceCap(t *testing.T) {
	adapter := &scriptedAdapter{chunks: []string{"하나. ", "둘. ", "셋."}}
	svc, _ := newTestService(t, adapter, Options{MaxSentences: 1})
	emit, events := collectEvents(t)

	if err := svc.StreamTurn(context.Background(), "u1", "숫자", emit); err != nil {
		t.Fatalf("StreamTurn() error = %v", err)
	}

	// One in-cap sentence, the capped sentence flushed as the trailing
	// partial, then the terminal event. The third chunk is never consumed.
	if len(*events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(*events))
	}
	complete := (*events)[2].(protocol.Complete)
	if complete.FullResponse != "하나. 둘." {
		t.Fatalf("full response = %q, want 하나. 둘.", complete.FullResponse)
	}
}

func TestStreamTurnAnnotatesSearchPhrase(t *testing.T) {
	adapter := &scriptedAdapter{chunks: []string{"이 노래 기억나세요. ", "유튜브에서 '정미조 개여울'을 검색해보세요."}}
	svc, _ := newTestService(t, adapter, Options{})
	emit, events := collectEvents(t)

	if err := svc.StreamTurn(context.Background(), "u1", "개여울 틀어줘", emit); err != nil {
		t.Fatalf("StreamTurn() error = %v", err)
	}

	second := (*events)[1].(protocol.Sentence)
	if second.YouTubeSearch != "정미조 개여울" {
		t.Fatalf("youtube search = %q, want 정미조 개여울", second.YouTubeSearch)
	}
}

func TestStreamTurnEmitsSingleErrorEvent(t *testing.T) {
	adapter := &scriptedAdapter{chunks: []string{"미안"}, err: errors.New("upstream gone")}
	svc, store := newTestService(t, adapter, Options{})
	emit, events := collectEvents(t)

	if err := svc.StreamTurn(context.Background(), "u1", "안녕하세요", emit); err == nil {
		t.Fatal("StreamTurn() error = nil, want error")
	}

	if len(*events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(*events))
	}
	ev, ok := (*events)[0].(protocol.Error)
	if !ok {
		t.Fatalf("events[0] type = %T, want Error", (*events)[0])
	}
	if !strings.Contains(ev.Message, "죄송합니다") {
		t.Fatalf("error message = %q, want apologetic text", ev.Message)
	}
	if turns := store.Recent(context.Background(), "u1", 10); len(turns) != 0 {
		t.Fatalf("len(turns) = %d, want 0 after failed stream", len(turns))
	}
}

func TestStreamTurnCancellationDiscardsPartial(t *testing.T) {
	adapter := &scriptedAdapter{chunks: []string{"첫 문장입니다. ", "버려질 조각"}}
	svc, store := newTestService(t, adapter, Options{StreamDelay: 50 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	var events []any
	emit := func(event any) error {
		events = append(events, event)
		cancel() // stop during the pacing delay after the first sentence
		return nil
	}

	err := svc.StreamTurn(ctx, "u1", "안녕하세요", emit)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("StreamTurn() error = %v, want context.Canceled", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if turns := store.Recent(context.Background(), "u1", 10); len(turns) != 0 {
		t.Fatalf("len(turns) = %d, want 0 after cancellation", len(turns))
	}
}

func TestSegmenterBoundaries(t *testing.T) {
	seg := newSegmenter(5)

	if _, ok := seg.feed("안녕"); ok {
		t.Fatal("mid-sentence chunk completed a sentence")
	}
	sentence, ok := seg.feed("하세요! ")
	if !ok {
		t.Fatal("punctuated chunk did not complete a sentence")
	}
	if sentence != "안녕하세요!" {
		t.Fatalf("sentence = %q, want 안녕하세요!", sentence)
	}
	if got := seg.flush(); got != "" {
		t.Fatalf("flush() = %q, want empty after boundary", got)
	}
	if seg.text() != "안녕하세요!" {
		t.Fatalf("text() = %q", seg.text())
	}
}

func TestSegmenterWhitespaceOnlyChunks(t *testing.T) {
	seg := newSegmenter(5)
	if _, ok := seg.feed("   "); ok {
		t.Fatal("whitespace chunk completed a sentence")
	}
	if got := seg.flush(); got != "" {
		t.Fatalf("flush() = %q, want empty", got)
	}
}
