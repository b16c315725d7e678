package brain

import (
	"context"
	"fmt"
	"strings"

	"github.com/dasomlab/dasom/internal/extract"
	"github.com/dasomlab/dasom/internal/taxonomy"
)

// MockAdapter produces deterministic local replies when no model API is
// configured. Replies follow the same shape as real ones so the sentence
// pipeline downstream behaves identically: empathy, a follow-up question and,
// when the utterance suggests one, a search cue.
type MockAdapter struct{}

func NewMockAdapter() *MockAdapter { return &MockAdapter{} }

func (a *MockAdapter) StreamResponse(
	ctx context.Context,
	req Request,
	onDelta DeltaHandler,
) (Response, error) {
	var full strings.Builder
	for _, sentence := range buildMockReply(req) {
		select {
		case <-ctx.Done():
			return Response{}, ctx.Err()
		default:
		}
		if full.Len() > 0 {
			sentence = " " + sentence
		}
		full.WriteString(sentence)
		if onDelta != nil {
			if err := onDelta(sentence); err != nil {
				return Response{}, err
			}
		}
	}
	return Response{Text: full.String()}, nil
}

func buildMockReply(req Request) []string {
	input := strings.TrimSpace(req.InputText)
	if input == "" {
		return []string{"네, 듣고 있어요. 편하게 말씀해 주세요."}
	}

	keywords := extract.Keywords(input)
	emotions := extract.Emotions(input)

	sentences := []string{openingFor(emotions)}

	if questions := extract.FollowUpQuestions(keywords, emotions); len(questions) > 0 {
		sentences = append(sentences, questions[0])
	} else {
		sentences = append(sentences, "그때 이야기를 조금 더 들려주시겠어요?")
	}

	if suggestions := extract.SearchSuggestions(input); len(suggestions) > 0 {
		sentences = append(sentences,
			fmt.Sprintf("유튜브에서 '%s'를 검색해보시면 좋을 것 같아요.", suggestions[0]))
	}

	return sentences
}

func openingFor(emotions []taxonomy.Emotion) string {
	for _, e := range emotions {
		switch e {
		case taxonomy.EmotionNostalgic:
			return "정말 그리운 기억이네요."
		case taxonomy.EmotionHard:
			return "많이 힘드셨겠어요. 그래도 잘 이겨내셨네요."
		case taxonomy.EmotionPositive:
			return "그때 정말 행복하셨겠어요."
		case taxonomy.EmotionCalm:
			return "듣기만 해도 마음이 편안해지는 이야기네요."
		}
	}
	return "소중한 이야기를 들려주셔서 고마워요."
}
