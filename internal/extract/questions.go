package extract

import "github.com/dasomlab/dasom/internal/taxonomy"

const maxFollowUps = 3

// FollowUpQuestions proposes up to three conversation prompts derived from
// what the user just talked about.
func FollowUpQuestions(keywords KeywordMap, emotions []taxonomy.Emotion) []string {
	var questions []string

	if eras, ok := keywords[taxonomy.CategoryEra]; ok {
		for _, group := range taxonomy.Memory {
			if group.Name != taxonomy.CategoryEra {
				continue
			}
			for _, sub := range group.Subgroups {
				if _, hit := eras[sub.Name]; !hit {
					continue
				}
				switch sub.Name {
				case "어린시절":
					questions = append(questions,
						"그때 집 앞은 어떤 모습이었나요?",
						"어릴 때 가장 좋아했던 놀이가 있으셨나요?")
				case "청년기":
					questions = append(questions,
						"첫 직장은 어떠셨나요?",
						"그때 좋아하던 노래가 있으셨나요?")
				}
			}
		}
	}

	if places, ok := keywords[taxonomy.CategoryPlace]; ok {
		if _, hit := places["고향"]; hit {
			questions = append(questions, "고향에서 가장 기억에 남는 곳은 어디인가요?")
		}
		if _, hit := places["학교"]; hit {
			questions = append(questions, "학창시절 가장 재미있었던 추억이 있으신가요?")
		}
	}

	for _, e := range emotions {
		switch e {
		case taxonomy.EmotionPositive:
			questions = append(questions, "그때 정말 행복하셨겠어요. 또 다른 좋은 기억은 없으신가요?")
		case taxonomy.EmotionNostalgic:
			questions = append(questions, "정말 그리우셨겠어요. 그분들과의 추억을 더 들려주세요.")
		}
	}

	if len(questions) > maxFollowUps {
		questions = questions[:maxFollowUps]
	}
	return questions
}

// PersonalizedGreeting picks an opening line from what past sessions covered.
func PersonalizedGreeting(topics []taxonomy.Category, emotions []taxonomy.Emotion) string {
	for _, t := range topics {
		if t == taxonomy.CategoryEra {
			return "안녕하세요! 지난번에 말씀해주신 추억이 정말 인상깊었어요. 오늘은 또 어떤 이야기를 들려주실까요?"
		}
	}
	for _, e := range emotions {
		if e == taxonomy.EmotionPositive {
			return "안녕하세요! 지난번 행복한 이야기를 들려주셔서 저도 기뻤어요. 오늘도 좋은 추억 이야기해볼까요?"
		}
	}
	if len(topics) == 0 && len(emotions) == 0 {
		return "안녕하세요! 오늘은 어떤 추억을 나누고 싶으시나요?"
	}
	return "안녕하세요! 오늘은 어떤 소중한 추억을 함께 나누고 싶으시나요?"
}
