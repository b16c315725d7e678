// Package recommend ranks reminiscence content against what a user just said
// and what they have talked about before. The catalog is seeded in memory and
// mutated only through feedback or explicit addition; nothing here persists.
package recommend

import (
	"github.com/dasomlab/dasom/internal/taxonomy"
)

// Catalog names one of the content catalogs, or All for cross-catalog queries.
type Catalog string

const (
	CatalogMusic      Catalog = "music"
	CatalogVideos     Catalog = "videos"
	CatalogActivities Catalog = "activities"
	CatalogTopics     Catalog = "topics"
	CatalogAll        Catalog = "all"
)

// catalogOrder fixes iteration order so cross-catalog results are stable.
var catalogOrder = []Catalog{CatalogMusic, CatalogVideos, CatalogActivities, CatalogTopics}

// resultType is the singular type tag carried on results for each catalog.
var resultType = map[Catalog]string{
	CatalogMusic:      "music",
	CatalogVideos:     "video",
	CatalogActivities: "activity",
	CatalogTopics:     "topic",
}

// Valid reports whether c names a concrete catalog or All.
func (c Catalog) Valid() bool {
	if c == CatalogAll {
		return true
	}
	_, ok := resultType[c]
	return ok
}

// Item is one catalog entry. Only the fields relevant to its catalog are set:
// music carries artist and year, videos a duration, activities suggestions,
// topics conversation-starter questions.
type Item struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Artist       string             `json:"artist,omitempty"`
	Year         string             `json:"year,omitempty"`
	Description  string             `json:"description"`
	YouTubeQuery string             `json:"youtube_query,omitempty"`
	Duration     string             `json:"duration,omitempty"`
	Suggestions  []string           `json:"suggestions,omitempty"`
	Questions    []string           `json:"questions,omitempty"`
	Keywords     []string           `json:"keywords"`
	Emotions     []taxonomy.Emotion `json:"emotions"`
	Popularity   int                `json:"popularity"`
}

// Result is one ranked recommendation. Recomputed per request, never stored.
type Result struct {
	Type         string   `json:"type"`
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Artist       string   `json:"artist,omitempty"`
	YouTubeQuery string   `json:"youtube_query,omitempty"`
	Description  string   `json:"description"`
	Duration     string   `json:"duration,omitempty"`
	Suggestions  []string `json:"suggestions,omitempty"`
	Questions    []string `json:"questions,omitempty"`
	Score        float64  `json:"score"`
	Reason       string   `json:"reason"`
}

func seedCatalogs() map[Catalog][]Item {
	return map[Catalog][]Item{
		CatalogMusic: {
			{
				ID:           "고향의봄",
				Title:        "고향의 봄",
				Artist:       "이은하",
				Year:         "1960년대",
				YouTubeQuery: "고향의 봄 이은하",
				Keywords:     []string{"고향", "봄", "어린시절", "시골"},
				Emotions:     []taxonomy.Emotion{"그리운", "평온한"},
				Description:  "봄날 고향을 그리워하는 애틋한 마음이 담긴 노래",
				Popularity:   95,
			},
			{
				ID:           "개여울",
				Title:        "개여울",
				Artist:       "정미조",
				Year:         "1970년대",
				YouTubeQuery: "개여울 정미조",
				Keywords:     []string{"시골", "강", "마을", "정겨운"},
				Emotions:     []taxonomy.Emotion{"그리운", "평온한"},
				Description:  "시골 마을의 정겨운 풍경을 노래한 명곡",
				Popularity:   88,
			},
			{
				ID:           "봉선화연정",
				Title:        "봉선화 연정",
				Artist:       "이미자",
				Year:         "1960년대",
				YouTubeQuery: "봉선화 연정 이미자",
				Keywords:     []string{"꽃", "연정", "사랑", "젊은시절"},
				Emotions:     []taxonomy.Emotion{"그리운", "애틋한"},
				Description:  "젊은 날의 순수한 사랑을 그린 애절한 노래",
				Popularity:   92,
			},
			{
				ID:           "애수",
				Title:        "애수",
				Artist:       "이미자",
				Year:         "1960년대",
				YouTubeQuery: "애수 이미자",
				Keywords:     []string{"그리움", "슬픔", "인생"},
				Emotions:     []taxonomy.Emotion{"슬픈", "그리운"},
				Description:  "인생의 애환을 담은 이미자의 대표곡",
				Popularity:   90,
			},
			{
				ID:           "상록수",
				Title:        "상록수",
				Artist:       "현인",
				Year:         "1940년대",
				YouTubeQuery: "상록수 현인",
				Keywords:     []string{"나무", "변치않는", "신념", "의지"},
				Emotions:     []taxonomy.Emotion{"평온한", "희망적"},
				Description:  "변치 않는 의지와 신념을 노래한 명곡",
				Popularity:   85,
			},
		},
		CatalogVideos: {
			{
				ID:           "60년대한국",
				Title:        "1960년대 한국의 모습",
				Description:  "60년대 우리나라의 일상과 풍경",
				YouTubeQuery: "1960년대 한국 옛날 영상",
				Keywords:     []string{"60년대", "옛날", "한국", "일상"},
				Emotions:     []taxonomy.Emotion{"그리운", "평온한"},
				Duration:     "15분",
				Popularity:   88,
			},
			{
				ID:           "시골마을",
				Title:        "옛날 시골 마을 풍경",
				Description:  "전통 시골 마을의 아름다운 풍경",
				YouTubeQuery: "옛날 시골 마을 풍경",
				Keywords:     []string{"시골", "마을", "농촌", "전통"},
				Emotions:     []taxonomy.Emotion{"그리운", "평온한"},
				Duration:     "10분",
				Popularity:   92,
			},
			{
				ID:           "학교생활",
				Title:        "옛날 학교 교실 풍경",
				Description:  "추억의 학창시절 교실 모습",
				YouTubeQuery: "옛날 학교 교실 추억",
				Keywords:     []string{"학교", "교실", "학창시절", "추억"},
				Emotions:     []taxonomy.Emotion{"그리운", "기쁜"},
				Duration:     "8분",
				Popularity:   85,
			},
		},
		CatalogActivities: {
			{
				ID:          "전통놀이",
				Title:       "전통 놀이 체험",
				Description: "옛날 아이들이 즐겼던 전통 놀이들",
				Keywords:    []string{"놀이", "전통", "어린시절", "게임"},
				Emotions:    []taxonomy.Emotion{"기쁜", "그리운"},
				Suggestions: []string{"공기놀이", "딱지치기", "구슬치기", "술래잡기"},
				Popularity:  80,
			},
			{
				ID:          "전통음식",
				Title:       "추억의 음식 이야기",
				Description: "어릴 때 먹었던 맛있는 음식들",
				Keywords:    []string{"음식", "요리", "맛", "어머니"},
				Emotions:    []taxonomy.Emotion{"그리운", "따뜻한"},
				Suggestions: []string{"된장찌개", "김치", "엿", "떡", "전통차"},
				Popularity:  90,
			},
		},
		CatalogTopics: {
			{
				ID:          "가족이야기",
				Title:       "가족과의 추억",
				Description: "소중한 가족들과 함께한 시간들",
				Keywords:    []string{"가족", "어머니", "아버지", "형제", "자녀"},
				Emotions:    []taxonomy.Emotion{"따뜻한", "그리운", "기쁜"},
				Questions: []string{
					"어머니께서 해주신 음식 중 가장 기억에 남는 것은?",
					"아버지와 함께 한 특별한 추억이 있으신가요?",
					"형제자매들과 어떤 놀이를 하셨나요?",
				},
				Popularity: 95,
			},
			{
				ID:          "첫경험",
				Title:       "인생의 첫 경험들",
				Description: "처음 경험했던 소중한 순간들",
				Keywords:    []string{"첫", "경험", "기억", "특별한"},
				Emotions:    []taxonomy.Emotion{"기쁜", "설레는", "그리운"},
				Questions: []string{
					"첫 월급을 받으셨을 때 기분이 어떠셨나요?",
					"처음 학교에 갔을 때를 기억하시나요?",
					"첫 데이트는 어디서 하셨나요?",
				},
				Popularity: 88,
			},
		},
	}
}
