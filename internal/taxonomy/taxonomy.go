// Package taxonomy holds the static Korean reminiscence dictionaries that drive
// keyword and emotion extraction. Tables are ordered slices, not maps: scan order
// is part of the extraction contract and must match declaration order.
package taxonomy

// Category names one of the closed set of memory-topic categories.
type Category string

const (
	CategoryEra      Category = "시간대"
	CategoryPlace    Category = "장소"
	CategoryPerson   Category = "인물"
	CategoryActivity Category = "활동"
)

// Emotion labels one of the closed set of extraction emotions. Content catalog
// items may additionally carry finer-grained labels (e.g. "따뜻한") that never
// come out of extraction.
type Emotion string

const (
	EmotionPositive  Emotion = "긍정적"
	EmotionNostalgic Emotion = "그리운"
	EmotionHard      Emotion = "힘든"
	EmotionCalm      Emotion = "평온한"
)

// Subgroup is one subcategory with its surface-term list.
type Subgroup struct {
	Name  string
	Terms []string
}

// Group is one category with its ordered subcategories.
type Group struct {
	Name      Category
	Subgroups []Subgroup
}

// Memory is the topic taxonomy. Declaration order fixes extraction order.
var Memory = []Group{
	{
		Name: CategoryEra,
		Subgroups: []Subgroup{
			{Name: "어린시절", Terms: []string{"어릴때", "어린시절", "초등학교", "국민학교", "어렸을때", "꼬마때", "아이때"}},
			{Name: "청소년기", Terms: []string{"중학교", "고등학교", "청소년", "10대", "학창시절", "수험생", "입시"}},
			{Name: "청년기", Terms: []string{"대학교", "20대", "젊었을때", "신혼", "결혼", "취업", "사회생활"}},
			{Name: "장년기", Terms: []string{"30대", "40대", "중년", "직장생활", "승진", "아이들", "육아"}},
			{Name: "노년기", Terms: []string{"50대", "60대", "은퇴", "손자", "손녀", "퇴직", "노후"}},
		},
	},
	{
		Name: CategoryPlace,
		Subgroups: []Subgroup{
			{Name: "고향", Terms: []string{"고향", "시골", "농촌", "마을", "동네", "우리집", "친정", "시댁"}},
			{Name: "학교", Terms: []string{"학교", "교실", "운동장", "도서관", "강당", "교무실", "학원"}},
			{Name: "직장", Terms: []string{"회사", "사무실", "공장", "가게", "상점", "사업장", "일터"}},
			{Name: "놀이장소", Terms: []string{"놀이터", "공원", "산", "강", "바다", "시장", "극장", "교회"}},
		},
	},
	{
		Name: CategoryPerson,
		Subgroups: []Subgroup{
			{Name: "가족", Terms: []string{"어머니", "아버지", "엄마", "아빠", "할머니", "할아버지", "형", "누나", "언니", "동생", "남편", "아내", "아들", "딸", "며느리", "사위"}},
			{Name: "친구", Terms: []string{"친구", "동창", "선배", "후배", "동기", "동료", "이웃", "선생님"}},
			{Name: "연인", Terms: []string{"남자친구", "여자친구", "첫사랑", "애인", "연인", "좋아하던"}},
		},
	},
	{
		Name: CategoryActivity,
		Subgroups: []Subgroup{
			{Name: "놀이", Terms: []string{"놀이", "게임", "숨바꼭질", "술래잡기", "공기놀이", "딱지치기", "구슬치기"}},
			{Name: "음식", Terms: []string{"밥", "반찬", "김치", "된장찌개", "라면", "과자", "떡", "엿", "사탕"}},
			{Name: "음악", Terms: []string{"노래", "음악", "가요", "트로트", "동요", "찬송가", "민요"}},
			{Name: "명절", Terms: []string{"설날", "추석", "단오", "어버이날", "크리스마스", "생일"}},
		},
	},
}

// EmotionGroup pairs one emotion label with its trigger terms.
type EmotionGroup struct {
	Label Emotion
	Terms []string
}

// Emotions is the emotion taxonomy. At most one hit per label is recorded.
var Emotions = []EmotionGroup{
	{Label: EmotionPositive, Terms: []string{"기쁜", "행복한", "즐거운", "재미있는", "좋은", "따뜻한", "사랑스러운", "고마운", "뿌듯한"}},
	{Label: EmotionNostalgic, Terms: []string{"그리운", "보고싶은", "그때가", "아쉬운", "애틋한", "간절한"}},
	{Label: EmotionHard, Terms: []string{"힘든", "어려운", "슬픈", "아픈", "고생", "고달픈", "괴로운"}},
	{Label: EmotionCalm, Terms: []string{"평온한", "조용한", "차분한", "편안한", "안락한", "고요한"}},
}

// EmotionDisplay maps emotion labels to the phrasing used in recommendation
// reasons. Labels without an entry render as-is.
var EmotionDisplay = map[Emotion]string{
	Emotion("그리운"): "그리운 마음",
	Emotion("기쁜"):  "즐거운 추억",
	Emotion("평온한"): "평온한 감정",
	Emotion("따뜻한"): "따뜻한 느낌",
}
