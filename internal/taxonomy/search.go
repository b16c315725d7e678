package taxonomy

// SearchEntry maps a trigger term appearing in text to a ready-made YouTube
// search query.
type SearchEntry struct {
	Trigger string
	Query   string
}

// SongSearches covers direct mentions of well-known reminiscence songs.
var SongSearches = []SearchEntry{
	{Trigger: "고향의봄", Query: "고향의 봄 노래 이은하"},
	{Trigger: "개여울", Query: "정미조 개여울"},
	{Trigger: "봉선화", Query: "봉선화 연정 이미자"},
	{Trigger: "애수", Query: "애수 이미자"},
	{Trigger: "그대와 영원히", Query: "그대와 영원히 양희은"},
	{Trigger: "상록수", Query: "상록수 현인"},
	{Trigger: "목포의 눈물", Query: "목포의 눈물 이난영"},
}

// EraSearches covers mentions of decades and nostalgic scenery.
var EraSearches = []SearchEntry{
	{Trigger: "60년대", Query: "1960년대 한국 옛날 영상"},
	{Trigger: "70년대", Query: "1970년대 한국 옛날 사진"},
	{Trigger: "80년대", Query: "1980년대 추억 영상"},
	{Trigger: "시골", Query: "옛날 시골 마을 풍경"},
	{Trigger: "학교", Query: "옛날 학교 교실 추억"},
}
