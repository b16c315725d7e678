package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError carries the user-facing Korean message shown when an
// utterance is rejected before it reaches the pipeline.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Topics that reminiscence sessions deliberately steer away from.
var inappropriateTerms = []string{
	"정치", "종교", "돈", "병", "죽음", "사고", "전쟁", "폭력", "욕설",
}

var (
	cleanDisallowed = regexp.MustCompile(`[^\w\s가-힣.,!?~♪♫🎵😊😄😢💝❤️🏠🎼]`)
	cleanWhitespace = regexp.MustCompile(`\s+`)
)

// CleanText strips disallowed symbols and collapses runs of whitespace.
func CleanText(text string) string {
	text = cleanDisallowed.ReplaceAllString(text, "")
	text = cleanWhitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// IsAppropriate reports whether text stays within reminiscence-safe topics.
func IsAppropriate(text string) bool {
	lowered := strings.ToLower(text)
	for _, term := range inappropriateTerms {
		if strings.Contains(lowered, term) {
			return false
		}
	}
	return true
}

// ValidateInput rejects empty, oversized or off-limits utterances. maxLen is
// measured in runes so Hangul input is not penalized by UTF-8 byte length.
func ValidateInput(text string, maxLen int) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Code: "empty_message", Message: "메시지를 입력해 주세요."}
	}
	if maxLen > 0 && len([]rune(text)) > maxLen {
		return &ValidationError{
			Code:    "message_too_long",
			Message: fmt.Sprintf("메시지가 너무 깁니다. %d자 이내로 입력해 주세요.", maxLen),
		}
	}
	if !IsAppropriate(text) {
		return &ValidationError{Code: "inappropriate_content", Message: "회상치료에 적합하지 않은 내용입니다. 다른 주제로 이야기해볼까요?"}
	}
	return nil
}
