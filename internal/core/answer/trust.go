package answer

import (
	"strings"
	"unicode/utf8"
)

// hedgingMarkers は一般知識回答を信頼できないと判定する不確実性表現
var hedgingMarkers = []string{
	"i don't know",
	"i do not know",
	"i'm not sure",
	"i am not sure",
	"i don't have that information",
	"i don't have specific information",
	"i cannot help",
	"i can't help",
	"unable to answer",
	"not confident",
	"contact your landlord",
	"ask your landlord",
}

// minTrustedAnswerLen は信頼できる回答の最小長（ルーン数）
const minTrustedAnswerLen = 40

// isTrustworthy は一般知識回答を採用してよいか判定する
// ヘッジ表現を含む、または短すぎる回答は信頼できないとみなし、
// 呼び出し側はエスカレーションに倒す
func isTrustworthy(generated string) bool {
	trimmed := strings.TrimSpace(generated)
	if utf8.RuneCountInString(trimmed) < minTrustedAnswerLen {
		return false
	}

	lower := strings.ToLower(trimmed)
	for _, marker := range hedgingMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}
