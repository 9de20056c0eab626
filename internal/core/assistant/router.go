package assistant

import "strings"

// questionWords は単語として現れたとき質問を示す語
var questionWords = []string{
	"how", "what", "where", "when", "why", "explain",
}

// questionPhrases は質問を示す複合表現
var questionPhrases = []string{
	"can you", "tell me", "do you know", "show me",
	"help me", "i need to know",
}

// issuePhrases は問題報告を示す表現
var issuePhrases = []string{
	"broken", "not working", "problem", "issue", "faulty",
	"noise", "leak", "leaking", "flicker", "doesn't work",
	"won't work", "wont work", "not functioning", "malfunction",
	"stopped working", "smell",
}

// MessageKind はルーティング先の種別
type MessageKind int

const (
	KindQuestion MessageKind = iota
	KindIssue
)

// routeMessage はメッセージを質問か問題報告に二分する
// 曖昧な入力は質問に倒す: 不要なチケットを作るコストの方が、
// 人間が後からスレッドで読む未応答報告より高い
func routeMessage(message string) MessageKind {
	lower := strings.ToLower(strings.TrimSpace(message))

	if strings.Contains(message, "?") {
		return KindQuestion
	}

	words := splitWords(lower)
	for _, w := range questionWords {
		if words[w] {
			return KindQuestion
		}
	}
	for _, phrase := range questionPhrases {
		if strings.Contains(lower, phrase) {
			return KindQuestion
		}
	}

	for _, phrase := range issuePhrases {
		if strings.Contains(lower, phrase) {
			return KindIssue
		}
	}

	return KindQuestion
}

// splitWords はメッセージを句読点を除いた単語集合にする
func splitWords(lower string) map[string]bool {
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && r != '\''
	})

	words := make(map[string]bool, len(fields))
	for _, f := range fields {
		words[f] = true
	}
	return words
}
