package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRouteMessage は質問と問題報告の振り分けを確認します
func TestRouteMessage(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected MessageKind
	}{
		{name: "疑問符付き", message: "Is the boiler supposed to make this sound?", expected: KindQuestion},
		{name: "疑問詞で始まる", message: "how do I set the thermostat schedule", expected: KindQuestion},
		{name: "依頼表現", message: "tell me about the recycling rules", expected: KindQuestion},
		{name: "故障報告", message: "the dryer stopped working this morning", expected: KindIssue},
		{name: "水漏れ報告", message: "there is a leak under the kitchen sink", expected: KindIssue},
		{name: "異臭報告", message: "strange smell in the bathroom", expected: KindIssue},
		{name: "曖昧な入力は質問に倒す", message: "the thermostat", expected: KindQuestion},
		{name: "疑問符があれば報告語より優先", message: "is the washing machine broken?", expected: KindQuestion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, routeMessage(tt.message))
		})
	}
}

// TestRouteMessageWordBoundaries は疑問詞が単語として現れた場合のみ
// 質問と判定されることを確認します
func TestRouteMessageWordBoundaries(t *testing.T) {
	// "shower" は "how" を部分文字列として含むが、質問ではない
	assert.Equal(t, KindIssue, routeMessage("the shower is leaking badly"))

	// "somewhat" は "what" を含むが、報告表現が優先される
	assert.Equal(t, KindIssue, routeMessage("the fridge is somewhat noisy and seems faulty"))
}
