package triage

import "strings"

// categoryKeywords はLLMを使わない分類のキーワード表
// 先に並んだカテゴリほど優先される
var categoryKeywords = []struct {
	category Category
	words    []string
}{
	{CategoryClimateControl, []string{"ac ", " ac", "air conditioning", "air conditioner", "cooling", "aircon"}},
	{CategoryHeating, []string{"heater", "heating", "radiator", "boiler", "no heat", "too cold"}},
	{CategoryLighting, []string{"light", "lamp", "bulb", "flicker"}},
	{CategoryPlumbing, []string{"water", "leak", "pipe", "faucet", "toilet", "drain", "sink", "shower"}},
	{CategoryNetwork, []string{"wifi", "wi-fi", "internet", "router", "network"}},
	{CategoryEntertainment, []string{"tv", "television", "remote", "speaker", "hdmi"}},
	{CategoryLaundryWash, []string{"washer", "washing machine"}},
	{CategoryLaundryDry, []string{"dryer", "tumble"}},
	{CategoryAppliances, []string{"appliance", "oven", "stove", "fridge", "refrigerator", "dishwasher", "microwave"}},
}

// hazardKeywords は安全上の危険を示す表現
// これらを含む報告の深刻度は最低でも high に引き上げられる
var hazardKeywords = []string{
	"gas",
	"fire",
	"smoke",
	"burning smell",
	"flood",
	"flooding",
	"electrical shock",
	"electric shock",
	"sparking",
	"sparks",
	"carbon monoxide",
}

var urgentKeywords = []string{"urgent", "emergency", "broken", "not working", "won't", "wont"}

var minorKeywords = []string{"sometimes", "occasionally", "minor", "small"}

// classifyByKeywords は説明文のみから決定的に分類する
// LLMが利用できない場合の最終フォールバック
func classifyByKeywords(description string) *IncidentClassification {
	lower := strings.ToLower(description)

	category := CategoryOther
	for _, entry := range categoryKeywords {
		for _, word := range entry.words {
			if strings.Contains(lower, word) {
				category = entry.category
				break
			}
		}
		if category != CategoryOther {
			break
		}
	}

	severity := SeverityMedium
	if containsAny(lower, urgentKeywords) {
		severity = SeverityHigh
	} else if containsAny(lower, minorKeywords) {
		severity = SeverityLow
	}

	return &IncidentClassification{
		Category: category,
		Severity: severity,
		SuggestedActions: []string{
			defaultAction,
			"Contact tenant for more details",
		},
		Confidence: fallbackConfidenceCap,
	}
}

// containsHazard は説明文が危険表現を含むかどうかを返す
func containsHazard(description string) bool {
	return containsAny(strings.ToLower(description), hazardKeywords)
}

func containsAny(lower string, words []string) bool {
	for _, word := range words {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
