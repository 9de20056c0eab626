package triage

import "fmt"

// buildClassifyPrompt は問題報告の分類プロンプトを構築する
// モデルには厳密なJSON形式のみで応答するよう指示する
func buildClassifyPrompt(description string) string {
	return fmt.Sprintf(`Analyze this tenant issue report and classify it.

Issue description: %q

Respond in this exact JSON format:
{
    "category": "lighting|climate_control|heating|entertainment|network|laundry_wash|laundry_dry|plumbing|appliances|other",
    "severity": "low|medium|high|critical",
    "suggested_actions": ["action1", "action2"],
    "confidence": 0.0
}

Rules:
- "category" must be exactly one of the listed values
- "confidence" is a number between 0.0 and 1.0
- "suggested_actions" are short diagnostic or scheduling steps for the landlord, never repair instructions for the tenant

Only respond with valid JSON, no other text.`, description)
}
