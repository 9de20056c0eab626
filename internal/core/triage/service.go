package triage

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/jinford/homeguard/internal/core/llm"
)

// Classifier は問題報告をカテゴリ・深刻度・推奨アクションに分類する
type Classifier struct {
	generator llm.Generator
	logger    *slog.Logger
}

type ClassifierOption func(*Classifier)

// WithClassifierLogger は Classifier にロガーを設定する
func WithClassifierLogger(logger *slog.Logger) ClassifierOption {
	return func(c *Classifier) {
		c.logger = logger
	}
}

// NewClassifier は新しいClassifierを作成する
func NewClassifier(generator llm.Generator, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		generator: generator,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// classifyResponse はLLMのJSON応答の形
type classifyResponse struct {
	Category         string   `json:"category"`
	Severity         string   `json:"severity"`
	SuggestedActions []string `json:"suggested_actions"`
	Confidence       float64  `json:"confidence"`
}

// Classify は説明文を IncidentClassification に変換する
// 分類は失敗しない: 不正な出力やバックエンド障害はローカルに復旧される
// （インシデント記録は常に作成可能でなければならない）
func (c *Classifier) Classify(ctx context.Context, description string) *IncidentClassification {
	result := c.classifyWithModel(ctx, description)
	if result == nil {
		result = classifyByKeywords(description)
	}

	// 危険表現の深刻度下限は分類経路に関わらず適用する
	if containsHazard(description) && result.Severity < SeverityHigh {
		result.Severity = SeverityHigh
	}

	if len(result.SuggestedActions) == 0 {
		result.SuggestedActions = []string{defaultAction}
	}

	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}

	return result
}

// classifyWithModel はLLMによる分類を試みる。復旧不能な場合は nil を返す
func (c *Classifier) classifyWithModel(ctx context.Context, description string) *IncidentClassification {
	raw, err := c.generator.GenerateJSON(ctx, buildClassifyPrompt(description))
	if err != nil {
		c.logger.Warn("classification model call failed, falling back to keywords", "error", err)
		return nil
	}

	var resp classifyResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		c.logger.Warn("malformed classification output", "error", err)
		return &IncidentClassification{
			Category:         CategoryOther,
			Severity:         SeverityMedium,
			SuggestedActions: []string{defaultAction},
			Confidence:       fallbackConfidenceCap,
		}
	}

	confidence := resp.Confidence

	category, err := ParseCategory(resp.Category)
	if err != nil {
		// 列挙外カテゴリ: OTHERに落とし、信頼度に上限を掛ける
		c.logger.Warn("category outside enum", "category", resp.Category)
		category = CategoryOther
		if confidence > fallbackConfidenceCap {
			confidence = fallbackConfidenceCap
		}
	}

	severity, err := ParseSeverity(resp.Severity)
	if err != nil {
		severity = SeverityMedium
	}

	return &IncidentClassification{
		Category:         category,
		Severity:         severity,
		SuggestedActions: resp.SuggestedActions,
		Confidence:       confidence,
	}
}
