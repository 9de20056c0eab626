package answer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jinford/homeguard/internal/core/retrieval"
)

// FallbackController は3段階の回答ティアを編成する
// マニュアル根拠 → 一般知識 → エスカレーション の順に試し、
// 1リクエストにつき必ずちょうど1つのティアで確定する
type FallbackController struct {
	search   *retrieval.SearchService
	composer *Composer

	// manualThreshold はマニュアル根拠回答とみなす最小類似度（閉区間下限）
	manualThreshold float64
	topK            int
	logger          *slog.Logger
}

type FallbackOption func(*FallbackController)

// WithFallbackLogger は FallbackController にロガーを設定する
func WithFallbackLogger(logger *slog.Logger) FallbackOption {
	return func(c *FallbackController) {
		c.logger = logger
	}
}

// WithTopK は検索チャンク数を設定する
func WithTopK(k int) FallbackOption {
	return func(c *FallbackController) {
		if k > 0 {
			c.topK = k
		}
	}
}

// NewFallbackController は新しいFallbackControllerを作成する
func NewFallbackController(
	search *retrieval.SearchService,
	composer *Composer,
	manualThreshold float64,
	opts ...FallbackOption,
) *FallbackController {
	c := &FallbackController{
		search:          search,
		composer:        composer,
		manualThreshold: manualThreshold,
		topK:            retrieval.DefaultTopK,
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Answer は質問に対する回答ティアを確定する
// 生成バックエンドの障害は llm.ErrModelUnavailable を包んで返し、
// エスカレーションとしては扱わない
func (c *FallbackController) Answer(ctx context.Context, propertyID, question string) (*Decision, error) {
	result, err := c.search.Search(ctx, propertyID, question, c.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	topScore := result.TopScore()
	c.logger.Info("retrieval completed",
		"propertyID", propertyID,
		"hits", len(result.Chunks),
		"topScore", topScore,
	)

	if SelectTier(topScore, !result.IsEmpty(), c.manualThreshold, false) == TierManualGrounded {
		composed, err := c.composer.Compose(ctx, question, result.Chunks)
		if err != nil {
			return nil, err
		}

		sources := make([]string, 0, len(result.Chunks))
		for _, chunk := range result.Chunks {
			sources = append(sources, chunk.Chunk.ID.String())
		}

		c.logger.Info("answer grounded in manual", "propertyID", propertyID, "sources", len(sources))
		return &Decision{
			Tier:    TierManualGrounded,
			Answer:  composed,
			Sources: sources,
		}, nil
	}

	// 関連度不足: コンテキストなしで一般知識回答を試みる
	composed, err := c.composer.Compose(ctx, question, nil)
	if err != nil {
		return nil, err
	}

	if SelectTier(topScore, false, c.manualThreshold, isTrustworthy(composed)) == TierGeneralKnowledge {
		c.logger.Info("answer from general knowledge", "propertyID", propertyID)
		return &Decision{
			Tier:    TierGeneralKnowledge,
			Answer:  composed,
			Sources: []string{},
		}, nil
	}

	// 根拠も自信もない回答を捏造するより明示的なエスカレーションを選ぶ
	c.logger.Info("escalating question to landlord", "propertyID", propertyID)
	return &Decision{
		Tier:    TierEscalate,
		Sources: []string{},
		Reason:  question,
	}, nil
}
