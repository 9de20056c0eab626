package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/jinford/homeguard/internal/core/llm"
	"github.com/jinford/homeguard/internal/core/retrieval"
)

// Composer は検索チャンクと質問から回答テキストを合成する
// ティアのラベル付けは行わない（FallbackControllerの責務）
type Composer struct {
	generator llm.Generator
	prompts   *PromptBuilder
}

// NewComposer は新しいComposerを作成する
func NewComposer(generator llm.Generator, prompts *PromptBuilder) *Composer {
	return &Composer{
		generator: generator,
		prompts:   prompts,
	}
}

// Compose は回答テキストを生成する
// chunks が空の場合は一般知識の使用を明示的に許可したプロンプトになる
func (c *Composer) Compose(ctx context.Context, question string, chunks []*retrieval.ScoredChunk) (string, error) {
	var prompt string
	if len(chunks) > 0 {
		prompt = c.prompts.Grounded(question, chunks)
	} else {
		prompt = c.prompts.General(question)
	}

	generated, err := c.generator.GenerateCompletion(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}

	generated = strings.TrimSpace(generated)
	if generated == "" {
		return "", llm.ErrEmptyCompletion
	}
	return generated, nil
}
