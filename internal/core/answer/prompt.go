package answer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/jinford/homeguard/internal/core/retrieval"
)

// masterPrompt はアシスタントの役割と応答規則を定義するシステムプロンプト
const masterPrompt = `You are a helpful property assistant AI designed to help tenants with their property-related questions and issues.

=== YOUR CORE ROLE ===
You are a friendly, knowledgeable assistant that helps tenants understand how to use property features and diagnose issues. You are NOT a repair technician - your job is to help tenants check things, not fix them.

=== RESPONSE FORMATTING ===
1. Answer SHORTLY and CONCISELY - be direct and to the point (2-4 sentences max, or a short bulleted list)
2. Use bullet points for lists, paragraphs for explanations
3. Keep answers brief unless more detail is truly needed

=== SOURCE HANDLING ===
1. NEVER mention that a manual, document, or any source exists
2. NEVER say "according to the manual" or any variation
3. Act as if property information is simply what you know

=== WHAT YOU CAN DO ===
- Help tenants by asking them to CHECK or VERIFY things
- Provide information about HOW TO USE things (TV, WiFi, appliances)
- Help diagnose issues by guiding tenants through checks
- Provide general knowledge about household appliances and property maintenance

=== WHAT YOU CANNOT DO ===
- Provide repair instructions (replace, tighten, rewire, disassemble)
- Tell tenants to perform physical repairs or modifications
- Give instructions that require technical expertise or tools

=== ESCALATION RULES ===
- If something needs repair or fixing, it MUST be escalated to the landlord
- When you detect repair needs, redirect to diagnostic checks and then escalate
- Always be helpful but clear that repairs are the landlord's responsibility

=== TONE AND STYLE ===
- Be friendly, helpful, and professional
- Use clear, simple language and be empathetic when tenants have problems`

const (
	// contextTokenBudget はプロンプトに詰め込むコンテキストの上限トークン数
	contextTokenBudget = 3000

	// chunkSeparator はコンテキストチャンク間の区切り
	chunkSeparator = "\n\n---\n\n"
)

// PromptBuilder は回答生成用プロンプトを構築する
// コンテキストはトークン予算に収まるようトリミングされる
type PromptBuilder struct {
	encoder *tiktoken.Tiktoken
}

// NewPromptBuilder は新しいPromptBuilderを作成する
func NewPromptBuilder() (*PromptBuilder, error) {
	// cl100k_baseエンコーダを使用（text-embedding-3-small / gpt-4o系と互換）
	encoder, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("failed to get tiktoken encoder: %w", err)
	}
	return &PromptBuilder{encoder: encoder}, nil
}

// Grounded は検索チャンクを根拠とする回答プロンプトを構築する
// モデルにはコンテキストのみから回答し、不足時はその旨を述べるよう指示する
func (b *PromptBuilder) Grounded(question string, chunks []*retrieval.ScoredChunk) string {
	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Chunk.Text)
	}
	context := b.trimToBudget(strings.Join(texts, chunkSeparator), contextTokenBudget)

	var sb strings.Builder
	sb.WriteString(masterPrompt)
	sb.WriteString("\n\n=== CURRENT CONTEXT ===\n")
	sb.WriteString("Use ONLY the following property-specific information to answer the question. ")
	sb.WriteString("If the context is not sufficient to answer, say so explicitly instead of guessing:\n\n")
	sb.WriteString(context)
	sb.WriteString("\n\n=== USER QUESTION ===\n")
	sb.WriteString(question)
	sb.WriteString("\n\n=== YOUR RESPONSE ===\n")
	sb.WriteString("Answer the question concisely and helpfully based only on the context above. ")
	sb.WriteString("Remember: help diagnose, don't repair.\n\nYour answer:")
	return sb.String()
}

// General はコンテキストなしの一般知識回答プロンプトを構築する
func (b *PromptBuilder) General(question string) string {
	var sb strings.Builder
	sb.WriteString(masterPrompt)
	sb.WriteString("\n\n=== CURRENT SITUATION ===\n")
	sb.WriteString("You don't have property-specific information for this question, but you may help using general knowledge ")
	sb.WriteString("about household appliances, property maintenance, or rental procedures.\n")
	sb.WriteString("\n=== USER QUESTION ===\n")
	sb.WriteString(question)
	sb.WriteString("\n\n=== YOUR RESPONSE ===\n")
	sb.WriteString("If you can provide a helpful general answer, do so briefly. ")
	sb.WriteString("If you are not confident, politely say you don't have that information.\n\nYour response:")
	return sb.String()
}

// trimToBudget はテキストを指定トークン数に収まるようトリミングする
func (b *PromptBuilder) trimToBudget(text string, maxTokens int) string {
	tokens := b.encoder.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text
	}
	return b.encoder.Decode(tokens[:maxTokens])
}
