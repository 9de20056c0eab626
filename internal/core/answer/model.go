package answer

// Tier は回答がどの段階で確定したかを表す
type Tier int

const (
	// TierManualGrounded はマニュアル由来のコンテキストに基づく回答
	TierManualGrounded Tier = iota
	// TierGeneralKnowledge は一般知識による回答
	TierGeneralKnowledge
	// TierEscalate は回答せず人間（大家）への引き継ぎを示す
	TierEscalate
)

// String は Tier の文字列表現を返す
func (t Tier) String() string {
	switch t {
	case TierManualGrounded:
		return "manual_grounded"
	case TierGeneralKnowledge:
		return "general_knowledge"
	case TierEscalate:
		return "escalate"
	default:
		return "unknown"
	}
}

// Decision は1つの質問に対する回答ティアの確定結果を表す
// リクエストごとに新規作成され、永続化されない
type Decision struct {
	Tier Tier
	// Answer は回答テキスト。TierEscalate の場合は空
	Answer string
	// Sources は根拠チャンクのID。TierManualGrounded 以外では常に空
	Sources []string
	// Reason はエスカレーション理由（元の質問文を運ぶ）
	Reason string
}

// SelectTier は類似度スコアと信頼判定から回答ティアを決定する純粋関数
// しきい値は閉区間下限（topScore == threshold はマニュアル根拠と判定）
func SelectTier(topScore float64, hasHits bool, threshold float64, generalTrusted bool) Tier {
	if hasHits && topScore >= threshold {
		return TierManualGrounded
	}
	if generalTrusted {
		return TierGeneralKnowledge
	}
	return TierEscalate
}
