package assistant

import (
	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/jinford/homeguard/internal/core/answer"
	"github.com/jinford/homeguard/internal/core/triage"
)

// AskResponse は ask_question の応答
type AskResponse struct {
	Answer string
	// Sources はマニュアル根拠回答のチャンクID。それ以外のティアでは空
	Sources    []string
	Confidence mo.Option[float64]
	Tier       answer.Tier
	// Unavailable はバックエンド障害を示す。エスカレーションとは区別され、
	// 「後で再試行」をユーザーに伝えるための状態
	Unavailable bool
}

// ChatParams は handle_chat_message の入力
type ChatParams struct {
	ConversationID string
	PropertyID     string
	Message        string
	UserID         string
	UserRole       string
}

// ChatResponse は handle_chat_message の応答
type ChatResponse struct {
	Response        string
	Sources         []string
	IncidentCreated bool
	Incident        mo.Option[*Incident]
	Unavailable     bool
}

// TriageResponse は triage_issue の応答
type TriageResponse struct {
	Classification *triage.IncidentClassification
	IncidentID     mo.Option[uuid.UUID]
}

// ChatMessage は返信提案に使う会話履歴の1件
type ChatMessage struct {
	Role    string
	Content string
}
