package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/jinford/homeguard/internal/core/answer"
	"github.com/jinford/homeguard/internal/core/indexing"
	"github.com/jinford/homeguard/internal/core/llm"
	"github.com/jinford/homeguard/internal/core/maintenance"
	"github.com/jinford/homeguard/internal/core/triage"
)

const (
	// escalationMessage はエスカレーション確定時にテナントへ返す文面
	escalationMessage = "I don't have specific information about that, so I'll flag this question for your landlord. They'll get back to you with the exact answer."

	// unavailableMessage はバックエンド障害時の文面
	// エスカレーションとは異なり、人間への引き継ぎを約束しない
	unavailableMessage = "The assistant is temporarily unavailable right now. Please try again in a few minutes."

	groundedConfidence = 0.8
	generalConfidence  = 0.3
)

// Assistant はテナントメッセージ処理の入口となるファサード
// 質問は FallbackController へ、問題報告は Classifier へ振り分ける
type Assistant struct {
	fallback   *answer.FallbackController
	classifier *triage.Classifier
	predictor  *maintenance.PredictorService
	indexer    *indexing.IndexService
	incidents  IncidentStore
	generator  llm.Generator

	// issueThreshold はインシデント作成に必要な分類信頼度
	issueThreshold float64
	logger         *slog.Logger
	now            func() time.Time
}

type AssistantOption func(*Assistant)

// WithAssistantLogger は Assistant にロガーを設定する
func WithAssistantLogger(logger *slog.Logger) AssistantOption {
	return func(a *Assistant) {
		a.logger = logger
	}
}

// WithAssistantClock は現在時刻の取得関数を差し替える
func WithAssistantClock(now func() time.Time) AssistantOption {
	return func(a *Assistant) {
		a.now = now
	}
}

// New は新しいAssistantを作成する
func New(
	fallback *answer.FallbackController,
	classifier *triage.Classifier,
	predictor *maintenance.PredictorService,
	indexer *indexing.IndexService,
	incidents IncidentStore,
	generator llm.Generator,
	issueThreshold float64,
	opts ...AssistantOption,
) *Assistant {
	a := &Assistant{
		fallback:       fallback,
		classifier:     classifier,
		predictor:      predictor,
		indexer:        indexer,
		incidents:      incidents,
		generator:      generator,
		issueThreshold: issueThreshold,
		logger:         slog.Default(),
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.now == nil {
		a.now = time.Now
	}

	return a
}

// AskQuestion は質問に対して3段階フォールバックで回答する
// バックエンド障害はエスカレーションと区別された Unavailable 応答になる
func (a *Assistant) AskQuestion(ctx context.Context, propertyID, question, userRole string) (*AskResponse, error) {
	decision, err := a.fallback.Answer(ctx, propertyID, question)
	if err != nil {
		if errors.Is(err, llm.ErrModelUnavailable) {
			a.logger.Warn("model backend unavailable", "propertyID", propertyID, "error", err)
			return &AskResponse{
				Answer:      unavailableMessage,
				Sources:     []string{},
				Unavailable: true,
			}, nil
		}
		return nil, err
	}

	switch decision.Tier {
	case answer.TierManualGrounded:
		return &AskResponse{
			Answer:     decision.Answer,
			Sources:    decision.Sources,
			Confidence: mo.Some(groundedConfidence),
			Tier:       decision.Tier,
		}, nil
	case answer.TierGeneralKnowledge:
		return &AskResponse{
			Answer:     decision.Answer,
			Sources:    []string{},
			Confidence: mo.Some(generalConfidence),
			Tier:       decision.Tier,
		}, nil
	default:
		return &AskResponse{
			Answer:  escalationMessage,
			Sources: []string{},
			Tier:    answer.TierEscalate,
		}, nil
	}
}

// HandleChatMessage は受信メッセージを質問・問題報告に振り分けて処理する
func (a *Assistant) HandleChatMessage(ctx context.Context, params ChatParams) (*ChatResponse, error) {
	if params.PropertyID == "" {
		return nil, fmt.Errorf("propertyID is required")
	}
	if strings.TrimSpace(params.Message) == "" {
		return nil, fmt.Errorf("message is required")
	}

	kind := routeMessage(params.Message)
	a.logger.Info("message routed",
		"conversationID", params.ConversationID,
		"propertyID", params.PropertyID,
		"kind", kind,
	)

	if kind == KindQuestion {
		ask, err := a.AskQuestion(ctx, params.PropertyID, params.Message, params.UserRole)
		if err != nil {
			return nil, err
		}
		return &ChatResponse{
			Response:    ask.Answer,
			Sources:     ask.Sources,
			Incident:    mo.None[*Incident](),
			Unavailable: ask.Unavailable,
		}, nil
	}

	classification := a.classifier.Classify(ctx, params.Message)

	// 低シグナルな報告ではチケットを作らない（スパム防止）
	if classification.Severity == triage.SeverityLow && classification.Confidence < a.issueThreshold {
		a.logger.Info("low-signal issue, no incident created",
			"propertyID", params.PropertyID,
			"category", classification.Category,
			"confidence", classification.Confidence,
		)
		return &ChatResponse{
			Response: "Thanks for letting me know. It doesn't look urgent, but if it keeps happening, send me more details and I'll raise a ticket for your landlord.",
			Sources:  []string{},
			Incident: mo.None[*Incident](),
		}, nil
	}

	incident, err := a.createIncident(ctx, params.PropertyID, params.Message, classification, conversationOption(params.ConversationID))
	if err != nil {
		return nil, err
	}

	return &ChatResponse{
		Response:        formatIncidentAck(classification),
		Sources:         []string{},
		IncidentCreated: true,
		Incident:        mo.Some(incident),
	}, nil
}

// TriageIssue は大家起点の手動トリアージを実行する
// ルーターの質問/報告ゲートを通さず、常に分類しインシデントを発行する
func (a *Assistant) TriageIssue(ctx context.Context, propertyID, description string, conversationID mo.Option[string]) (*TriageResponse, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("description is required")
	}

	classification := a.classifier.Classify(ctx, description)

	resp := &TriageResponse{
		Classification: classification,
		IncidentID:     mo.None[uuid.UUID](),
	}

	if propertyID != "" {
		incident, err := a.createIncident(ctx, propertyID, description, classification, conversationID)
		if err != nil {
			return nil, err
		}
		resp.IncidentID = mo.Some(incident.ID)
	}

	return resp, nil
}

// MaintenancePredictions はプロパティの全資産の予測を返す
// 履歴2件未満の資産は黙って除外される
func (a *Assistant) MaintenancePredictions(ctx context.Context, propertyID string) ([]*maintenance.MaintenancePrediction, error) {
	return a.predictor.PredictAll(ctx, propertyID)
}

// Reindex はマニュアル変更時にプロパティのインデックスを再構築する
// 空ドキュメントの場合は既存インデックスを保持したままエラーを返す
func (a *Assistant) Reindex(ctx context.Context, propertyID, rawText string) error {
	_, err := a.indexer.BuildIndex(ctx, propertyID, rawText)
	if err != nil {
		if errors.Is(err, indexing.ErrEmptyDocument) {
			a.logger.Warn("reindex skipped: empty document, previous index retained", "propertyID", propertyID)
		}
		return err
	}
	return nil
}

// Incidents はプロパティのインシデント一覧を返す
func (a *Assistant) Incidents(ctx context.Context, propertyID string) ([]*Incident, error) {
	return a.incidents.ListByProperty(ctx, propertyID)
}

// SuggestReply は会話履歴から大家向けの返信案を生成する
func (a *Assistant) SuggestReply(ctx context.Context, messages []ChatMessage, tone string) (string, error) {
	if tone == "" {
		tone = "professional"
	}

	// 直近5件だけをコンテキストに使う
	if len(messages) > 5 {
		messages = messages[len(messages)-5:]
	}

	var sb strings.Builder
	for _, msg := range messages {
		role := msg.Role
		if role == "" {
			role = "user"
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n", role, msg.Content))
	}

	prompt := fmt.Sprintf(`You are a property manager assistant. Generate a %s reply based on this conversation:

%s
Generate a brief, %s reply (2-3 sentences max). Be helpful and clear:`, tone, sb.String(), tone)

	reply, err := a.generator.GenerateCompletion(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate reply suggestion: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

func (a *Assistant) createIncident(
	ctx context.Context,
	propertyID, description string,
	classification *triage.IncidentClassification,
	conversationID mo.Option[string],
) (*Incident, error) {
	incident := &Incident{
		ID:             uuid.New(),
		PropertyID:     propertyID,
		AssetID:        mo.None[string](),
		ConversationID: conversationID,
		Classification: classification,
		Description:    description,
		Status:         StatusReported,
		CreatedAt:      a.now(),
	}

	if err := a.incidents.Create(ctx, incident); err != nil {
		return nil, fmt.Errorf("failed to create incident: %w", err)
	}

	a.logger.Info("incident created",
		"incidentID", incident.ID.String(),
		"propertyID", propertyID,
		"category", classification.Category,
		"severity", classification.Severity.String(),
	)

	return incident, nil
}

// formatIncidentAck はチケット作成をテナントに伝える文面を組み立てる
func formatIncidentAck(c *triage.IncidentClassification) string {
	var sb strings.Builder
	sb.WriteString("I've analyzed your issue and created a maintenance ticket.\n\n")
	sb.WriteString(fmt.Sprintf("Category: %s\n", c.Category))
	sb.WriteString(fmt.Sprintf("Severity: %s\n\n", c.Severity))
	sb.WriteString("Suggested actions:\n")
	for _, action := range c.SuggestedActions {
		sb.WriteString("- " + action + "\n")
	}
	sb.WriteString("\nThe landlord will review this and get back to you with scheduling options.")
	return sb.String()
}

func conversationOption(conversationID string) mo.Option[string] {
	if conversationID == "" {
		return mo.None[string]()
	}
	return mo.Some(conversationID)
}
