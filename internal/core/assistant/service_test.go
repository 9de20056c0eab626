package assistant

import (
	"context"
	"fmt"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/homeguard/internal/core/answer"
	"github.com/jinford/homeguard/internal/core/indexing"
	"github.com/jinford/homeguard/internal/core/llm"
	"github.com/jinford/homeguard/internal/core/maintenance"
	"github.com/jinford/homeguard/internal/core/retrieval"
	"github.com/jinford/homeguard/internal/core/triage"
)

// stubGenerator は回答用テキストと分類用JSONを返し分けるGenerator
type stubGenerator struct {
	completion string
	jsonResp   string
	err        error
	prompts    []string
}

func (g *stubGenerator) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.completion, nil
}

func (g *stubGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.jsonResp, nil
}

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (stubEmbedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i := range texts {
		vecs[i] = []float32{1, 0}
	}
	return vecs, nil
}

func (stubEmbedder) Dimension() int    { return 2 }
func (stubEmbedder) MaxBatchSize() int { return 100 }

type stubSearchRepo struct {
	chunks []*retrieval.ScoredChunk
}

func (r *stubSearchRepo) TopK(ctx context.Context, propertyID string, queryVector []float32, k int) ([]*retrieval.ScoredChunk, error) {
	if len(r.chunks) > k {
		return r.chunks[:k], nil
	}
	return r.chunks, nil
}

type stubIndexStore struct {
	replaced []*indexing.PropertyIndex
}

func (s *stubIndexStore) Replace(ctx context.Context, index *indexing.PropertyIndex) error {
	s.replaced = append(s.replaced, index)
	return nil
}

func (s *stubIndexStore) Get(ctx context.Context, propertyID string) (mo.Option[*indexing.PropertyIndex], error) {
	return mo.None[*indexing.PropertyIndex](), nil
}

// stubIncidentStore は作成されたインシデントを記録するIncidentStore
type stubIncidentStore struct {
	created []*Incident
}

func (s *stubIncidentStore) Create(ctx context.Context, incident *Incident) error {
	s.created = append(s.created, incident)
	return nil
}

func (s *stubIncidentStore) ListByProperty(ctx context.Context, propertyID string) ([]*Incident, error) {
	var out []*Incident
	for _, inc := range s.created {
		if inc.PropertyID == propertyID {
			out = append(out, inc)
		}
	}
	return out, nil
}

type stubHistoryStore struct {
	events []*maintenance.MaintenanceEvent
}

func (s *stubHistoryStore) History(ctx context.Context, propertyID string) ([]*maintenance.MaintenanceEvent, error) {
	return s.events, nil
}

const confidentAnswer = "Hold the reset button on the boiler front panel for three seconds and wait for the green light to come back on."

const plumbingJSON = `{
	"category": "plumbing",
	"severity": "high",
	"suggested_actions": ["Shut off the water valve", "Schedule a plumber visit"],
	"confidence": 0.9
}`

func newTestAssistant(t *testing.T, gen *stubGenerator, repo *stubSearchRepo, incidents *stubIncidentStore) *Assistant {
	t.Helper()

	prompts, err := answer.NewPromptBuilder()
	require.NoError(t, err)

	search := retrieval.NewSearchService(repo, stubEmbedder{})
	composer := answer.NewComposer(gen, prompts)
	fallback := answer.NewFallbackController(search, composer, 0.32)

	classifier := triage.NewClassifier(gen)
	predictor := maintenance.NewPredictorService(&stubHistoryStore{})

	chunker, err := indexing.NewChunker(20, 100, 10)
	require.NoError(t, err)
	indexer := indexing.NewIndexService(chunker, stubEmbedder{}, &stubIndexStore{})

	return New(fallback, classifier, predictor, indexer, incidents, gen, 0.6)
}

func groundedChunks() []*retrieval.ScoredChunk {
	return []*retrieval.ScoredChunk{
		{
			Chunk: &indexing.Chunk{Text: "The boiler reset button is behind the front panel."},
			Score: 0.88,
		},
	}
}

// TestAskQuestionGrounded はマニュアル根拠回答に出典と信頼度が
// 付くことを確認します
func TestAskQuestionGrounded(t *testing.T) {
	gen := &stubGenerator{completion: confidentAnswer}
	asst := newTestAssistant(t, gen, &stubSearchRepo{chunks: groundedChunks()}, &stubIncidentStore{})

	resp, err := asst.AskQuestion(context.Background(), "prop-1", "how do I reset the boiler?", "tenant")
	require.NoError(t, err)

	assert.Equal(t, answer.TierManualGrounded, resp.Tier)
	assert.Equal(t, confidentAnswer, resp.Answer)
	assert.False(t, resp.Unavailable)

	confidence, ok := resp.Confidence.Get()
	require.True(t, ok)
	assert.InDelta(t, 0.8, confidence, 1e-9)
}

// TestAskQuestionUnavailable はバックエンド障害がエスカレーションではなく
// Unavailable 応答になることを確認します
func TestAskQuestionUnavailable(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("%w: dial tcp: connection refused", llm.ErrModelUnavailable)}
	asst := newTestAssistant(t, gen, &stubSearchRepo{chunks: groundedChunks()}, &stubIncidentStore{})

	resp, err := asst.AskQuestion(context.Background(), "prop-1", "how do I reset the boiler?", "tenant")
	require.NoError(t, err)

	assert.True(t, resp.Unavailable)
	assert.NotEqual(t, escalationMessage, resp.Answer,
		"outage message must be distinct from escalation")
	assert.Empty(t, resp.Sources)
	assert.False(t, resp.Confidence.IsPresent())
}

// TestAskQuestionEscalates は信頼できない一般回答がエスカレーション
// 文面になることを確認します
func TestAskQuestionEscalates(t *testing.T) {
	gen := &stubGenerator{completion: "I'm not sure."}
	asst := newTestAssistant(t, gen, &stubSearchRepo{}, &stubIncidentStore{})

	resp, err := asst.AskQuestion(context.Background(), "prop-1", "what is the boiler warranty end date?", "tenant")
	require.NoError(t, err)

	assert.Equal(t, answer.TierEscalate, resp.Tier)
	assert.Equal(t, escalationMessage, resp.Answer)
	assert.Empty(t, resp.Sources)
}

// TestHandleChatQuestionPath は質問メッセージが回答フローを通ることを確認します
func TestHandleChatQuestionPath(t *testing.T) {
	gen := &stubGenerator{completion: confidentAnswer}
	incidents := &stubIncidentStore{}
	asst := newTestAssistant(t, gen, &stubSearchRepo{chunks: groundedChunks()}, incidents)

	resp, err := asst.HandleChatMessage(context.Background(), ChatParams{
		ConversationID: "conv-1",
		PropertyID:     "prop-1",
		Message:        "how do I reset the boiler?",
		UserRole:       "tenant",
	})
	require.NoError(t, err)

	assert.Equal(t, confidentAnswer, resp.Response)
	assert.False(t, resp.IncidentCreated)
	assert.Empty(t, incidents.created, "questions must not create incidents")
}

// TestHandleChatIssuePath は問題報告がトリアージされインシデントが
// 作成されることを確認します
func TestHandleChatIssuePath(t *testing.T) {
	gen := &stubGenerator{jsonResp: plumbingJSON}
	incidents := &stubIncidentStore{}
	asst := newTestAssistant(t, gen, &stubSearchRepo{}, incidents)

	resp, err := asst.HandleChatMessage(context.Background(), ChatParams{
		ConversationID: "conv-9",
		PropertyID:     "prop-1",
		Message:        "the kitchen sink is leaking badly",
		UserRole:       "tenant",
	})
	require.NoError(t, err)

	assert.True(t, resp.IncidentCreated)
	require.Len(t, incidents.created, 1)

	incident := incidents.created[0]
	assert.Equal(t, "prop-1", incident.PropertyID)
	assert.Equal(t, StatusReported, incident.Status)
	assert.Equal(t, triage.CategoryPlumbing, incident.Classification.Category)
	assert.Equal(t, "the kitchen sink is leaking badly", incident.Description)

	conversationID, ok := incident.ConversationID.Get()
	require.True(t, ok)
	assert.Equal(t, "conv-9", conversationID)

	// 応答にカテゴリと推奨アクションが含まれる
	assert.Contains(t, resp.Response, "plumbing")
	assert.Contains(t, resp.Response, "Shut off the water valve")
}

// TestHandleChatLowSignalIssue は低シグナルな報告でチケットを
// 作らないことを確認します
func TestHandleChatLowSignalIssue(t *testing.T) {
	gen := &stubGenerator{jsonResp: `{
		"category": "lighting",
		"severity": "low",
		"suggested_actions": ["Replace the bulb"],
		"confidence": 0.4
	}`}
	incidents := &stubIncidentStore{}
	asst := newTestAssistant(t, gen, &stubSearchRepo{}, incidents)

	resp, err := asst.HandleChatMessage(context.Background(), ChatParams{
		PropertyID: "prop-1",
		Message:    "the hallway light flickers sometimes",
	})
	require.NoError(t, err)

	assert.False(t, resp.IncidentCreated)
	assert.Empty(t, incidents.created)
	assert.NotEmpty(t, resp.Response)
}

// TestHandleChatValidatesInput は必須パラメータの検証を確認します
func TestHandleChatValidatesInput(t *testing.T) {
	asst := newTestAssistant(t, &stubGenerator{}, &stubSearchRepo{}, &stubIncidentStore{})

	_, err := asst.HandleChatMessage(context.Background(), ChatParams{Message: "hello"})
	assert.Error(t, err, "propertyID is required")

	_, err = asst.HandleChatMessage(context.Background(), ChatParams{PropertyID: "prop-1", Message: "   "})
	assert.Error(t, err, "blank message is rejected")
}

// TestTriageIssueWithoutProperty はプロパティ未指定のトリアージが
// 分類のみを返すことを確認します
func TestTriageIssueWithoutProperty(t *testing.T) {
	gen := &stubGenerator{jsonResp: plumbingJSON}
	incidents := &stubIncidentStore{}
	asst := newTestAssistant(t, gen, &stubSearchRepo{}, incidents)

	resp, err := asst.TriageIssue(context.Background(), "", "water is pooling under the dishwasher", mo.None[string]())
	require.NoError(t, err)

	assert.Equal(t, triage.CategoryPlumbing, resp.Classification.Category)
	assert.False(t, resp.IncidentID.IsPresent())
	assert.Empty(t, incidents.created)
}

// TestTriageIssueCreatesIncident はプロパティ指定時にインシデントが
// 発行されることを確認します
func TestTriageIssueCreatesIncident(t *testing.T) {
	gen := &stubGenerator{jsonResp: plumbingJSON}
	incidents := &stubIncidentStore{}
	asst := newTestAssistant(t, gen, &stubSearchRepo{}, incidents)

	resp, err := asst.TriageIssue(context.Background(), "prop-1", "water is pooling under the dishwasher", mo.Some("conv-2"))
	require.NoError(t, err)

	require.Len(t, incidents.created, 1)
	incidentID, ok := resp.IncidentID.Get()
	require.True(t, ok)
	assert.Equal(t, incidents.created[0].ID, incidentID)
}

// TestTriageIssueDegradedBackend はバックエンド障害時でも
// インシデントが作成できることを確認します
func TestTriageIssueDegradedBackend(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("%w: timeout", llm.ErrModelUnavailable)}
	incidents := &stubIncidentStore{}
	asst := newTestAssistant(t, gen, &stubSearchRepo{}, incidents)

	resp, err := asst.TriageIssue(context.Background(), "prop-1", "urgent: the toilet is leaking", mo.None[string]())
	require.NoError(t, err)

	// キーワード分類に縮退してもチケットは発行される
	assert.Equal(t, triage.CategoryPlumbing, resp.Classification.Category)
	assert.True(t, resp.IncidentID.IsPresent())
	assert.Len(t, incidents.created, 1)
}

// TestSuggestReplyUsesRecentMessages は返信提案が直近5件のみを
// 使うことを確認します
func TestSuggestReplyUsesRecentMessages(t *testing.T) {
	gen := &stubGenerator{completion: "Thanks for flagging this. I'll send a plumber tomorrow morning."}
	asst := newTestAssistant(t, gen, &stubSearchRepo{}, &stubIncidentStore{})

	messages := []ChatMessage{
		{Role: "tenant", Content: "oldest message about the garden"},
		{Role: "landlord", Content: "second message"},
		{Role: "tenant", Content: "third message"},
		{Role: "landlord", Content: "fourth message"},
		{Role: "tenant", Content: "fifth message"},
		{Role: "landlord", Content: "sixth message"},
		{Role: "tenant", Content: "the sink is leaking again"},
	}

	reply, err := asst.SuggestReply(context.Background(), messages, "friendly")
	require.NoError(t, err)
	assert.NotEmpty(t, reply)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "the sink is leaking again")
	assert.Contains(t, gen.prompts[0], "friendly")
	assert.NotContains(t, gen.prompts[0], "oldest message about the garden")
	assert.NotContains(t, gen.prompts[0], "second message")
}
