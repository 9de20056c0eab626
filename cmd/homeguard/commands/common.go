package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jinford/homeguard/internal/core/answer"
	"github.com/jinford/homeguard/internal/core/assistant"
	"github.com/jinford/homeguard/internal/core/indexing"
	"github.com/jinford/homeguard/internal/core/maintenance"
	"github.com/jinford/homeguard/internal/core/retrieval"
	"github.com/jinford/homeguard/internal/core/triage"
	"github.com/jinford/homeguard/internal/infra/history"
	"github.com/jinford/homeguard/internal/infra/manuals"
	"github.com/jinford/homeguard/internal/infra/memory"
	"github.com/jinford/homeguard/internal/infra/openai"
	"github.com/jinford/homeguard/internal/infra/postgres"
	"github.com/jinford/homeguard/internal/platform/logger"
	"github.com/jinford/homeguard/pkg/config"
	"github.com/jinford/homeguard/pkg/db"
)

// indexBackend はインデックスの保存と近傍検索の両方を満たすバックエンド
type indexBackend interface {
	indexing.IndexStore
	retrieval.Repository
}

// AppContext はコマンド実行に必要な共通コンテキストを保持する
type AppContext struct {
	Config    *config.Config
	Logger    *slog.Logger
	Database  *db.DB // in-memory構成の場合は nil
	Manuals   *manuals.Loader
	Indexer   *indexing.IndexService
	Assistant *assistant.Assistant

	store indexBackend
}

// NewAppContext は設定ファイルを読み込み、依存を組み立てて AppContext を作成する
// DB_HOST が未設定の場合は in-memory ストアで動作する
func NewAppContext(ctx context.Context, envFile string) (*AppContext, error) {
	// 設定の読み込み
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗: %w", err)
	}

	// ロガーの初期化（CLIの整形出力と混ざらないよう常にstderr）
	appLogger := logger.New(logger.ParseLevel(cfg.Logging.Level))

	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY が設定されていません")
	}

	// OpenAIクライアント（LLM + Embeddings）
	client, err := openai.NewClient(cfg.OpenAI.APIKey,
		openai.WithModel(cfg.OpenAI.LLMModel),
		openai.WithTimeout(cfg.OpenAI.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAIクライアントの初期化に失敗: %w", err)
	}

	embedder := openai.NewEmbedder(cfg.OpenAI.APIKey,
		openai.WithEmbeddingModel(cfg.OpenAI.EmbeddingModel),
		openai.WithEmbeddingDimension(cfg.OpenAI.EmbeddingDimension),
	)

	// ストレージバックエンドの選択
	var (
		database  *db.DB
		store     indexBackend
		incidents assistant.IncidentStore
	)
	if cfg.Database.Enabled() {
		database, err = db.New(ctx, db.ConnectionParams{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		})
		if err != nil {
			return nil, fmt.Errorf("データベース接続に失敗: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, database.Pool, cfg.OpenAI.EmbeddingDimension); err != nil {
			database.Close()
			return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
		}
		store = postgres.NewIndexRepository(database.Pool)
		incidents = postgres.NewIncidentRepository(database.Pool)
	} else {
		store = memory.NewIndexArena()
		incidents = memory.NewIncidentStore()
	}

	// コアサービスの組み立て
	chunker, err := indexing.NewChunker(
		cfg.Chunking.MinChunkChars,
		cfg.Chunking.MaxChunkChars,
		cfg.Chunking.OverlapChars,
	)
	if err != nil {
		return nil, fmt.Errorf("チャンク設定が不正: %w", err)
	}

	indexer := indexing.NewIndexService(chunker, embedder, store,
		indexing.WithIndexLogger(logger.WithComponent(appLogger, "indexing")),
	)
	search := retrieval.NewSearchService(store, embedder)

	prompts, err := answer.NewPromptBuilder()
	if err != nil {
		return nil, fmt.Errorf("プロンプトビルダーの初期化に失敗: %w", err)
	}
	composer := answer.NewComposer(client, prompts)
	fallback := answer.NewFallbackController(search, composer, cfg.Assistant.ManualThreshold,
		answer.WithFallbackLogger(logger.WithComponent(appLogger, "answer")),
		answer.WithTopK(cfg.Assistant.TopK),
	)

	classifier := triage.NewClassifier(client,
		triage.WithClassifierLogger(logger.WithComponent(appLogger, "triage")),
	)

	histStore := history.NewFileStore(cfg.Data.HistoryDir, logger.WithComponent(appLogger, "history"))
	predictor := maintenance.NewPredictorService(histStore,
		maintenance.WithPredictorLogger(logger.WithComponent(appLogger, "maintenance")),
	)

	asst := assistant.New(
		fallback,
		classifier,
		predictor,
		indexer,
		incidents,
		client,
		cfg.Assistant.IssueThreshold,
		assistant.WithAssistantLogger(logger.WithComponent(appLogger, "assistant")),
	)

	return &AppContext{
		Config:    cfg,
		Logger:    appLogger,
		Database:  database,
		Manuals:   manuals.NewLoader(cfg.Data.ManualsDir),
		Indexer:   indexer,
		Assistant: asst,
		store:     store,
	}, nil
}

// Close はAppContextが保持するリソースをクリーンアップする
func (ac *AppContext) Close() {
	if ac.Database != nil {
		ac.Database.Close()
	}
}

// EnsureIndexed はプロパティのインデックスが未構築ならマニュアルから構築する
// in-memory構成ではプロセスごとに必要になる
// マニュアルが存在しないプロパティは正常な状態として、インデックスなしで続行する
// （検索は空ヒットとなり、回答は一般知識またはエスカレーションに落ちる）
func (ac *AppContext) EnsureIndexed(ctx context.Context, propertyID string) error {
	existing, err := ac.store.Get(ctx, propertyID)
	if err != nil {
		return fmt.Errorf("インデックスの取得に失敗: %w", err)
	}
	if existing.IsPresent() {
		return nil
	}

	doc, err := ac.Manuals.Load(propertyID)
	if err != nil {
		if errors.Is(err, manuals.ErrManualNotFound) {
			ac.Logger.Info("no manual for property, proceeding without index", "propertyID", propertyID)
			return nil
		}
		return fmt.Errorf("マニュアルの読み込みに失敗: %w", err)
	}

	if err := ac.Assistant.Reindex(ctx, propertyID, doc.Text); err != nil {
		return fmt.Errorf("インデックス構築に失敗: %w", err)
	}
	return nil
}
