package indexing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"
)

// IndexStore はプロパティごとのインデックス公開先インターフェース
type IndexStore interface {
	// Replace は構築済みインデックスをアトミックに差し替える
	// 読み手が部分的なインデックスを観測することはない
	Replace(ctx context.Context, index *PropertyIndex) error
	// Get はプロパティのインデックスを返す（未構築なら None）
	Get(ctx context.Context, propertyID string) (mo.Option[*PropertyIndex], error)
}

// IndexService はマニュアルのチャンク化・Embedding・インデックス公開を担う
type IndexService struct {
	chunker  *Chunker
	embedder Embedder
	store    IndexStore
	logger   *slog.Logger

	// プロパティ単位の構築ロック（同一プロパティの再構築は同時に1つ）
	mu       sync.Mutex
	building map[string]*sync.Mutex
}

type IndexServiceOption func(*IndexService)

// WithIndexLogger は IndexService にロガーを設定する
func WithIndexLogger(logger *slog.Logger) IndexServiceOption {
	return func(s *IndexService) {
		s.logger = logger
	}
}

// NewIndexService は新しいIndexServiceを作成する
func NewIndexService(chunker *Chunker, embedder Embedder, store IndexStore, opts ...IndexServiceOption) *IndexService {
	svc := &IndexService{
		chunker:  chunker,
		embedder: embedder,
		store:    store,
		logger:   slog.Default(),
		building: make(map[string]*sync.Mutex),
	}

	for _, opt := range opts {
		opt(svc)
	}

	if svc.logger == nil {
		svc.logger = slog.Default()
	}

	return svc
}

// BuildIndex はマニュアルテキストからプロパティのインデックスを構築し公開する
// 空のドキュメントは ErrEmptyDocument を返し、既存インデックスは保持される
func (s *IndexService) BuildIndex(ctx context.Context, propertyID, rawText string) (*PropertyIndex, error) {
	if propertyID == "" {
		return nil, fmt.Errorf("propertyID is required")
	}
	if strings.TrimSpace(rawText) == "" {
		return nil, fmt.Errorf("property %s: %w", propertyID, ErrEmptyDocument)
	}

	lock := s.buildLock(propertyID)
	lock.Lock()
	defer lock.Unlock()

	spans := s.chunker.Split(rawText)

	texts := make([]string, len(spans))
	for i, span := range spans {
		texts[i] = span.Text
	}

	embeddings, err := s.embedAll(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks for property %s: %w", propertyID, err)
	}

	chunks := make([]*Chunk, len(spans))
	for i, span := range spans {
		chunks[i] = &Chunk{
			ID:          uuid.New(),
			PropertyID:  propertyID,
			Ordinal:     i,
			StartOffset: span.Start,
			EndOffset:   span.End,
			Text:        span.Text,
			Embedding:   embeddings[i],
		}
	}

	index := &PropertyIndex{
		PropertyID: propertyID,
		Chunks:     chunks,
		Dimension:  s.embedder.Dimension(),
		BuiltAt:    time.Now(),
	}

	// 完成したインデックスのみを公開する
	if err := s.store.Replace(ctx, index); err != nil {
		return nil, fmt.Errorf("failed to publish index for property %s: %w", propertyID, err)
	}

	s.logger.Info("property index built",
		"propertyID", propertyID,
		"chunks", len(chunks),
		"dimension", index.Dimension,
	)

	return index, nil
}

// embedAll はEmbedderのバッチ上限を守りながら全チャンクをEmbeddingする
func (s *IndexService) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	batchSize := s.embedder.MaxBatchSize()
	if batchSize <= 0 {
		batchSize = 1
	}

	embeddings := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := s.embedder.BatchEmbed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(batch), end-start)
		}
		embeddings = append(embeddings, batch...)
	}
	return embeddings, nil
}

func (s *IndexService) buildLock(propertyID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.building[propertyID]
	if !ok {
		lock = &sync.Mutex{}
		s.building[propertyID] = lock
	}
	return lock
}
