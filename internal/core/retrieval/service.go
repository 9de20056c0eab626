package retrieval

import (
	"context"
	"fmt"

	"github.com/jinford/homeguard/internal/core/indexing"
)

// Repository はベクトル検索の実装インターフェース
type Repository interface {
	// TopK はクエリベクトルに最も近い k 件のチャンクを類似度降順で返す
	// 同点はドキュメント内の出現順（Ordinal昇順）で並べる
	// インデックスが存在しないプロパティに対しては空スライスを返す
	TopK(ctx context.Context, propertyID string, queryVector []float32, k int) ([]*ScoredChunk, error)
}

// SearchService は検索のビジネスロジックを提供する
type SearchService struct {
	repo     Repository
	embedder indexing.Embedder
}

// NewSearchService は新しいSearchServiceを作成する
func NewSearchService(repo Repository, embedder indexing.Embedder) *SearchService {
	return &SearchService{
		repo:     repo,
		embedder: embedder,
	}
}

// DefaultTopK は k 未指定時の取得チャンク数
const DefaultTopK = 5

// Search はプロパティのインデックスに対してクエリの類似チャンクを検索する
// クエリはインデックス構築時と同じEmbedderでベクトル化される
func (s *SearchService) Search(ctx context.Context, propertyID, query string, k int) (*Result, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if propertyID == "" {
		return nil, fmt.Errorf("propertyID is required")
	}
	if k <= 0 {
		k = DefaultTopK
	}

	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	chunks, err := s.repo.TopK(ctx, propertyID, queryVector, k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	return &Result{
		PropertyID: propertyID,
		Query:      query,
		Chunks:     chunks,
	}, nil
}
