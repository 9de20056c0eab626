package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/samber/mo"

	"github.com/jinford/homeguard/internal/core/indexing"
	"github.com/jinford/homeguard/internal/core/retrieval"
)

// IndexArena はプロパティIDをキーとするインメモリのインデックス置き場
// 公開はポインタ差し替えなので、読み手は常に完全なインデックスだけを観測する
type IndexArena struct {
	mu      sync.RWMutex
	indexes map[string]*indexing.PropertyIndex
}

// NewIndexArena は新しいIndexArenaを作成する
func NewIndexArena() *IndexArena {
	return &IndexArena{
		indexes: make(map[string]*indexing.PropertyIndex),
	}
}

// Replace は構築済みインデックスをアトミックに差し替える
func (a *IndexArena) Replace(ctx context.Context, index *indexing.PropertyIndex) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.indexes[index.PropertyID] = index
	return nil
}

// Get はプロパティのインデックスを返す（未構築なら None）
func (a *IndexArena) Get(ctx context.Context, propertyID string) (mo.Option[*indexing.PropertyIndex], error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	index, ok := a.indexes[propertyID]
	if !ok {
		return mo.None[*indexing.PropertyIndex](), nil
	}
	return mo.Some(index), nil
}

// TopK はコサイン類似度の上位 k 件を返す
// 同点はドキュメント内の出現順（Ordinal昇順）で安定に並ぶ
// インデックスがないプロパティには空スライスを返す（エラーではない）
func (a *IndexArena) TopK(ctx context.Context, propertyID string, queryVector []float32, k int) ([]*retrieval.ScoredChunk, error) {
	a.mu.RLock()
	index, ok := a.indexes[propertyID]
	a.mu.RUnlock()

	if !ok {
		return nil, nil
	}

	scored := make([]*retrieval.ScoredChunk, 0, len(index.Chunks))
	for _, chunk := range index.Chunks {
		scored = append(scored, &retrieval.ScoredChunk{
			Chunk: chunk,
			Score: retrieval.CosineSimilarity(queryVector, chunk.Embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Chunk.Ordinal < scored[j].Chunk.Ordinal
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

var (
	_ indexing.IndexStore  = (*IndexArena)(nil)
	_ retrieval.Repository = (*IndexArena)(nil)
)
