package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/homeguard/internal/core/indexing"
)

func newChunk(ordinal int, embedding []float32) *indexing.Chunk {
	return &indexing.Chunk{
		ID:        uuid.New(),
		Ordinal:   ordinal,
		Embedding: embedding,
	}
}

// TestArenaTopKMissingProperty はインデックス未構築のプロパティが
// 空結果になることを確認します（エラーではない）
func TestArenaTopKMissingProperty(t *testing.T) {
	arena := NewIndexArena()

	chunks, err := arena.TopK(context.Background(), "unknown", []float32{1, 0}, 5)

	require.NoError(t, err)
	assert.Empty(t, chunks)
}

// TestArenaTopKRanking は類似度降順で上位 k 件が返ることを確認します
func TestArenaTopKRanking(t *testing.T) {
	arena := NewIndexArena()
	ctx := context.Background()

	index := &indexing.PropertyIndex{
		PropertyID: "prop-1",
		Chunks: []*indexing.Chunk{
			newChunk(0, []float32{0, 1}),     // 直交: 0
			newChunk(1, []float32{1, 0}),     // 同一方向: 1
			newChunk(2, []float32{0.7, 0.7}), // 斜め: 約0.707
			newChunk(3, []float32{-1, 0}),    // 逆方向: -1
		},
		Dimension: 2,
	}
	require.NoError(t, arena.Replace(ctx, index))

	scored, err := arena.TopK(ctx, "prop-1", []float32{1, 0}, 2)
	require.NoError(t, err)

	require.Len(t, scored, 2)
	assert.Equal(t, 1, scored[0].Chunk.Ordinal)
	assert.Equal(t, 2, scored[1].Chunk.Ordinal)
	assert.Greater(t, scored[0].Score, scored[1].Score)
}

// TestArenaTopKPrefixConsistency は小さい k の結果が大きい k の結果の
// 先頭部分と一致することを確認します
func TestArenaTopKPrefixConsistency(t *testing.T) {
	arena := NewIndexArena()
	ctx := context.Background()

	index := &indexing.PropertyIndex{
		PropertyID: "prop-1",
		Chunks: []*indexing.Chunk{
			newChunk(0, []float32{0.9, 0.1}),
			newChunk(1, []float32{0.1, 0.9}),
			newChunk(2, []float32{1, 0}),
			newChunk(3, []float32{0.5, 0.5}),
		},
		Dimension: 2,
	}
	require.NoError(t, arena.Replace(ctx, index))

	query := []float32{1, 0}
	full, err := arena.TopK(ctx, "prop-1", query, 4)
	require.NoError(t, err)
	require.Len(t, full, 4)

	for k := 1; k < 4; k++ {
		partial, err := arena.TopK(ctx, "prop-1", query, k)
		require.NoError(t, err)
		require.Len(t, partial, k)
		for i := range partial {
			assert.Equal(t, full[i].Chunk.ID, partial[i].Chunk.ID, "k=%d position %d", k, i)
		}
	}
}

// TestArenaTopKTieBreak は同点のチャンクがOrdinal昇順で並ぶことを確認します
func TestArenaTopKTieBreak(t *testing.T) {
	arena := NewIndexArena()
	ctx := context.Background()

	// すべて同一方向なので類似度は全チャンクで 1
	index := &indexing.PropertyIndex{
		PropertyID: "prop-1",
		Chunks: []*indexing.Chunk{
			newChunk(2, []float32{2, 0}),
			newChunk(0, []float32{1, 0}),
			newChunk(1, []float32{3, 0}),
		},
		Dimension: 2,
	}
	require.NoError(t, arena.Replace(ctx, index))

	scored, err := arena.TopK(ctx, "prop-1", []float32{1, 0}, 3)
	require.NoError(t, err)

	require.Len(t, scored, 3)
	assert.Equal(t, 0, scored[0].Chunk.Ordinal)
	assert.Equal(t, 1, scored[1].Chunk.Ordinal)
	assert.Equal(t, 2, scored[2].Chunk.Ordinal)
}

// TestArenaReplaceIsAtomic はReplace後に古いチャンクが観測されないことを確認します
func TestArenaReplaceIsAtomic(t *testing.T) {
	arena := NewIndexArena()
	ctx := context.Background()

	old := &indexing.PropertyIndex{
		PropertyID: "prop-1",
		Chunks:     []*indexing.Chunk{newChunk(0, []float32{1, 0})},
		Dimension:  2,
	}
	require.NoError(t, arena.Replace(ctx, old))

	fresh := &indexing.PropertyIndex{
		PropertyID: "prop-1",
		Chunks: []*indexing.Chunk{
			newChunk(0, []float32{0, 1}),
			newChunk(1, []float32{0, 1}),
		},
		Dimension: 2,
	}
	require.NoError(t, arena.Replace(ctx, fresh))

	current, err := arena.Get(ctx, "prop-1")
	require.NoError(t, err)
	require.True(t, current.IsPresent())
	assert.Same(t, fresh, current.MustGet())

	scored, err := arena.TopK(ctx, "prop-1", []float32{0, 1}, 10)
	require.NoError(t, err)
	assert.Len(t, scored, 2)
}

// TestArenaIsolatesProperties はプロパティ間でインデックスが
// 混ざらないことを確認します
func TestArenaIsolatesProperties(t *testing.T) {
	arena := NewIndexArena()
	ctx := context.Background()

	require.NoError(t, arena.Replace(ctx, &indexing.PropertyIndex{
		PropertyID: "prop-1",
		Chunks:     []*indexing.Chunk{newChunk(0, []float32{1, 0})},
		Dimension:  2,
	}))

	scored, err := arena.TopK(ctx, "prop-2", []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, scored)
}
