package retrieval

import (
	"math"

	"github.com/jinford/homeguard/internal/core/indexing"
)

// ScoredChunk は検索でヒットしたチャンクと類似度スコアの組
type ScoredChunk struct {
	Chunk *indexing.Chunk
	Score float64
}

// Result は類似度降順の検索結果を表す
// インデックス未構築のプロパティに対しては空の結果になる（エラーではない）
type Result struct {
	PropertyID string
	Query      string
	Chunks     []*ScoredChunk
}

// IsEmpty は検索結果が空かどうかを返す
func (r *Result) IsEmpty() bool {
	return r == nil || len(r.Chunks) == 0
}

// TopScore は最上位の類似度を返す（空なら 0）
func (r *Result) TopScore() float64 {
	if r.IsEmpty() {
		return 0
	}
	return r.Chunks[0].Score
}

// CosineSimilarity は2ベクトルのコサイン類似度を計算する
// 次元が異なる場合やゼロベクトルの場合は 0 を返す
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
