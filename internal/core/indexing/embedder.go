package indexing

import "context"

// Embedder はテキストのEmbedding生成インターフェース
// 同一テキストからは同一ベクトルが返ることを前提とする（インデックスの
// 再構築を冪等にし、クエリとインデックスのEmbedding空間を一致させるため）
type Embedder interface {
	// Embed は単一テキストのEmbeddingを生成する
	Embed(ctx context.Context, text string) ([]float32, error)
	// BatchEmbed は複数テキストのEmbeddingをまとめて生成する
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension はベクトル次元数を返す
	Dimension() int
	// MaxBatchSize はBatchEmbedに渡せる最大テキスト数を返す
	MaxBatchSize() int
}
