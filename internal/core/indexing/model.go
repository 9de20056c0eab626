package indexing

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrEmptyDocument は空のドキュメントでインデックス構築を試みた場合のエラー
	// 呼び出し側は既存のインデックスを保持しなければならない
	ErrEmptyDocument = errors.New("document is empty or whitespace only")
)

// PropertyDocument は1プロパティ分の生マニュアルテキストを表す
// ロード後は不変で、再ロード時に丸ごと置き換えられる
type PropertyDocument struct {
	PropertyID string
	Text       string
	LoadedAt   time.Time
}

// Chunk はマニュアルの連続した断片を表す
// 作成後は不変。オフセットはルーン単位
type Chunk struct {
	ID          uuid.UUID
	PropertyID  string
	Ordinal     int
	StartOffset int
	EndOffset   int
	Text        string
	Embedding   []float32
}

// PropertyIndex は1プロパティ分のチャンク集合とそのEmbeddingを保持する
// 完全に構築された状態でのみ公開される（部分的なインデックスは存在しない）
type PropertyIndex struct {
	PropertyID string
	Chunks     []*Chunk
	Dimension  int
	BuiltAt    time.Time
}

// ChunkCount はインデックス内のチャンク数を返す
func (idx *PropertyIndex) ChunkCount() int {
	if idx == nil {
		return 0
	}
	return len(idx.Chunks)
}
