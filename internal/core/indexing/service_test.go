package indexing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder はテスト用の決定的なEmbedder
// テキスト長に応じたベクトルを返し、バッチ呼び出しを記録する
type stubEmbedder struct {
	batchSize  int
	batchCalls [][]string
	err        error
}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.BatchEmbed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *stubEmbedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.batchCalls = append(e.batchCalls, texts)
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		vecs[i] = []float32{float32(len(text)), 1, 0}
	}
	return vecs, nil
}

func (e *stubEmbedder) Dimension() int { return 3 }

func (e *stubEmbedder) MaxBatchSize() int {
	if e.batchSize > 0 {
		return e.batchSize
	}
	return 100
}

// stubIndexStore はReplace呼び出しを記録するIndexStore
type stubIndexStore struct {
	replaced   []*PropertyIndex
	replaceErr error
}

func (s *stubIndexStore) Replace(ctx context.Context, index *PropertyIndex) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.replaced = append(s.replaced, index)
	return nil
}

func (s *stubIndexStore) Get(ctx context.Context, propertyID string) (mo.Option[*PropertyIndex], error) {
	for i := len(s.replaced) - 1; i >= 0; i-- {
		if s.replaced[i].PropertyID == propertyID {
			return mo.Some(s.replaced[i]), nil
		}
	}
	return mo.None[*PropertyIndex](), nil
}

func newTestService(t *testing.T, embedder *stubEmbedder, store *stubIndexStore) *IndexService {
	t.Helper()

	chunker, err := NewChunker(20, 100, 10)
	require.NoError(t, err)

	return NewIndexService(chunker, embedder, store)
}

// TestBuildIndexEmptyDocument は空ドキュメントがErrEmptyDocumentになり
// ストアが変更されないことを確認します
func TestBuildIndexEmptyDocument(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "空文字列", text: ""},
		{name: "空白のみ", text: "   \n\t  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubIndexStore{}
			svc := newTestService(t, &stubEmbedder{}, store)

			_, err := svc.BuildIndex(context.Background(), "prop-1", tt.text)

			assert.ErrorIs(t, err, ErrEmptyDocument)
			assert.Empty(t, store.replaced, "store must not be touched for empty documents")
		})
	}
}

// TestBuildIndexRequiresPropertyID はプロパティID未指定を拒否することを確認します
func TestBuildIndexRequiresPropertyID(t *testing.T) {
	svc := newTestService(t, &stubEmbedder{}, &stubIndexStore{})

	_, err := svc.BuildIndex(context.Background(), "", "some manual text")
	assert.Error(t, err)
}

// TestBuildIndexAssignsOrdinals はチャンクに通し番号と埋め込みが付くことを確認します
func TestBuildIndexAssignsOrdinals(t *testing.T) {
	embedder := &stubEmbedder{}
	store := &stubIndexStore{}
	svc := newTestService(t, embedder, store)

	text := strings.Repeat("Replace the air filter every three months. ", 10)
	index, err := svc.BuildIndex(context.Background(), "prop-1", text)
	require.NoError(t, err)

	require.Greater(t, index.ChunkCount(), 1)
	assert.Equal(t, 3, index.Dimension)

	seen := make(map[string]bool)
	for i, chunk := range index.Chunks {
		assert.Equal(t, i, chunk.Ordinal)
		assert.Equal(t, "prop-1", chunk.PropertyID)
		assert.Len(t, chunk.Embedding, 3)
		assert.False(t, seen[chunk.ID.String()], "chunk IDs must be unique")
		seen[chunk.ID.String()] = true
	}

	// 完成したインデックスが1回だけ公開される
	require.Len(t, store.replaced, 1)
	assert.Same(t, index, store.replaced[0])
}

// TestBuildIndexBatchesEmbeddings はEmbedderのバッチ上限が守られることを確認します
func TestBuildIndexBatchesEmbeddings(t *testing.T) {
	embedder := &stubEmbedder{batchSize: 2}
	store := &stubIndexStore{}
	svc := newTestService(t, embedder, store)

	var sb strings.Builder
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&sb, "Section %d describes the appliance in detail. ", i)
	}

	index, err := svc.BuildIndex(context.Background(), "prop-1", sb.String())
	require.NoError(t, err)

	total := 0
	for _, call := range embedder.batchCalls {
		assert.LessOrEqual(t, len(call), 2, "batch size limit exceeded")
		total += len(call)
	}
	assert.Equal(t, index.ChunkCount(), total)
}

// TestBuildIndexEmbedderFailure はEmbedding失敗時にインデックスが
// 公開されないことを確認します
func TestBuildIndexEmbedderFailure(t *testing.T) {
	embedder := &stubEmbedder{err: errors.New("embedding backend down")}
	store := &stubIndexStore{}
	svc := newTestService(t, embedder, store)

	_, err := svc.BuildIndex(context.Background(), "prop-1", "The dishwasher manual covers maintenance.")

	assert.Error(t, err)
	assert.Empty(t, store.replaced)
}

// TestBuildIndexReplacesPreviousIndex は再構築で旧インデックスが
// 丸ごと置き換わることを確認します
func TestBuildIndexReplacesPreviousIndex(t *testing.T) {
	embedder := &stubEmbedder{}
	store := &stubIndexStore{}
	svc := newTestService(t, embedder, store)

	ctx := context.Background()

	_, err := svc.BuildIndex(ctx, "prop-1", "First revision of the manual text goes here.")
	require.NoError(t, err)

	second, err := svc.BuildIndex(ctx, "prop-1", "Second revision with completely different contents.")
	require.NoError(t, err)

	current, err := store.Get(ctx, "prop-1")
	require.NoError(t, err)
	require.True(t, current.IsPresent())
	assert.Same(t, second, current.MustGet())
}
