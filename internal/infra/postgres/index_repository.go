package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/samber/mo"

	"github.com/jinford/homeguard/internal/core/indexing"
	"github.com/jinford/homeguard/internal/core/retrieval"
)

// IndexRepository はチャンクとEmbeddingをPostgreSQL(pgvector)に永続化する
// indexing.IndexStore と retrieval.Repository の両方を実装し、
// インメモリのIndexArenaと差し替え可能
type IndexRepository struct {
	pool *pgxpool.Pool
}

// NewIndexRepository は新しいIndexRepositoryを作成する
func NewIndexRepository(pool *pgxpool.Pool) *IndexRepository {
	return &IndexRepository{pool: pool}
}

// Replace はプロパティの全チャンクをトランザクション内で差し替える
// コミットまで旧チャンクが見え続けるため、読み手が部分的なインデックスを
// 観測することはない
func (r *IndexRepository) Replace(ctx context.Context, index *indexing.PropertyIndex) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM property_chunks WHERE property_id = $1`, index.PropertyID); err != nil {
		return fmt.Errorf("failed to delete previous chunks: %w", err)
	}

	for _, chunk := range index.Chunks {
		_, err := tx.Exec(ctx, `
			INSERT INTO property_chunks (id, property_id, ordinal, start_offset, end_offset, content, embedding, built_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			chunk.ID,
			chunk.PropertyID,
			chunk.Ordinal,
			chunk.StartOffset,
			chunk.EndOffset,
			chunk.Text,
			pgvector.NewVector(chunk.Embedding),
			index.BuiltAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit index replace: %w", err)
	}
	return nil
}

// Get はプロパティの全チャンクからインデックスを復元する（未構築なら None）
func (r *IndexRepository) Get(ctx context.Context, propertyID string) (mo.Option[*indexing.PropertyIndex], error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, ordinal, start_offset, end_offset, content, embedding, built_at
		FROM property_chunks
		WHERE property_id = $1
		ORDER BY ordinal`, propertyID)
	if err != nil {
		return mo.None[*indexing.PropertyIndex](), fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	index := &indexing.PropertyIndex{PropertyID: propertyID}
	for rows.Next() {
		var (
			id        uuid.UUID
			chunk     indexing.Chunk
			embedding pgvector.Vector
		)
		if err := rows.Scan(&id, &chunk.Ordinal, &chunk.StartOffset, &chunk.EndOffset, &chunk.Text, &embedding, &index.BuiltAt); err != nil {
			return mo.None[*indexing.PropertyIndex](), fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunk.ID = id
		chunk.PropertyID = propertyID
		chunk.Embedding = embedding.Slice()
		index.Chunks = append(index.Chunks, &chunk)
	}
	if err := rows.Err(); err != nil {
		return mo.None[*indexing.PropertyIndex](), fmt.Errorf("failed to read chunks: %w", err)
	}

	if len(index.Chunks) == 0 {
		return mo.None[*indexing.PropertyIndex](), nil
	}
	index.Dimension = len(index.Chunks[0].Embedding)
	return mo.Some(index), nil
}

// TopK はpgvectorのコサイン距離で上位 k 件を返す
// 同点はドキュメント内の出現順（ordinal昇順）で並ぶ
func (r *IndexRepository) TopK(ctx context.Context, propertyID string, queryVector []float32, k int) ([]*retrieval.ScoredChunk, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, ordinal, start_offset, end_offset, content, embedding,
		       1 - (embedding <=> $2) AS score
		FROM property_chunks
		WHERE property_id = $1
		ORDER BY score DESC, ordinal ASC
		LIMIT $3`,
		propertyID, pgvector.NewVector(queryVector), k)
	if err != nil {
		return nil, fmt.Errorf("failed to run vector search: %w", err)
	}
	defer rows.Close()

	var results []*retrieval.ScoredChunk
	for rows.Next() {
		var (
			chunk     indexing.Chunk
			embedding pgvector.Vector
			score     float64
		)
		if err := rows.Scan(&chunk.ID, &chunk.Ordinal, &chunk.StartOffset, &chunk.EndOffset, &chunk.Text, &embedding, &score); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		chunk.PropertyID = propertyID
		chunk.Embedding = embedding.Slice()
		results = append(results, &retrieval.ScoredChunk{Chunk: &chunk, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read search rows: %w", err)
	}
	return results, nil
}

var (
	_ indexing.IndexStore  = (*IndexRepository)(nil)
	_ retrieval.Repository = (*IndexRepository)(nil)
)
