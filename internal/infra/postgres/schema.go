package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema はチャンク・インシデント永続化に必要なテーブルを作成する
// pgvector拡張が有効であることを前提とする
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, embeddingDimension int) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS property_chunks (
			id UUID PRIMARY KEY,
			property_id TEXT NOT NULL,
			ordinal INTEGER NOT NULL,
			start_offset INTEGER NOT NULL,
			end_offset INTEGER NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			built_at TIMESTAMPTZ NOT NULL
		)`, embeddingDimension),
		`CREATE INDEX IF NOT EXISTS idx_property_chunks_property ON property_chunks (property_id, ordinal)`,
		`CREATE TABLE IF NOT EXISTS incidents (
			id UUID PRIMARY KEY,
			property_id TEXT NOT NULL,
			asset_id TEXT,
			conversation_id TEXT,
			category TEXT NOT NULL,
			severity TEXT NOT NULL,
			suggested_actions TEXT[] NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			description TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			resolved_at TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_incidents_property ON incidents (property_id, created_at DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
