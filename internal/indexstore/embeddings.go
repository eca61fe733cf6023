package indexstore

import (
	"context"
	"fmt"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/symstore"
)

// UpsertEmbedding stores a symbol's semantic vector in the optional
// embedding column backing `semantic_search_with_context` (spec §4.I,
// internal/embedder). Indexes with no embedder configured never call
// this and the column stays null.
func (s *Store) UpsertEmbedding(ctx context.Context, symbolID ids.SymbolId, vector pgvector.Vector) error {
	_, err := s.pool.Exec(ctx, `UPDATE symbols SET embedding = $2 WHERE id = $1`, symbolID, vector)
	if err != nil {
		return fmt.Errorf("indexstore: upsert embedding for symbol %d: %w", symbolID, err)
	}
	return nil
}

// NearestByEmbedding returns the limit symbols whose embedding is
// closest to query by cosine distance, restricted to rows that have an
// embedding at all.
func (s *Store) NearestByEmbedding(ctx context.Context, query pgvector.Vector, limit int) ([]symstore.Symbol, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+symbolColumns+`
		FROM symbols
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("indexstore: nearest by embedding: %w", err)
	}
	defer rows.Close()
	return collectSymbols(rows)
}
