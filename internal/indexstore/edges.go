package indexstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/symstore"
)

const edgeBatchSize = 500

const upsertEdgeSQL = `
INSERT INTO edges (from_symbol, to_symbol, kind, metadata)
VALUES ($1, $2, $3, $4)
ON CONFLICT (from_symbol, to_symbol, kind) DO UPDATE SET metadata = $4
`

// UpsertEdgesBatch persists resolved edges in pipelined batches.
func (s *Store) UpsertEdgesBatch(ctx context.Context, edges []symstore.Edge) error {
	for start := 0; start < len(edges); start += edgeBatchSize {
		end := min(start+edgeBatchSize, len(edges))

		batch := &pgx.Batch{}
		for i := start; i < end; i++ {
			e := edges[i]
			batch.Queue(upsertEdgeSQL, e.From, e.To, string(e.Kind), e.Metadata)
		}

		results := s.pool.SendBatch(ctx, batch)
		for i := start; i < end; i++ {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("indexstore: upsert edge %d: %w", i, err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("indexstore: close edge batch: %w", err)
		}
	}
	return nil
}

func scanEdge(row pgx.Row) (symstore.Edge, error) {
	var e symstore.Edge
	var kind string
	if err := row.Scan(&e.From, &e.To, &kind, &e.Metadata); err != nil {
		return symstore.Edge{}, err
	}
	e.Kind = symstore.EdgeKind(kind)
	return e, nil
}

// CallersOf returns every edge of kind EdgeCalls pointing at to —
// spec §4.I reverse lookup `callers_of`.
func (s *Store) CallersOf(ctx context.Context, to ids.SymbolId) ([]symstore.Edge, error) {
	return s.edgesTo(ctx, to, symstore.EdgeCalls)
}

// ImplsOf returns every edge of kind EdgeImplements pointing at to —
// spec §4.I reverse lookup `impls_of` (concrete types implementing an
// interface/trait).
func (s *Store) ImplsOf(ctx context.Context, to ids.SymbolId) ([]symstore.Edge, error) {
	return s.edgesTo(ctx, to, symstore.EdgeImplements)
}

// ImplementersOf is an alias for ImplsOf kept for spec-name parity with
// `implementers_of`.
func (s *Store) ImplementersOf(ctx context.Context, to ids.SymbolId) ([]symstore.Edge, error) {
	return s.ImplsOf(ctx, to)
}

func (s *Store) edgesTo(ctx context.Context, to ids.SymbolId, kind symstore.EdgeKind) ([]symstore.Edge, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT from_symbol, to_symbol, kind, metadata
		FROM edges WHERE to_symbol = $1 AND kind = $2
	`, to, string(kind))
	if err != nil {
		return nil, fmt.Errorf("indexstore: edges to %d kind %s: %w", to, kind, err)
	}
	defer rows.Close()

	var out []symstore.Edge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("indexstore: scan edge: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// EdgesFrom returns every outgoing edge of kind from a symbol — used by
// rpc.Service to list a symbol's outgoing calls.
func (s *Store) EdgesFrom(ctx context.Context, from ids.SymbolId, kind symstore.EdgeKind) ([]symstore.Edge, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT from_symbol, to_symbol, kind, metadata
		FROM edges WHERE from_symbol = $1 AND kind = $2
	`, from, string(kind))
	if err != nil {
		return nil, fmt.Errorf("indexstore: edges from %d kind %s: %w", from, kind, err)
	}
	defer rows.Close()

	var out []symstore.Edge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("indexstore: scan edge: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
