package graphsync

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/latticecode/lattice/internal/symstore"
)

// batchSize caps how many nodes/edges ride in a single UNWIND, matching
// the teacher's graph.sync.go batching.
const batchSize = 500

// SyncFiles upserts File nodes.
func (c *Client) SyncFiles(ctx context.Context, files []symstore.File) error {
	session := c.session(ctx)
	defer session.Close(ctx)

	for start := 0; start < len(files); start += batchSize {
		end := min(start+batchSize, len(files))
		batch := files[start:end]

		params := make([]map[string]any, len(batch))
		for i, f := range batch {
			params[i] = map[string]any{
				"id":       f.ID,
				"path":     f.AbsolutePath,
				"language": string(f.Language),
			}
		}

		_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
			_, err := tx.Run(ctx, upsertFileNode, map[string]any{"files": params})
			return nil, err
		})
		if err != nil {
			return fmt.Errorf("graphsync: sync files batch %d: %w", start/batchSize, err)
		}
	}
	return nil
}

// SyncSymbols upserts Symbol nodes and their DEFINED_IN edges to File.
func (c *Client) SyncSymbols(ctx context.Context, symbols []symstore.Symbol) error {
	session := c.session(ctx)
	defer session.Close(ctx)

	for start := 0; start < len(symbols); start += batchSize {
		end := min(start+batchSize, len(symbols))
		batch := symbols[start:end]

		params := make([]map[string]any, len(batch))
		for i, sym := range batch {
			params[i] = map[string]any{
				"id":         sym.ID,
				"name":       sym.Name,
				"modulePath": sym.ModulePath,
				"kind":       string(sym.Kind),
				"language":   string(sym.Language),
				"fileId":     sym.FileID,
				"startLine":  sym.Range.StartLine,
				"endLine":    sym.Range.EndLine,
			}
		}

		_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
			if _, err := tx.Run(ctx, upsertSymbolNode, map[string]any{"symbols": params}); err != nil {
				return nil, err
			}
			_, err := tx.Run(ctx, linkSymbolToFile, map[string]any{"symbols": params})
			return nil, err
		})
		if err != nil {
			return fmt.Errorf("graphsync: sync symbols batch %d: %w", start/batchSize, err)
		}
	}
	return nil
}

// SyncEdges upserts resolved edges as RELATES relationships, tagged
// with their EdgeKind.
func (c *Client) SyncEdges(ctx context.Context, edges []symstore.Edge) error {
	session := c.session(ctx)
	defer session.Close(ctx)

	for start := 0; start < len(edges); start += batchSize {
		end := min(start+batchSize, len(edges))
		batch := edges[start:end]

		params := make([]map[string]any, len(batch))
		for i, e := range batch {
			params[i] = map[string]any{
				"fromSymbol": e.From,
				"toSymbol":   e.To,
				"kind":       string(e.Kind),
				"metadata":   e.Metadata,
			}
		}

		_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
			_, err := tx.Run(ctx, upsertEdge, map[string]any{"edges": params})
			return nil, err
		})
		if err != nil {
			return fmt.Errorf("graphsync: sync edges batch %d: %w", start/batchSize, err)
		}
	}
	return nil
}

// DeleteFileSubgraph removes a file's node and every symbol node it
// owns, used when the indexer drops a file that is no longer on disk.
func (c *Client) DeleteFileSubgraph(ctx context.Context, fileID uint32) error {
	session := c.session(ctx)
	defer session.Close(ctx)

	_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, deleteFileSubgraph, map[string]any{"fileId": fileID})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("graphsync: delete file subgraph %d: %w", fileID, err)
	}
	return nil
}
