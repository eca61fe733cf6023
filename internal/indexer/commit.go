package indexer

import (
	"context"
	"fmt"

	"github.com/latticecode/lattice/internal/symstore"
)

// commit persists every parsed file's symbols, imports, and resolved
// edges to the document index, then mirrors the same data into the
// optional graph projection and invalidates the query cache. A file's
// symbols and its edges are written in the same pass so readers never
// observe one without the other (spec §5 atomic-commit guarantee).
func (p *Pipeline) commit(ctx context.Context, results []parseResult, edgeResults []edgeResult) error {
	edgesByFile := make(map[uint32][]symstore.Edge, len(edgeResults))
	for _, er := range edgeResults {
		edgesByFile[uint32(er.FileID)] = er.Edges
	}

	var allSymbols []symstore.Symbol
	var allEdges []symstore.Edge

	for _, res := range results {
		if err := p.index.UpsertFile(ctx, res.File); err != nil {
			return fmt.Errorf("upsert file %s: %w", res.File.AbsolutePath, err)
		}
		if err := p.index.UpsertSymbolsBatch(ctx, res.Symbols); err != nil {
			return fmt.Errorf("upsert symbols for %s: %w", res.File.AbsolutePath, err)
		}
		if err := p.index.ReplaceImports(ctx, res.File.ID, res.Imports); err != nil {
			return fmt.Errorf("replace imports for %s: %w", res.File.AbsolutePath, err)
		}
		allSymbols = append(allSymbols, res.Symbols...)
	}

	for _, er := range edgeResults {
		if err := p.index.UpsertEdgesBatch(ctx, er.Edges); err != nil {
			return fmt.Errorf("upsert edges for file %d: %w", er.FileID, err)
		}
		allEdges = append(allEdges, er.Edges...)
	}

	if p.graph != nil {
		files := make([]symstore.File, len(results))
		for i, res := range results {
			files[i] = res.File
		}
		if err := p.graph.SyncFiles(ctx, files); err != nil {
			return fmt.Errorf("graph sync files: %w", err)
		}
		if err := p.graph.SyncSymbols(ctx, allSymbols); err != nil {
			return fmt.Errorf("graph sync symbols: %w", err)
		}
		if err := p.graph.SyncEdges(ctx, allEdges); err != nil {
			return fmt.Errorf("graph sync edges: %w", err)
		}
	}

	if p.cache != nil {
		// A committed run invalidates any cached query result, since the
		// index it was computed from just changed underneath it.
		p.invalidateCache(ctx)
	}

	return nil
}

// invalidateCache drops the whole query cache rather than tracking
// which cached keys a given commit could have affected — indexing runs
// are infrequent enough that a full flush is cheaper than bookkeeping
// per-query dependencies.
func (p *Pipeline) invalidateCache(ctx context.Context) {
	if err := p.cache.FlushAll(ctx); err != nil {
		p.logger.Warn("query cache flush failed", "error", err)
	}
}
