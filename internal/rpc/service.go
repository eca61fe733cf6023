// Package rpc implements the retrieval operations spec §6 names
// (find_symbol, search_symbols, get_calls, find_callers,
// analyze_impact, semantic_search_with_context) as a Service usable
// both behind the chi HTTP router here and directly from latticectl's
// retrieve subcommands, so the two surfaces never drift.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/latticecode/lattice/internal/embedder"
	"github.com/latticecode/lattice/internal/graphsync"
	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/indexstore"
	"github.com/latticecode/lattice/internal/querycache"
	"github.com/latticecode/lattice/internal/symstore"
)

// Service holds the retrieval dependencies. Graph, Embed, and Cache
// are optional; the zero value of each degrades the operations that
// need it rather than failing construction, the same "optional
// dependency, warn and disable" pattern the teacher's cmd/api/main.go
// uses for Neo4j/Bedrock/MinIO.
type Service struct {
	Index  *indexstore.Store
	Graph  *graphsync.Engine
	Embed  *embedder.Client
	Cache  *querycache.Cache
	Logger *slog.Logger
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// FindSymbol resolves name (optionally scoped to language) to the
// matching symbols.
func (s *Service) FindSymbol(ctx context.Context, name string, language string) (Envelope, error) {
	syms, err := s.Index.FindSymbolsByName(ctx, name, ids.LanguageId(language))
	if err != nil {
		return Envelope{}, fmt.Errorf("rpc: find_symbol: %w", err)
	}
	if len(syms) == 0 {
		return notFound("symbol"), nil
	}
	return ok("symbol", toItems(syms)), nil
}

// SearchSymbols runs a full-text query, cached by (query, filter) when
// a cache is configured.
func (s *Service) SearchSymbols(ctx context.Context, query string, filter indexstore.SearchFilter) (Envelope, error) {
	if s.Cache == nil {
		return s.searchUncached(ctx, query, filter)
	}

	key := cacheKey("search", query, filter)
	payload, err := s.Cache.GetOrCompute(ctx, key, func() ([]byte, error) {
		env, err := s.searchUncached(ctx, query, filter)
		if err != nil {
			return nil, err
		}
		return json.Marshal(env)
	})
	if err != nil {
		return Envelope{}, fmt.Errorf("rpc: search_symbols: %w", err)
	}
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return s.searchUncached(ctx, query, filter)
	}
	return env, nil
}

func (s *Service) searchUncached(ctx context.Context, query string, filter indexstore.SearchFilter) (Envelope, error) {
	syms, err := s.Index.Search(ctx, query, filter)
	if err != nil {
		return Envelope{}, fmt.Errorf("rpc: search: %w", err)
	}
	if len(syms) == 0 {
		return notFound("symbol"), nil
	}
	return ok("symbol", toItems(syms)), nil
}

// GetCalls returns every symbol `from` calls.
func (s *Service) GetCalls(ctx context.Context, from symstore.Symbol) (Envelope, error) {
	edges, err := s.Index.EdgesFrom(ctx, from.ID, symstore.EdgeCalls)
	if err != nil {
		return Envelope{}, fmt.Errorf("rpc: get_calls: %w", err)
	}
	return s.resolveEdgeTargets(ctx, edges, "symbol")
}

// FindCallers returns every symbol that calls to.
func (s *Service) FindCallers(ctx context.Context, to symstore.Symbol) (Envelope, error) {
	edges, err := s.Index.CallersOf(ctx, to.ID)
	if err != nil {
		return Envelope{}, fmt.Errorf("rpc: find_callers: %w", err)
	}
	return s.resolveEdgeSources(ctx, edges, "symbol")
}

func (s *Service) resolveEdgeTargets(ctx context.Context, edges []symstore.Edge, entityType string) (Envelope, error) {
	if len(edges) == 0 {
		return notFound(entityType), nil
	}
	var items []any
	for _, e := range edges {
		sym, found, err := s.Index.SymbolByID(ctx, e.To)
		if err != nil {
			return Envelope{}, fmt.Errorf("rpc: resolve target %d: %w", e.To, err)
		}
		if found {
			items = append(items, sym)
		}
	}
	if len(items) == 0 {
		return notFound(entityType), nil
	}
	return ok(entityType, items), nil
}

func (s *Service) resolveEdgeSources(ctx context.Context, edges []symstore.Edge, entityType string) (Envelope, error) {
	if len(edges) == 0 {
		return notFound(entityType), nil
	}
	var items []any
	for _, e := range edges {
		sym, found, err := s.Index.SymbolByID(ctx, e.From)
		if err != nil {
			return Envelope{}, fmt.Errorf("rpc: resolve source %d: %w", e.From, err)
		}
		if found {
			items = append(items, sym)
		}
	}
	if len(items) == 0 {
		return notFound(entityType), nil
	}
	return ok(entityType, items), nil
}

// AnalyzeImpact runs graph-based impact analysis, unsupported without
// a configured graphsync.Engine (no Neo4j dialed).
func (s *Service) AnalyzeImpact(ctx context.Context, root symstore.Symbol, changeType string, maxDepth int) (Envelope, error) {
	if s.Graph == nil {
		return unsupported("impact_analysis"), nil
	}
	result, err := s.Graph.Analyze(ctx, uint32(root.ID), changeType, maxDepth)
	if err != nil {
		return Envelope{}, fmt.Errorf("rpc: analyze_impact: %w", err)
	}
	return ok("impact_analysis", []any{result}), nil
}

// SemanticSearchWithContext embeds query and ranks symbols by vector
// similarity, unsupported without a configured embedder.
func (s *Service) SemanticSearchWithContext(ctx context.Context, query string, limit int) (Envelope, error) {
	if s.Embed == nil {
		return unsupported("symbol"), nil
	}
	vecs, err := s.Embed.EmbedBatch(ctx, []string{query}, "search_query")
	if err != nil {
		return Envelope{}, fmt.Errorf("rpc: semantic_search_with_context: embed: %w", err)
	}
	if len(vecs) == 0 {
		return notFound("symbol"), nil
	}
	syms, err := s.Index.NearestByEmbedding(ctx, pgvector.NewVector(vecs[0]), limit)
	if err != nil {
		return Envelope{}, fmt.Errorf("rpc: semantic_search_with_context: %w", err)
	}
	if len(syms) == 0 {
		return notFound("symbol"), nil
	}
	return ok("symbol", toItems(syms)), nil
}

func toItems(syms []symstore.Symbol) []any {
	items := make([]any, len(syms))
	for i, sym := range syms {
		items[i] = sym
	}
	return items
}

func cacheKey(op, query string, filter indexstore.SearchFilter) string {
	data, _ := json.Marshal(struct {
		Op     string
		Query  string
		Filter indexstore.SearchFilter
	}{op, query, filter})
	return string(data)
}
