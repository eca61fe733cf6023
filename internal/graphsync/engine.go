package graphsync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/indexstore"
	"github.com/latticecode/lattice/internal/symstore"
)

// symbolIDOf narrows a graphsync-local uint32 symbol id (the shape Neo4j
// properties round-trip as) back to ids.SymbolId for an indexstore
// lookup.
func symbolIDOf(v uint32) ids.SymbolId { return ids.SymbolId(v) }

// AnalyzedNode is one symbol affected by a change, annotated with its
// BFS depth from the root and a coarse severity bucket (spec §6.2
// `analyze_impact`).
type AnalyzedNode struct {
	Symbol   symstore.Symbol
	Depth    int
	Severity string // critical, high, medium, low
	EdgeKind symstore.EdgeKind
	Path     []uint32
}

// AnalyzeResult is the full impact analysis for one symbol change.
type AnalyzeResult struct {
	Root             symstore.Symbol
	ChangeType       string
	DirectImpact     []AnalyzedNode
	TransitiveImpact []AnalyzedNode
	TotalAffected    int
}

// Engine runs impact analysis over the Neo4j projection, looking up
// symbol records from the Postgres index as it goes (spec §4.I note:
// Neo4j never becomes the system of record — it only supplies the graph
// traversal Postgres' recursive-CTE equivalent would be slower at).
type Engine struct {
	graph  *Client
	index  *indexstore.Store
	logger *slog.Logger
}

// NewEngine builds an impact Engine. logger defaults to slog.Default()
// if nil.
func NewEngine(graph *Client, index *indexstore.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{graph: graph, index: index, logger: logger}
}

// Analyze computes the downstream impact of changing root, classifying
// each affected symbol's severity by depth, edge kind, and changeType
// ("delete" widens severity the way a call-site break would).
func (e *Engine) Analyze(ctx context.Context, root uint32, changeType string, maxDepth int) (*AnalyzeResult, error) {
	if e.graph == nil {
		return nil, fmt.Errorf("graphsync: neo4j not configured")
	}
	if maxDepth <= 0 || maxDepth > 10 {
		maxDepth = 5
	}

	rootSym, ok, err := e.index.SymbolByID(ctx, symbolIDOf(root))
	if err != nil {
		return nil, fmt.Errorf("graphsync: get root symbol: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("graphsync: symbol %d not found", root)
	}

	impact, err := e.graph.Impact(ctx, root, DirectionDownstream, maxDepth)
	if err != nil {
		return nil, fmt.Errorf("graphsync: impact query: %w", err)
	}

	adjacency := make(map[uint32][]ImpactEdge)
	for _, edge := range impact.Edges {
		adjacency[edge.FromSymbol] = append(adjacency[edge.FromSymbol], edge)
	}
	nodeMap := make(map[uint32]ImpactNode, len(impact.Nodes))
	for _, n := range impact.Nodes {
		nodeMap[n.ID] = n
	}

	type bfsEntry struct {
		id    uint32
		depth int
		path  []uint32
	}

	visited := map[uint32]bool{root: true}
	queue := []bfsEntry{{id: root, depth: 0, path: []uint32{root}}}

	var direct, transitive []AnalyzedNode

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, edge := range adjacency[current.id] {
			if visited[edge.ToSymbol] {
				continue
			}
			visited[edge.ToSymbol] = true

			depth := current.depth + 1
			path := append(append([]uint32{}, current.path...), edge.ToSymbol)

			node, exists := nodeMap[edge.ToSymbol]
			if !exists {
				continue
			}
			sym, ok, err := e.index.SymbolByID(ctx, symbolIDOf(node.ID))
			if err != nil || !ok {
				continue
			}

			analyzed := AnalyzedNode{
				Symbol:   sym,
				Depth:    depth,
				Severity: classifySeverity(depth, symstore.EdgeKind(edge.Kind), changeType),
				EdgeKind: symstore.EdgeKind(edge.Kind),
				Path:     path,
			}
			if depth == 1 {
				direct = append(direct, analyzed)
			} else {
				transitive = append(transitive, analyzed)
			}
			if depth < maxDepth {
				queue = append(queue, bfsEntry{id: edge.ToSymbol, depth: depth, path: path})
			}
		}
	}

	result := &AnalyzeResult{
		Root:             rootSym,
		ChangeType:       changeType,
		DirectImpact:     direct,
		TransitiveImpact: transitive,
		TotalAffected:    len(direct) + len(transitive),
	}

	e.logger.Info("impact analysis complete",
		slog.String("symbol", rootSym.ModulePath),
		slog.String("change_type", changeType),
		slog.Int("total_affected", result.TotalAffected))

	return result, nil
}

// classifySeverity buckets an affected node by distance from the root,
// the kind of edge that reached it, and whether the change is a delete
// (which makes call-site breakage more severe than a benign reference).
func classifySeverity(depth int, kind symstore.EdgeKind, changeType string) string {
	if depth == 1 {
		if changeType == "delete" {
			switch kind {
			case symstore.EdgeCalls, symstore.EdgeReferences:
				return "critical"
			}
			return "high"
		}
		switch kind {
		case symstore.EdgeCalls:
			return "high"
		default:
			return "medium"
		}
	}
	if depth == 2 {
		return "medium"
	}
	return "low"
}
