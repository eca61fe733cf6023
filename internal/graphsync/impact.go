package graphsync

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// ImpactNode is one symbol touched by an impact traversal.
type ImpactNode struct {
	ID         uint32
	Name       string
	ModulePath string
	Kind       string
	Language   string
	FileID     uint32
}

// ImpactEdge is one relationship traversed.
type ImpactEdge struct {
	FromSymbol uint32
	ToSymbol   uint32
	Kind       string
}

// ImpactResult is the transitive closure of symbols/edges reachable from
// RootID within the requested depth and direction, backing the
// `analyze_impact` RPC/CLI operation.
type ImpactResult struct {
	Nodes  []ImpactNode
	Edges  []ImpactEdge
	RootID uint32
}

// Direction selects which way the traversal walks RELATES edges.
type Direction string

const (
	DirectionUpstream   Direction = "upstream"
	DirectionDownstream Direction = "downstream"
	DirectionBoth       Direction = "both"
)

// Impact runs a variable-length Cypher path match from symbolID,
// bounded by maxDepth (a maxDepth outside [1,10] becomes 3), mirroring the
// teacher's graph.Lineage traversal shape over lattice's RELATES edges.
func (c *Client) Impact(ctx context.Context, symbolID uint32, direction Direction, maxDepth int) (*ImpactResult, error) {
	if maxDepth <= 0 || maxDepth > 10 {
		maxDepth = 3
	}

	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	var query string
	switch direction {
	case DirectionUpstream:
		query = fmt.Sprintf(impactUpstream, maxDepth)
	case DirectionDownstream:
		query = fmt.Sprintf(impactDownstream, maxDepth)
	default:
		query = fmt.Sprintf(impactBoth, maxDepth, maxDepth)
	}

	result, err := neo4j.ExecuteRead(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx, query, map[string]any{"symbolId": symbolID})
		if err != nil {
			return nil, err
		}

		nodeMap := make(map[uint32]ImpactNode)
		var edges []ImpactEdge

		for records.Next(ctx) {
			pathVal, ok := records.Record().Get("path")
			if !ok {
				continue
			}
			p, ok := pathVal.(dbtype.Path)
			if !ok {
				continue
			}

			elemToSymbol := make(map[string]uint32, len(p.Nodes))
			for _, node := range p.Nodes {
				id, ok := asUint32(node.Props["id"])
				if !ok {
					continue
				}
				elemToSymbol[node.ElementId] = id
				if _, exists := nodeMap[id]; exists {
					continue
				}
				name, _ := node.Props["name"].(string)
				modulePath, _ := node.Props["modulePath"].(string)
				kind, _ := node.Props["kind"].(string)
				language, _ := node.Props["language"].(string)
				fileID, _ := asUint32(node.Props["fileId"])
				nodeMap[id] = ImpactNode{ID: id, Name: name, ModulePath: modulePath, Kind: kind, Language: language, FileID: fileID}
			}

			for _, rel := range p.Relationships {
				kind, _ := rel.Props["kind"].(string)
				from, fromOK := elemToSymbol[rel.StartElementId]
				to, toOK := elemToSymbol[rel.EndElementId]
				if fromOK && toOK {
					edges = append(edges, ImpactEdge{FromSymbol: from, ToSymbol: to, Kind: kind})
				}
			}
		}
		if err := records.Err(); err != nil {
			return nil, err
		}

		nodes := make([]ImpactNode, 0, len(nodeMap))
		for _, n := range nodeMap {
			nodes = append(nodes, n)
		}
		return &ImpactResult{Nodes: nodes, Edges: edges, RootID: symbolID}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("graphsync: impact query: %w", err)
	}
	return result.(*ImpactResult), nil
}

// asUint32 narrows a Neo4j numeric property (returned as int64) to the
// uint32 ids used throughout lattice.
func asUint32(v any) (uint32, bool) {
	switch n := v.(type) {
	case int64:
		return uint32(n), true
	case int:
		return uint32(n), true
	default:
		return 0, false
	}
}
