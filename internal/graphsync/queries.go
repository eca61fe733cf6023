package graphsync

// Cypher query constants for Neo4j symbol-graph operations (spec §4.I
// graph projection), adapted from the teacher's column-lineage query set
// down to lattice's (Symbol, File, edge-kind) shape — lattice has no
// notion of a "column", so the COLUMN_FLOW variants don't carry over.
const (
	constraintSymbolID = `CREATE CONSTRAINT lattice_symbol_id IF NOT EXISTS FOR (s:Symbol) REQUIRE s.id IS UNIQUE`
	constraintFileID   = `CREATE CONSTRAINT lattice_file_id IF NOT EXISTS FOR (f:File) REQUIRE f.id IS UNIQUE`

	upsertSymbolNode = `
UNWIND $symbols AS sym
MERGE (s:Symbol {id: sym.id})
SET s.name = sym.name,
    s.modulePath = sym.modulePath,
    s.kind = sym.kind,
    s.language = sym.language,
    s.fileId = sym.fileId,
    s.startLine = sym.startLine,
    s.endLine = sym.endLine
`

	linkSymbolToFile = `
UNWIND $symbols AS sym
MATCH (s:Symbol {id: sym.id})
MATCH (f:File {id: sym.fileId})
MERGE (s)-[:DEFINED_IN]->(f)
`

	upsertFileNode = `
UNWIND $files AS f
MERGE (file:File {id: f.id})
SET file.path = f.path,
    file.language = f.language
`

	upsertEdge = `
UNWIND $edges AS edge
MATCH (src:Symbol {id: edge.fromSymbol})
MATCH (tgt:Symbol {id: edge.toSymbol})
MERGE (src)-[r:RELATES {kind: edge.kind}]->(tgt)
SET r.metadata = edge.metadata
`

	deleteFileSubgraph = `
MATCH (f:File {id: $fileId})
OPTIONAL MATCH (s:Symbol {fileId: $fileId})
DETACH DELETE f, s
`

	impactUpstream = `
MATCH path = (upstream)-[:RELATES*1..%d]->(target:Symbol {id: $symbolId})
RETURN path
`

	impactDownstream = `
MATCH path = (source:Symbol {id: $symbolId})-[:RELATES*1..%d]->(downstream)
RETURN path
`

	impactBoth = `
MATCH path = (upstream)-[:RELATES*1..%d]->(target:Symbol {id: $symbolId})
RETURN path
UNION
MATCH path = (source:Symbol {id: $symbolId})-[:RELATES*1..%d]->(downstream)
RETURN path
`
)
