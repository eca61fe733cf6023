package indexer

import (
	"context"
	"sync"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/inherit"
	"github.com/latticecode/lattice/internal/lang"
	"github.com/latticecode/lattice/internal/project"
	"github.com/latticecode/lattice/internal/symstore"
)

// edgeResult is one file's resolved edges plus its imports, ready for
// commit alongside its symbols (spec §5 "a file's symbols and the
// edges sourced from that file commit atomically").
type edgeResult struct {
	FileID  ids.FileId
	Edges   []symstore.Edge
	Imports []symstore.Import
}

// resolvePhase builds the project-wide lookup tables once, then walks
// every file's raw parser output concurrently, emitting resolved edges.
// Unlike the parse phase, resolvePhase never mutates the shared symbol
// store — each file's resolve.Context and inherit.Resolver reads are
// safe for concurrent use once built (spec §5 shared-resource policy).
func (p *Pipeline) resolvePhase(ctx context.Context, results []parseResult) ([]edgeResult, []error) {
	kinds := buildTypeKindIndex(results)
	resolvers := buildInheritanceResolvers(results, kinds)
	modules := buildModuleIndex(results)
	methods := buildMethodIndex(results)
	global := globalSymbolsFor(results)

	var mu sync.Mutex
	var out []edgeResult

	errs := runBounded(ctx, results, p.concurrency(), func(res parseResult) error {
		edges := p.resolveOne(res, modules, methods, resolvers[res.Language], global, kinds)

		mu.Lock()
		out = append(out, edgeResult{FileID: res.File.ID, Edges: edges, Imports: res.Imports})
		mu.Unlock()
		return nil
	})
	return out, errs
}

func (p *Pipeline) resolveOne(
	res parseResult,
	modules moduleIndex,
	methods methodIndex,
	resolver inherit.Resolver,
	global []symstore.Symbol,
	kinds typeKindIndex,
) []symstore.Edge {
	enhancer := p.enhancerFor(res.File.AbsolutePath, res.Language)

	resolveImport := func(imp symstore.Import) (ids.SymbolId, bool) {
		path := imp.Path
		if enhancer != nil {
			path = enhancer.Enhance(path)
		}
		for modPath, sym := range modules {
			if res.Behavior.ImportMatchesSymbol(path, modPath, res.ModulePath) {
				return sym.ID, true
			}
		}
		return 0, false
	}

	rctx := lang.BuildResolutionContext(res.Behavior, res.File.ID, res.Imports, res.Symbols, global, resolveImport)

	var edges []symstore.Edge

	for _, ref := range res.Calls {
		callerID, ok1 := rctx.Resolve(ref.Context)
		calleeID, ok2 := rctx.Resolve(ref.Name)
		if ok1 && ok2 {
			edges = append(edges, symstore.Edge{From: callerID, To: calleeID, Kind: symstore.EdgeCalls})
		}
	}

	for _, mc := range res.MethodCalls {
		callerID, ok := rctx.Resolve(mc.Caller)
		if !ok {
			continue
		}
		if calleeID, ok := p.resolveMethodCall(mc, rctx, kinds, methods, resolver); ok {
			edges = append(edges, symstore.Edge{From: callerID, To: calleeID, Kind: symstore.EdgeCalls, Metadata: mc.Receiver})
		}
	}

	for _, ref := range res.Uses {
		ownerID, ok1 := rctx.Resolve(ref.Context)
		targetID, ok2 := rctx.Resolve(ref.Name)
		if ok1 && ok2 {
			edges = append(edges, symstore.Edge{From: ownerID, To: targetID, Kind: symstore.EdgeUses})
		}
	}

	for _, ref := range res.Defines {
		ownerID, ok1 := rctx.Resolve(ref.Context)
		memberID, ok2 := methods[methodKey(ref.Context, ref.Name)]
		if ok1 && ok2 {
			edges = append(edges, symstore.Edge{From: ownerID, To: memberID, Kind: symstore.EdgeDefines})
		}
	}

	edges = append(edges, inheritanceEdges(rctx, res.Extends, symstore.EdgeExtends)...)
	edges = append(edges, inheritanceEdges(rctx, res.Implements, symstore.EdgeImplements)...)
	edges = append(edges, inheritanceEdges(rctx, res.TraitUses, symstore.EdgeUses)...)

	return edges
}

func inheritanceEdges(rctx interface {
	Resolve(string) (ids.SymbolId, bool)
}, refs []lang.InheritanceRef, kind symstore.EdgeKind) []symstore.Edge {
	var out []symstore.Edge
	for _, ref := range refs {
		derivedID, ok1 := rctx.Resolve(ref.Derived)
		baseID, ok2 := rctx.Resolve(ref.Base)
		if ok1 && ok2 {
			out = append(out, symstore.Edge{From: derivedID, To: baseID, Kind: kind})
		}
	}
	return out
}

// resolveMethodCall finds the declaring type for a member call by
// asking the inheritance resolver, falling back to a bare name lookup
// when the receiver's static type can't be determined (spec §7
// "unresolved references are not errors").
func (p *Pipeline) resolveMethodCall(
	mc lang.MethodCall,
	rctx interface {
		Resolve(string) (ids.SymbolId, bool)
	},
	kinds typeKindIndex,
	methods methodIndex,
	resolver inherit.Resolver,
) (ids.SymbolId, bool) {
	if resolver != nil {
		if _, ok := kinds[mc.Receiver]; ok {
			if declaring, ok := resolver.ResolveMethod(mc.Receiver, mc.MethodName); ok {
				if id, ok := methods[methodKey(declaring, mc.MethodName)]; ok {
					return id, true
				}
			}
		}
	}
	return rctx.Resolve(mc.MethodName)
}

// enhancerFor looks up the project-resolution provider governing path,
// if any, and wraps its rule in an Enhancer. Returns nil when no
// provider claims the language or file.
func (p *Pipeline) enhancerFor(path string, langID ids.LanguageId) project.Enhancer {
	prov, ok := p.providers[langID]
	if !ok {
		return nil
	}
	rule, ok := prov.RuleFor(path)
	if !ok {
		return nil
	}
	return project.NewEnhancer(rule)
}
