package indexer

import "github.com/latticecode/lattice/internal/ids"

// methodIndex looks up the symbol id of a method given the name of its
// owning type and the method's own name, used once the inheritance
// resolver has named the declaring type for a method call.
type methodIndex map[string]ids.SymbolId

func methodKey(owner, method string) string { return owner + "#" + method }

func buildMethodIndex(results []parseResult) methodIndex {
	idx := make(methodIndex)
	for _, res := range results {
		for _, sym := range res.Symbols {
			if sym.ScopeContext.ParentName != "" {
				idx[methodKey(sym.ScopeContext.ParentName, sym.Name)] = sym.ID
			}
		}
	}
	return idx
}
