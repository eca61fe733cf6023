package indexer

import "github.com/latticecode/lattice/internal/symstore"

// moduleIndex maps a symbol's module path to its id, built once after
// the parse phase completes so the resolve phase can look up
// cross-file import targets without scanning the whole store per
// import. The most recently inserted symbol for a given module path
// wins, the same rule the resolution context's scopes apply to
// same-name bindings.
type moduleIndex map[string]symstore.Symbol

func buildModuleIndex(results []parseResult) moduleIndex {
	idx := make(moduleIndex)
	for _, res := range results {
		for _, sym := range res.Symbols {
			if sym.ModulePath != "" {
				idx[sym.ModulePath] = sym
			}
		}
	}
	return idx
}

// globalSymbolsFor returns every symbol across the whole run whose
// parser-assigned scope is Global, the set BuildResolutionContext's
// globalSymbols parameter expects.
func globalSymbolsFor(results []parseResult) []symstore.Symbol {
	var out []symstore.Symbol
	for _, res := range results {
		for _, sym := range res.Symbols {
			if sym.ScopeContext.Kind == symstore.ScopeGlobal {
				out = append(out, sym)
			}
		}
	}
	return out
}
