package lang

import (
	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/resolve"
	"github.com/latticecode/lattice/internal/symstore"
)

// ImportTarget resolves one import specifier against the project-wide
// symbol table, using the behavior's ImportMatchesSymbol rule. Callers
// build this from an index lookup keyed by module path before invoking
// BuildResolutionContext.
type ImportTarget func(imp symstore.Import) (ids.SymbolId, bool)

// BuildResolutionContext is the single generic method spec §4.E assigns
// to the Behavior trait ("No language overrides this method"): it
// instantiates an empty context from the language's factory, seeds it
// with the file's imports, adds the file's own symbols at Local/Module
// scope, and adds globally-visible symbols from the index. Because no
// language customizes this sequence, it lives as a free function
// instead of being duplicated on every Behavior implementation.
func BuildResolutionContext(
	b Behavior,
	fileID ids.FileId,
	fileImports []symstore.Import,
	fileSymbols []symstore.Symbol,
	globalSymbols []symstore.Symbol,
	resolveImport ImportTarget,
) resolve.Context {
	ctx := b.CreateResolutionContext(fileID)

	for _, imp := range fileImports {
		id, ok := resolveImport(imp)
		if !ok {
			continue
		}
		name := imp.Alias
		if name == "" {
			name = imp.Path
		}
		ctx.AddImportSymbol(name, id, imp.IsTypeOnly)
	}

	for _, sym := range fileSymbols {
		ctx.AddSymbolWithContext(sym.Name, sym.ID, sym.ScopeContext)
		if sym.ModulePath != "" {
			ctx.AddSymbol(sym.ModulePath, sym.ID, resolve.Module)
		}
	}

	for _, sym := range globalSymbols {
		ctx.AddSymbol(sym.Name, sym.ID, resolve.Global)
		if sym.ModulePath != "" {
			ctx.AddSymbol(sym.ModulePath, sym.ID, resolve.Global)
		}
	}

	return ctx
}
