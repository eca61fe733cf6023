package resolve

import "github.com/latticecode/lattice/internal/ids"

// langContext adapts an *OrderedContext to the Context interface for one
// language's fixed lookup order (spec §4.F "Lookup orders").
type langContext struct {
	*OrderedContext
	order []Level
}

func (c *langContext) Resolve(name string) (ids.SymbolId, bool) {
	for _, lvl := range c.order {
		if lvl == "import" {
			if id, ok := c.lookupImport(name, false); ok {
				return id, true
			}
			continue
		}
		if id, ok := c.lookup(name, []Level{lvl}); ok {
			return id, true
		}
	}
	return 0, false
}

// NewRustContext: Local → Imported → Module → Crate.
func NewRustContext(fileID ids.FileId) Context {
	return &langContext{
		OrderedContext: NewOrderedContext(fileID),
		order:          []Level{Local, "import", Module, Package},
	}
}

// NewPythonContext: Local → Enclosing → Global → Builtin (LEGB). Builtin
// names are resolved by the caller falling through to a language-builtin
// table after Resolve returns false; this context models L-E-G only.
//
// Module-level def/class statements are parsed with ScopeContext{Kind:
// ScopeModule} (internal/lang/python/parser.go), which AddSymbolWithContext
// stores at the Module level, not Global — Module sits ahead of Global in
// the order so a module's own top-level symbols resolve under LEGB's "G".
func NewPythonContext(fileID ids.FileId) Context {
	return &langContext{
		OrderedContext: NewOrderedContext(fileID),
		order:          []Level{Local, Enclosing, Module, Global},
	}
}

// NewPHPContext: Local → Use aliases → Current namespace → Global.
func NewPHPContext(fileID ids.FileId) Context {
	return &langContext{
		OrderedContext: NewOrderedContext(fileID),
		order:          []Level{Local, "import", Module, Global},
	}
}

// NewGoContext: Local → File imports → Package → Builtins. Builtins are
// resolved by the caller after Resolve returns false, same as Python.
//
// Top-level funcs/types are parsed with ScopeContext{Kind: ScopeModule}
// (internal/lang/golang/parser.go), which AddSymbolWithContext stores at
// the Module level — Module is included here so a file's own package-level
// declarations resolve the same as symbols merged in from Package scope.
func NewGoContext(fileID ids.FileId) Context {
	return &langContext{
		OrderedContext: NewOrderedContext(fileID),
		order:          []Level{Local, "import", Module, Package},
	}
}

// typeScriptContext implements TypeScript's type-space-aware lookup:
// Local (block) → Hoisted → Module → Import, consulting the type space
// instead of the value space when the requesting edge is a type
// reference.
type typeScriptContext struct {
	*OrderedContext
}

// NewTypeScriptContext builds a context whose Resolve consults the value
// space. Type references should call ResolveType instead.
func NewTypeScriptContext(fileID ids.FileId) Context {
	return &typeScriptContext{OrderedContext: NewOrderedContext(fileID)}
}

func (c *typeScriptContext) Resolve(name string) (ids.SymbolId, bool) {
	// "Hoisted" locals and plain locals both live in the Local level;
	// the parser is responsible for inserting hoisted bindings before
	// the enclosing block is walked so they are visible regardless of
	// declaration order (spec §4.D TypeScript hoisting rule).
	if id, ok := c.lookup(name, []Level{Local}); ok {
		return id, true
	}
	if id, ok := c.lookup(name, []Level{Module}); ok {
		return id, true
	}
	return c.lookupImport(name, false)
}

// ResolveType performs the same lookup order but consults the type space
// ahead of the import scope, for edges arising from type annotations,
// `extends`, and `implements` clauses.
func (c *typeScriptContext) ResolveType(name string) (ids.SymbolId, bool) {
	if id, ok := c.lookup(name, []Level{Local}); ok {
		return id, true
	}
	if id, ok := c.lookup(name, []Level{Module}); ok {
		return id, true
	}
	return c.lookupImport(name, true)
}
