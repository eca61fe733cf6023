// Package resolve implements the per-file resolution context: a layered
// scope stack with a language-dictated lookup order (spec §4.F).
package resolve

import (
	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/symstore"
)

// Level is one layer of a resolution context's scope stack.
type Level string

const (
	Local     Level = "local"
	Enclosing Level = "enclosing"
	Module    Level = "module"
	Package   Level = "package"
	Global    Level = "global"
)

// Entry is one binding surfaced by SymbolsInScope.
type Entry struct {
	Name  string
	ID    ids.SymbolId
	Level Level
}

// Context is the common interface every language's resolution context
// implements (spec §4.F). Concrete language packages wrap an
// *OrderedContext with their own Resolve lookup order.
type Context interface {
	AddSymbol(name string, id ids.SymbolId, level Level)
	AddSymbolWithContext(name string, id ids.SymbolId, sc symstore.ScopeContext)
	AddImportSymbol(name string, id ids.SymbolId, isTypeOnly bool)
	Resolve(name string) (ids.SymbolId, bool)
	PushEnclosingScope()
	ClearLocalScope()
	SymbolsInScope() []Entry
}

// scope is one layer's bindings. The most recent AddSymbol call for a
// name within the same layer wins (spec §4.F same-name collision rule).
type scope struct {
	byName map[string]ids.SymbolId
}

func newScope() scope {
	return scope{byName: make(map[string]ids.SymbolId)}
}

// OrderedContext is the shared scaffolding every language's Context
// builds on: one scope per Level, an import scope, a TypeScript-style
// type space, and an enclosing-scope stack for nested functions. Each
// language wraps OrderedContext and defines Resolve's lookup order over
// orderedLevels.
type OrderedContext struct {
	fileID    ids.FileId
	levels    map[Level]scope
	enclosing []scope // pushed by PushEnclosingScope, consulted innermost-first
	imports   scope
	typeSpace scope // populated only by type-only imports/uses
}

// NewOrderedContext returns an empty context for fileID with every
// standard level initialised.
func NewOrderedContext(fileID ids.FileId) *OrderedContext {
	c := &OrderedContext{
		fileID:  fileID,
		levels:  make(map[Level]scope, 5),
		imports: newScope(),
		typeSpace: newScope(),
	}
	for _, lvl := range []Level{Local, Enclosing, Module, Package, Global} {
		c.levels[lvl] = newScope()
	}
	return c
}

func (c *OrderedContext) AddSymbol(name string, id ids.SymbolId, level Level) {
	s, ok := c.levels[level]
	if !ok {
		s = newScope()
		c.levels[level] = s
	}
	s.byName[name] = id
}

// AddSymbolWithContext maps a parser-emitted ScopeContext onto the
// matching Level, per spec §4.F.
func (c *OrderedContext) AddSymbolWithContext(name string, id ids.SymbolId, sc symstore.ScopeContext) {
	switch sc.Kind {
	case symstore.ScopeLocal:
		c.AddSymbol(name, id, Local)
	case symstore.ScopeClassMember, symstore.ScopeParameter:
		c.AddSymbol(name, id, Local)
	case symstore.ScopeModule:
		c.AddSymbol(name, id, Module)
	case symstore.ScopePackage:
		c.AddSymbol(name, id, Package)
	case symstore.ScopeGlobal:
		c.AddSymbol(name, id, Global)
	default:
		c.AddSymbol(name, id, Module)
	}
}

func (c *OrderedContext) AddImportSymbol(name string, id ids.SymbolId, isTypeOnly bool) {
	c.imports.byName[name] = id
	if isTypeOnly {
		c.typeSpace.byName[name] = id
	}
}

// AddTypeSymbol populates the type space directly, for languages (Go
// interfaces, TypeScript type aliases) where a type use is distinguished
// from a value use at the call site rather than at import time.
func (c *OrderedContext) AddTypeSymbol(name string, id ids.SymbolId) {
	c.typeSpace.byName[name] = id
}

// PushEnclosingScope snapshots the current Local scope onto the
// enclosing stack and starts a fresh Local scope, modelling entry into
// a nested function.
func (c *OrderedContext) PushEnclosingScope() {
	c.enclosing = append(c.enclosing, c.levels[Local])
	c.levels[Local] = newScope()
}

// ClearLocalScope discards the current Local scope and restores the
// most recently pushed enclosing one, if any. Locals never leak across
// files (spec §4.F).
func (c *OrderedContext) ClearLocalScope() {
	if n := len(c.enclosing); n > 0 {
		c.levels[Local] = c.enclosing[n-1]
		c.enclosing = c.enclosing[:n-1]
		return
	}
	c.levels[Local] = newScope()
}

// lookup checks levels in the given order, then the enclosing stack
// innermost-first when Enclosing appears in order, returning the first
// match.
func (c *OrderedContext) lookup(name string, order []Level) (ids.SymbolId, bool) {
	for _, lvl := range order {
		if lvl == Enclosing {
			for i := len(c.enclosing) - 1; i >= 0; i-- {
				if id, ok := c.enclosing[i].byName[name]; ok {
					return id, true
				}
			}
			continue
		}
		if s, ok := c.levels[lvl]; ok {
			if id, ok := s.byName[name]; ok {
				return id, true
			}
		}
	}
	return 0, false
}

// lookupImport checks the type space first when wantType is set, then
// the import scope.
func (c *OrderedContext) lookupImport(name string, wantType bool) (ids.SymbolId, bool) {
	if wantType {
		if id, ok := c.typeSpace.byName[name]; ok {
			return id, true
		}
	}
	id, ok := c.imports.byName[name]
	return id, ok
}

func (c *OrderedContext) SymbolsInScope() []Entry {
	var out []Entry
	for lvl, s := range c.levels {
		for name, id := range s.byName {
			out = append(out, Entry{Name: name, ID: id, Level: lvl})
		}
	}
	for name, id := range c.imports.byName {
		out = append(out, Entry{Name: name, ID: id, Level: "import"})
	}
	return out
}
