// Package lang defines the uniform parser/behavior contract every
// language plug-in implements (spec §4.C/§4.D), plus the registry that
// maps file extensions to parser-behavior pairs.
//
// Re-architecting note: the teacher's duck-typed JS/TS parser dispatches
// on tree-sitter node-type strings internally but exposes a single,
// static Parser interface at the package boundary (internal/parser.Parser
// in the teacher repo). Lattice keeps that shape and extends it with the
// capability set spec.md §4.D requires (imports/calls/method-calls/uses/
// defines/extends/implementations), instead of the duck-typed polymorphism
// spec.md §9 calls out for re-architecting.
package lang

import (
	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/inherit"
	"github.com/latticecode/lattice/internal/resolve"
	"github.com/latticecode/lattice/internal/symstore"
)

// MethodCall is a member-access call with its receiver preserved, emitted
// by FindMethodCalls (never by FindCalls — spec §4.D discrimination rule).
type MethodCall struct {
	Caller     string
	Receiver   string // "" means not a member call; FindMethodCalls never emits this
	MethodName string
	Range      ids.Range
}

// NameRef is a generic (context, name, range) triple used by FindCalls,
// FindUses, and FindDefines.
type NameRef struct {
	Context string
	Name    string
	Range   ids.Range
}

// InheritanceRef is a (derived, base, range) triple used by FindExtends
// and FindImplementations.
type InheritanceRef struct {
	Derived string
	Base    string
	Range   ids.Range
}

// Parser is the common contract every language plug-in's AST walker
// implements (spec §4.D).
type Parser interface {
	// Parse walks source and emits symbols, allocating ids from counter.
	Parse(source []byte, fileID ids.FileId, counter *ids.Counter) ([]symstore.Symbol, error)

	// FindImports extracts one Import per specifier.
	FindImports(source []byte, fileID ids.FileId) ([]symstore.Import, error)

	// FindCalls returns bare function calls only — never member-access
	// calls (spec §4.D, §8 property 3).
	FindCalls(source []byte) ([]NameRef, error)

	// FindMethodCalls returns member-access calls with their receiver
	// preserved (spec §4.D, §8 property 4).
	FindMethodCalls(source []byte) ([]MethodCall, error)

	// FindUses returns type references in signatures, fields, and
	// extends/implements clauses.
	FindUses(source []byte) ([]NameRef, error)

	// FindDefines returns methods/properties declared inside a type or
	// interface.
	FindDefines(source []byte) ([]NameRef, error)

	// FindImplementations returns (impl type, interface) pairs.
	FindImplementations(source []byte) ([]InheritanceRef, error)

	// FindExtends returns (derived, base) pairs.
	FindExtends(source []byte) ([]InheritanceRef, error)
}

// TraitUseFinder is an optional capability implemented only by
// languages with a third inheritance kind beyond extends/implements —
// currently PHP's `use TraitName;` (spec §4.G `kind ∈ {extends,
// implements, uses}`). The indexer type-asserts for it after building
// a Parser from the registry.
type TraitUseFinder interface {
	FindTraitUses(source []byte) ([]InheritanceRef, error)
}

// Behavior is the small, cheaply-cloneable object each language pairs
// with its Parser (spec §4.E). Implementations must be value types or
// carry only immutable state so that copying a Behavior is free.
type Behavior interface {
	FormatModulePath(base, name string) string
	ModuleSeparator() string
	ParseVisibility(signature string) symstore.Visibility
	ImportMatchesSymbol(importPath, symbolModulePath, importingModule string) bool
	ModulePathFromFile(absolutePath, workspaceRoot string) (string, bool)
	SupportsTraits() bool
	SupportsInherentMethods() bool
	CreateResolutionContext(fileID ids.FileId) resolve.Context
	CreateInheritanceResolver() inherit.Resolver

	// ConfigureSymbol fills ModulePath and Visibility on sym in place.
	// This single generic method lives on the interface itself (spec
	// §4.E: "No language overrides this method"); every Behavior gets
	// it by embedding BaseBehavior.
	ConfigureSymbol(sym *symstore.Symbol, modulePath string)
}

// BaseBehavior implements the generic, non-overridable parts of Behavior
// (ConfigureSymbol) so each language's concrete behavior only has to
// implement the language-specific methods and embed BaseBehavior.
type BaseBehavior struct {
	Format func(base, name string) string
	Parse  func(signature string) symstore.Visibility
}

// ConfigureSymbol applies module-path formatting and visibility parsing,
// exactly the two steps spec §4.E assigns to the generic method.
func (b BaseBehavior) ConfigureSymbol(sym *symstore.Symbol, modulePath string) {
	if modulePath != "" && b.Format != nil {
		sym.ModulePath = b.Format(modulePath, sym.Name)
	}
	if sym.Signature != "" && b.Parse != nil {
		sym.Visibility = b.Parse(sym.Signature)
	}
}

// Factory constructs a fresh Parser+Behavior pair for one file. Parsers
// hold an owned tree-sitter parser instance and must not be shared across
// goroutines; Factory is called once per file by the indexer's worker
// pool (spec §4.C, §5).
type Factory func() (Parser, Behavior)

// Definition registers one language's factory under its LanguageId and
// file extensions.
type Definition struct {
	Language   ids.LanguageId
	Extensions []string
	New        Factory
}
