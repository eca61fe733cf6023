package indexer

import (
	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/lang"
	"github.com/latticecode/lattice/internal/symstore"
)

// parseResult is everything one file's parse phase yields, collected
// before any cross-file resolution happens.
type parseResult struct {
	File        symstore.File
	Symbols     []symstore.Symbol
	Imports     []symstore.Import
	Calls       []lang.NameRef
	MethodCalls []lang.MethodCall
	Uses        []lang.NameRef
	Defines     []lang.NameRef
	Extends     []lang.InheritanceRef
	Implements  []lang.InheritanceRef
	TraitUses   []lang.InheritanceRef

	Behavior   lang.Behavior
	Language   ids.LanguageId
	ModulePath string // this file's own module path, for ImportMatchesSymbol's importingModule
}
