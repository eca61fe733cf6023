// Package symstore holds the symbol data model and the concurrent
// in-memory symbol store (spec §3, §4.B).
package symstore

import "github.com/latticecode/lattice/internal/ids"

// Kind enumerates the symbol categories the language parsers emit.
type Kind string

const (
	KindFunction  Kind = "function"
	KindMethod    Kind = "method"
	KindClass     Kind = "class"
	KindStruct    Kind = "struct"
	KindInterface Kind = "interface"
	KindTrait     Kind = "trait"
	KindEnum      Kind = "enum"
	KindTypeAlias Kind = "type_alias"
	KindConstant  Kind = "constant"
	KindVariable  Kind = "variable"
	KindField     Kind = "field"
	KindParameter Kind = "parameter"
	KindModule    Kind = "module"
	KindUnion     Kind = "union"
	KindMacro     Kind = "macro"
)

// Visibility captures language-specific accessibility, interpreted per
// language behavior (spec §4.E).
type Visibility string

const (
	VisibilityPublic         Visibility = "public"
	VisibilityModule         Visibility = "module"
	VisibilityPrivate        Visibility = "private"
	VisibilityCrate          Visibility = "crate"
	VisibilityPackagePrivate Visibility = "package_private"
	VisibilityProtected      Visibility = "protected"
)

// ScopeKind tags the variant of ScopeContext held by a symbol.
type ScopeKind string

const (
	ScopeModule      ScopeKind = "module"
	ScopeClassMember ScopeKind = "class_member"
	ScopeParameter   ScopeKind = "parameter"
	ScopePackage     ScopeKind = "package"
	ScopeGlobal      ScopeKind = "global"
	ScopeLocal       ScopeKind = "local"
)

// ScopeContext is always set by the parser (spec §3 invariant); for
// ScopeLocal it additionally carries the innermost enclosing
// function/method or class/struct that contains the symbol.
type ScopeContext struct {
	Kind ScopeKind

	// Local-only fields.
	Hoisted    bool
	ParentName string // "" if absent
	ParentKind Kind   // zero value if absent
}

// HasParent reports whether a Local scope carries an enclosing
// function/class name.
func (s ScopeContext) HasParent() bool {
	return s.Kind == ScopeLocal && s.ParentName != ""
}

// Symbol is the central entity of the graph: a named, located source
// entity produced by a language parser and decorated by its behavior.
type Symbol struct {
	ID       ids.SymbolId
	FileID   ids.FileId
	Range    ids.Range
	Name     string
	Kind     Kind
	Language ids.LanguageId

	Signature    string // verbatim declarator; display only, never for semantic compare
	ModulePath   string // "" if absent; formatted by the owning behavior
	Visibility   Visibility
	DocComment   string // "" if absent
	ScopeContext ScopeContext
}

// Import is a single specifier from an import/use/require statement. One
// Import is emitted per specifier even when a statement names several.
type Import struct {
	Path       string // source-literal module specifier
	Alias      string // "" if absent
	IsGlob     bool
	IsTypeOnly bool
	FileID     ids.FileId
}

// EdgeKind enumerates resolved relationship kinds (spec §3).
type EdgeKind string

const (
	EdgeCalls      EdgeKind = "calls"
	EdgeReferences EdgeKind = "references"
	EdgeImplements EdgeKind = "implements"
	EdgeExtends    EdgeKind = "extends"
	EdgeDefines    EdgeKind = "defines"
	EdgeUses       EdgeKind = "uses"
)

// Edge is a resolved, directed relationship between two concrete symbols.
type Edge struct {
	From     ids.SymbolId
	To       ids.SymbolId
	Kind     EdgeKind
	Metadata string // "" if absent, e.g. a receiver expression
}

// File is the persisted record of an indexed source file.
type File struct {
	ID           ids.FileId
	AbsolutePath string
	ContentSHA   string
	Language     ids.LanguageId
	MTimeUnix    int64
	SymbolCount  int
}
