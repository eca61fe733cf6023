package python

import (
	"path/filepath"
	"strings"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/inherit"
	"github.com/latticecode/lattice/internal/lang"
	"github.com/latticecode/lattice/internal/resolve"
	"github.com/latticecode/lattice/internal/symstore"
)

// Behavior implements lang.Behavior for Python (spec §4.E).
type Behavior struct {
	lang.BaseBehavior
}

func NewBehavior() *Behavior {
	b := &Behavior{}
	b.BaseBehavior = lang.BaseBehavior{Format: b.FormatModulePath, Parse: b.ParseVisibility}
	return b
}

func (b *Behavior) FormatModulePath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}

func (b *Behavior) ModuleSeparator() string { return "." }

// ParseVisibility applies Python's underscore convention (spec §4.E):
// dunder methods are always Public, leading "__" is Private, leading
// "_" is Module, else Public.
func (b *Behavior) ParseVisibility(signature string) symstore.Visibility {
	name := strings.TrimSpace(signature)
	switch {
	case strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__"):
		return symstore.VisibilityPublic
	case strings.HasPrefix(name, "__"):
		return symstore.VisibilityPrivate
	case strings.HasPrefix(name, "_"):
		return symstore.VisibilityModule
	default:
		return symstore.VisibilityPublic
	}
}

// ImportMatchesSymbol implements spec §4.E: exact match; relative
// `.pkg`/`..pkg` resolved against importingModule. Any other absolute
// import matches when the symbol's module path ends with `.<import>` or
// starts with `<import>.`; the packages of importingModule and the
// symbol are not compared.
func (b *Behavior) ImportMatchesSymbol(importPath, symbolModulePath, importingModule string) bool {
	if importPath == symbolModulePath {
		return true
	}
	if strings.HasPrefix(importPath, ".") {
		resolved := resolveRelative(importPath, importingModule)
		return resolved == symbolModulePath
	}
	return strings.HasSuffix(symbolModulePath, "."+importPath) || strings.HasPrefix(symbolModulePath, importPath+".")
}

func resolveRelative(importPath, importingModule string) string {
	dots := 0
	for dots < len(importPath) && importPath[dots] == '.' {
		dots++
	}
	rest := importPath[dots:]
	parts := strings.Split(importingModule, ".")
	// One leading dot means "this package"; each extra dot climbs one
	// level further up the package hierarchy.
	climb := dots - 1
	if climb > len(parts) {
		climb = len(parts)
	}
	base := parts[:len(parts)-climb]
	if rest == "" {
		return strings.Join(base, ".")
	}
	return strings.Join(append(base, rest), ".")
}

// ModulePathFromFile applies the `__init__.py` package-representative
// rule (spec §4.E).
func (b *Behavior) ModulePathFromFile(absolutePath, workspaceRoot string) (string, bool) {
	rel, err := filepath.Rel(workspaceRoot, absolutePath)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
	if strings.HasSuffix(rel, "/__init__") {
		rel = strings.TrimSuffix(rel, "/__init__")
	}
	return strings.ReplaceAll(rel, "/", "."), true
}

func (b *Behavior) SupportsTraits() bool          { return false }
func (b *Behavior) SupportsInherentMethods() bool { return false }

func (b *Behavior) CreateResolutionContext(fileID ids.FileId) resolve.Context {
	return resolve.NewPythonContext(fileID)
}

func (b *Behavior) CreateInheritanceResolver() inherit.Resolver {
	return inherit.NewPythonResolver()
}
