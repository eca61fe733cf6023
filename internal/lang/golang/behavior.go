package golang

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/inherit"
	"github.com/latticecode/lattice/internal/lang"
	"github.com/latticecode/lattice/internal/resolve"
	"github.com/latticecode/lattice/internal/symstore"
)

// Behavior implements lang.Behavior for Go (spec §4.E).
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

// ParseVisibility applies Go's capitalisation rule (spec §4.E).
func (b *Behavior) ParseVisibility(signature string) symstore.Visibility {
	name := strings.TrimSpace(signature)
	if name == "" {
		return symstore.VisibilityPackagePrivate
	}
	r := []rune(name)[0]
	if unicode.IsUpper(r) {
		return symstore.VisibilityPublic
	}
	return symstore.VisibilityPackagePrivate
}

// ImportMatchesSymbol matches a Go import path against a package's
// module path; Go has no relative imports, so this is an exact match or
// a match of the import path's last segment against the end of
// symbolModulePath. importingModule is not consulted.
func (b *Behavior) ImportMatchesSymbol(importPath, symbolModulePath, importingModule string) bool {
	if importPath == symbolModulePath {
		return true
	}
	return strings.HasSuffix(symbolModulePath, "/"+lastSegment(importPath))
}

func lastSegment(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// ModulePathFromFile derives the Go import path of the package
// containing absolutePath by taking its directory relative to
// workspaceRoot. Resolving the module prefix from go.mod is the
// project-resolution provider's job (internal/project/golang), not the
// behavior's (spec §4.H); here we report the workspace-relative
// directory as a best-effort path.
func (b *Behavior) ModulePathFromFile(absolutePath, workspaceRoot string) (string, bool) {
	rel, err := filepath.Rel(workspaceRoot, filepath.Dir(absolutePath))
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return "", true
	}
	return rel, true
}

func (b *Behavior) SupportsTraits() bool          { return false }
func (b *Behavior) SupportsInherentMethods() bool { return true }

func (b *Behavior) CreateResolutionContext(fileID ids.FileId) resolve.Context {
	return resolve.NewGoContext(fileID)
}

func (b *Behavior) CreateInheritanceResolver() inherit.Resolver {
	return inherit.NewSingleResolver()
}
