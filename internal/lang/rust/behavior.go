package rust

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/inherit"
	"github.com/latticecode/lattice/internal/lang"
	"github.com/latticecode/lattice/internal/resolve"
	"github.com/latticecode/lattice/internal/symstore"
)

// Behavior implements lang.Behavior for Rust (spec §4.E).
type Behavior struct {
	lang.BaseBehavior
	Logger *slog.Logger
}

func NewBehavior() *Behavior {
	b := &Behavior{Logger: slog.Default()}
	b.BaseBehavior = lang.BaseBehavior{Format: b.FormatModulePath, Parse: b.ParseVisibility}
	return b
}

func (b *Behavior) FormatModulePath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "::" + name
}

func (b *Behavior) ModuleSeparator() string { return "::" }

// ParseVisibility applies the `pub`/`pub(crate)`/`pub(super)` rule
// (spec §4.E).
func (b *Behavior) ParseVisibility(signature string) symstore.Visibility {
	switch {
	case strings.Contains(signature, "pub(crate)"):
		return symstore.VisibilityCrate
	case strings.Contains(signature, "pub(super)"):
		return symstore.VisibilityModule
	case strings.Contains(signature, "pub"):
		return symstore.VisibilityPublic
	default:
		return symstore.VisibilityPrivate
	}
}

// ImportMatchesSymbol matches `crate::…` and `self::…`/`super::…`
// re-anchored at the importing module (spec §4.E).
func (b *Behavior) ImportMatchesSymbol(importPath, symbolModulePath, importingModule string) bool {
	switch {
	case strings.HasPrefix(importPath, "crate::"):
		return importPath == symbolModulePath || strings.TrimPrefix(importPath, "crate::") == symbolModulePath
	case strings.HasPrefix(importPath, "self::"):
		return importingModule+"::"+strings.TrimPrefix(importPath, "self::") == symbolModulePath
	case strings.HasPrefix(importPath, "super::"):
		parent := importingModule
		if i := strings.LastIndex(importingModule, "::"); i >= 0 {
			parent = importingModule[:i]
		}
		return parent+"::"+strings.TrimPrefix(importPath, "super::") == symbolModulePath
	default:
		return importPath == symbolModulePath
	}
}

// ModulePathFromFile applies Rust's `mod.rs` vs `<name>.rs` convention.
func (b *Behavior) ModulePathFromFile(absolutePath, workspaceRoot string) (string, bool) {
	rel, err := filepath.Rel(workspaceRoot, absolutePath)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(strings.TrimSuffix(rel, ".rs"))
	if strings.HasSuffix(rel, "/mod") {
		rel = strings.TrimSuffix(rel, "/mod")
	}
	rel = strings.TrimPrefix(rel, "src/")
	if rel == "lib" || rel == "main" {
		return "crate", true
	}
	return "crate::" + strings.ReplaceAll(rel, "/", "::"), true
}

func (b *Behavior) SupportsTraits() bool          { return true }
func (b *Behavior) SupportsInherentMethods() bool { return true }

func (b *Behavior) CreateResolutionContext(fileID ids.FileId) resolve.Context {
	return resolve.NewRustContext(fileID)
}

func (b *Behavior) CreateInheritanceResolver() inherit.Resolver {
	return inherit.NewRustResolver(b.Logger)
}
