package php

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

// Behavior implements lang.Behavior for PHP (spec §4.E).
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
	return strings.TrimRight(base, "\\") + "\\" + name
}

func (b *Behavior) ModuleSeparator() string { return "\\" }

// ParseVisibility applies the modifier-keyword rule shared by
// PHP/TypeScript/C# (spec §4.E).
func (b *Behavior) ParseVisibility(signature string) symstore.Visibility {
	switch {
	case strings.Contains(signature, "private"):
		return symstore.VisibilityPrivate
	case strings.Contains(signature, "protected"):
		return symstore.VisibilityProtected
	default:
		return symstore.VisibilityPublic
	}
}

// ImportMatchesSymbol matches absolute namespace paths (`\A\B`) exactly
// (spec §4.E).
func (b *Behavior) ImportMatchesSymbol(importPath, symbolModulePath, importingModule string) bool {
	return strings.TrimPrefix(importPath, "\\") == strings.TrimPrefix(symbolModulePath, "\\")
}

// ModulePathFromFile has no fixed PSR-4 mapping at the behavior level;
// the actual base-namespace resolution lives in the PHP project
// provider (internal/project/php), which reads composer.json. Here we
// fall back to a slash-to-backslash rendering of the workspace-relative
// path.
func (b *Behavior) ModulePathFromFile(absolutePath, workspaceRoot string) (string, bool) {
	rel, err := filepath.Rel(workspaceRoot, absolutePath)
	if err != nil {
		return "", false
	}
	rel = strings.TrimSuffix(filepath.ToSlash(rel), ".php")
	return strings.ReplaceAll(rel, "/", "\\"), true
}

func (b *Behavior) SupportsTraits() bool          { return true }
func (b *Behavior) SupportsInherentMethods() bool { return false }

func (b *Behavior) CreateResolutionContext(fileID ids.FileId) resolve.Context {
	return resolve.NewPHPContext(fileID)
}

func (b *Behavior) CreateInheritanceResolver() inherit.Resolver {
	return inherit.NewPHPResolver(b.Logger)
}
