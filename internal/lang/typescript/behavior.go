package typescript

import (
	"path/filepath"
	"strings"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/inherit"
	"github.com/latticecode/lattice/internal/lang"
	"github.com/latticecode/lattice/internal/resolve"
	"github.com/latticecode/lattice/internal/symstore"
)

// Behavior implements lang.Behavior for TypeScript (spec §4.E).
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

// ImportMatchesSymbol implements spec §4.E: exact match; `./x` resolved
// by joining with the importing module's folder; `./folder` may match
// `folder.index`; scoped packages match exactly.
func (b *Behavior) ImportMatchesSymbol(importPath, symbolModulePath, importingModule string) bool {
	if importPath == symbolModulePath {
		return true
	}
	if strings.HasPrefix(importPath, ".") {
		dir := importingModule
		if i := strings.LastIndex(importingModule, "/"); i >= 0 {
			dir = importingModule[:i]
		} else {
			dir = ""
		}
		joined := joinRelative(dir, importPath)
		if joined == symbolModulePath || joined+"/index" == symbolModulePath {
			return true
		}
		return false
	}
	return false
}

func joinRelative(dir, rel string) string {
	parts := strings.Split(dir, "/")
	for _, seg := range strings.Split(rel, "/") {
		switch seg {
		case ".", "":
			continue
		case "..":
			if len(parts) > 0 {
				parts = parts[:len(parts)-1]
			}
		default:
			parts = append(parts, seg)
		}
	}
	return strings.Join(parts, "/")
}

// ModulePathFromFile strips the extension and reports the
// workspace-relative slash path, matching a bare `import './x'`
// specifier.
func (b *Behavior) ModulePathFromFile(absolutePath, workspaceRoot string) (string, bool) {
	rel, err := filepath.Rel(workspaceRoot, absolutePath)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
	return rel, true
}

func (b *Behavior) SupportsTraits() bool          { return false }
func (b *Behavior) SupportsInherentMethods() bool { return false }

func (b *Behavior) CreateResolutionContext(fileID ids.FileId) resolve.Context {
	return resolve.NewTypeScriptContext(fileID)
}

func (b *Behavior) CreateInheritanceResolver() inherit.Resolver {
	return inherit.NewSingleResolver()
}
