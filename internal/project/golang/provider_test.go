package golang

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/lang"
)

func TestRebuildCacheReadsModuleAndReplace(t *testing.T) {
	root := t.TempDir()
	goMod := `module github.com/example/widgets

go 1.23

require (
	github.com/foo/bar v1.0.0
)

replace github.com/foo/bar => ../local/bar

replace (
	github.com/baz/qux v0.1.0 => github.com/baz/qux v0.2.0
)
`
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte(goMod), 0o644); err != nil {
		t.Fatalf("write go.mod: %v", err)
	}

	s := lang.Settings{
		WorkspaceRoot: root,
		IndexRoot:     t.TempDir(),
		ProjectConfigFiles: map[ids.LanguageId][]string{
			languageID: {"go.mod"},
		},
	}
	p, err := New(s)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.RebuildCache(s); err != nil {
		t.Fatalf("RebuildCache: %v", err)
	}

	rule, ok := p.RuleFor(filepath.Join(root, "internal", "widget.go"))
	if !ok {
		t.Fatalf("expected a rule covering the module tree")
	}
	if rule.BasePath != "github.com/example/widgets" {
		t.Fatalf("BasePath = %q", rule.BasePath)
	}
	if rule.Aliases["github.com/foo/bar"] != "../local/bar" {
		t.Fatalf("expected single-line replace alias, got %+v", rule.Aliases)
	}
	if rule.Aliases["github.com/baz/qux"] != "github.com/baz/qux" {
		t.Fatalf("expected block-form replace alias, got %+v", rule.Aliases)
	}
}
