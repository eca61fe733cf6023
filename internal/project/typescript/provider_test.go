package typescript

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/lang"
	"github.com/latticecode/lattice/internal/project"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestRebuildCacheMergesExtendsChain(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tsconfig.base.json"), `{
  "compilerOptions": {
    "baseUrl": ".",
    "paths": { "@shared/*": ["libs/shared/*"] }
  }
}`)
	writeFile(t, filepath.Join(root, "tsconfig.json"), `{
  // a comment tsconfig.json permits but encoding/json rejects
  "extends": "./tsconfig.base.json",
  "compilerOptions": {
    "paths": { "@app/*": ["src/*"] }
  }
}`)

	s := lang.Settings{
		WorkspaceRoot: root,
		IndexRoot:     t.TempDir(),
		ProjectConfigFiles: map[ids.LanguageId][]string{
			languageID: {"tsconfig.json"},
		},
	}

	p, err := New(s)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.RebuildCache(s); err != nil {
		t.Fatalf("RebuildCache: %v", err)
	}

	rule, ok := p.RuleFor(filepath.Join(root, "src", "index.ts"))
	if !ok {
		t.Fatalf("expected RuleFor to find a governing config")
	}
	if rule.Aliases["@shared/*"] != "libs/shared/*" {
		t.Fatalf("expected inherited alias from base config, got %+v", rule.Aliases)
	}
	if rule.Aliases["@app/*"] != "src/*" {
		t.Fatalf("expected child's own alias, got %+v", rule.Aliases)
	}
	if rule.BasePath != "." {
		t.Fatalf("expected inherited baseUrl, got %q", rule.BasePath)
	}

	enhanced := project.NewEnhancer(rule).Enhance("@app/components/Button")
	if enhanced != "./src/components/Button" {
		t.Fatalf("Enhance() = %q", enhanced)
	}
}

func TestChildOverridesParentAlias(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "base.json"), `{
  "compilerOptions": { "paths": { "@x/*": ["old/*"] } }
}`)
	writeFile(t, filepath.Join(root, "tsconfig.json"), `{
  "extends": "./base.json",
  "compilerOptions": { "paths": { "@x/*": ["new/*"] } }
}`)

	s := lang.Settings{
		WorkspaceRoot: root,
		IndexRoot:     t.TempDir(),
		ProjectConfigFiles: map[ids.LanguageId][]string{
			languageID: {"tsconfig.json"},
		},
	}
	p, err := New(s)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.RebuildCache(s); err != nil {
		t.Fatalf("RebuildCache: %v", err)
	}
	rule, ok := p.RuleFor(filepath.Join(root, "anything.ts"))
	if !ok {
		t.Fatalf("expected a rule")
	}
	if rule.Aliases["@x/*"] != "new/*" {
		t.Fatalf("expected child alias to win, got %q", rule.Aliases["@x/*"])
	}
}
