package php

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/lang"
)

func TestRebuildCacheReadsPsr4(t *testing.T) {
	root := t.TempDir()
	composer := `{
  "autoload": {
    "psr-4": {
      "App\\": "src/"
    }
  }
}`
	if err := os.WriteFile(filepath.Join(root, "composer.json"), []byte(composer), 0o644); err != nil {
		t.Fatalf("write composer.json: %v", err)
	}

	s := lang.Settings{
		WorkspaceRoot: root,
		IndexRoot:     t.TempDir(),
		ProjectConfigFiles: map[ids.LanguageId][]string{
			languageID: {"composer.json"},
		},
	}
	p, err := New(s)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.RebuildCache(s); err != nil {
		t.Fatalf("RebuildCache: %v", err)
	}

	file := filepath.Join(root, "src", "Controller", "HomeController.php")
	rule, ok := p.RuleFor(file)
	if !ok {
		t.Fatalf("expected a rule covering %s", file)
	}

	class, ok := NamespaceForFile(rule, file)
	if !ok {
		t.Fatalf("expected NamespaceForFile to resolve")
	}
	if class != `App\Controller\HomeController` {
		t.Fatalf("NamespaceForFile() = %q", class)
	}
}
