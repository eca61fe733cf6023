package resolve

import (
	"testing"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/symstore"
)

func mustFileID(t *testing.T) ids.FileId {
	t.Helper()
	id, err := ids.NewFileId(1)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

// TestGoContextResolvesModuleLevelSymbol guards against the bug where
// Go's order omitted Module: every top-level func/type is registered
// with ScopeContext{Kind: ScopeModule} (internal/lang/golang/parser.go),
// so a same-file top-level symbol must resolve by bare name.
func TestGoContextResolvesModuleLevelSymbol(t *testing.T) {
	c := NewGoContext(mustFileID(t))
	c.AddSymbolWithContext("Helper", 1, symstore.ScopeContext{Kind: symstore.ScopeModule})

	id, ok := c.Resolve("Helper")
	if !ok || id != 1 {
		t.Fatalf("expected Helper to resolve to 1, got %d, %v", id, ok)
	}
}

// TestPythonContextResolvesModuleLevelSymbol is spec §8 end-to-end
// Scenario 2 (LEGB): a module-level def/class must resolve as the
// Global step of Local → Enclosing → Global once locals are cleared.
func TestPythonContextResolvesModuleLevelSymbol(t *testing.T) {
	c := NewPythonContext(mustFileID(t))
	c.AddSymbolWithContext("x", 7, symstore.ScopeContext{Kind: symstore.ScopeModule})

	id, ok := c.Resolve("x")
	if !ok || id != 7 {
		t.Fatalf("expected module-level x to resolve to 7, got %d, %v", id, ok)
	}

	c.ClearLocalScope()
	id, ok = c.Resolve("x")
	if !ok || id != 7 {
		t.Fatalf("after ClearLocalScope, expected x to still resolve to module-level 7, got %d, %v", id, ok)
	}
}

// TestPythonContextLocalShadowsModule exercises the Local step of LEGB:
// a local binding with the same name as a module-level one must win
// until the local scope is cleared.
func TestPythonContextLocalShadowsModule(t *testing.T) {
	c := NewPythonContext(mustFileID(t))
	c.AddSymbolWithContext("x", 1, symstore.ScopeContext{Kind: symstore.ScopeModule})
	c.AddSymbolWithContext("x", 2, symstore.ScopeContext{Kind: symstore.ScopeLocal})

	id, ok := c.Resolve("x")
	if !ok || id != 2 {
		t.Fatalf("expected local x (2) to shadow module x, got %d, %v", id, ok)
	}

	c.ClearLocalScope()
	id, ok = c.Resolve("x")
	if !ok || id != 1 {
		t.Fatalf("after ClearLocalScope, expected module-level x (1), got %d, %v", id, ok)
	}
}

func TestRustContextOrderIncludesModule(t *testing.T) {
	c := NewRustContext(mustFileID(t))
	c.AddSymbolWithContext("init_config_file", 42, symstore.ScopeContext{Kind: symstore.ScopeModule})

	id, ok := c.Resolve("init_config_file")
	if !ok || id != 42 {
		t.Fatalf("expected init_config_file to resolve to 42, got %d, %v", id, ok)
	}
}

func TestPHPContextOrderIncludesModule(t *testing.T) {
	c := NewPHPContext(mustFileID(t))
	c.AddSymbolWithContext("helper", 9, symstore.ScopeContext{Kind: symstore.ScopeModule})

	id, ok := c.Resolve("helper")
	if !ok || id != 9 {
		t.Fatalf("expected helper to resolve to 9, got %d, %v", id, ok)
	}
}

func TestGoContextImportShadowsPackage(t *testing.T) {
	c := NewGoContext(mustFileID(t))
	c.AddSymbolWithContext("Logger", 1, symstore.ScopeContext{Kind: symstore.ScopeModule})
	c.AddImportSymbol("Logger", 2, false)

	id, ok := c.Resolve("Logger")
	if !ok || id != 2 {
		t.Fatalf("expected imported Logger (2) to be checked before package scope, got %d, %v", id, ok)
	}
}
