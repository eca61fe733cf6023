package resolve

import "testing"

func TestTypeScriptContextResolveOrder(t *testing.T) {
	c := NewTypeScriptContext(mustFileID(t))
	c.AddSymbol("x", 1, Module)
	c.AddImportSymbol("x", 2, false)

	id, ok := c.Resolve("x")
	if !ok || id != 1 {
		t.Fatalf("expected Module-level x (1) to be checked before the import scope, got %d, %v", id, ok)
	}
}

func TestTypeScriptContextResolveTypeConsultsTypeSpace(t *testing.T) {
	ts, ok := NewTypeScriptContext(mustFileID(t)).(*typeScriptContext)
	if !ok {
		t.Fatal("expected NewTypeScriptContext to return a *typeScriptContext")
	}
	ts.AddImportSymbol("Shape", 1, true)

	if _, found := ts.Resolve("Shape"); found {
		t.Fatal("expected a type-only import to be invisible to a value-space Resolve")
	}
	if id, found := ts.ResolveType("Shape"); !found || id != 1 {
		t.Fatalf("expected ResolveType to find the type-only import Shape, got %d, %v", id, found)
	}
}
