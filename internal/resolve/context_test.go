package resolve

import (
	"testing"

	"github.com/latticecode/lattice/internal/symstore"
)

func TestAddSymbolWithContextMapsEveryScopeKind(t *testing.T) {
	cases := []struct {
		kind  symstore.ScopeKind
		level Level
	}{
		{symstore.ScopeLocal, Local},
		{symstore.ScopeClassMember, Local},
		{symstore.ScopeParameter, Local},
		{symstore.ScopeModule, Module},
		{symstore.ScopePackage, Package},
		{symstore.ScopeGlobal, Global},
	}
	for _, tc := range cases {
		c := NewOrderedContext(mustFileID(t))
		c.AddSymbolWithContext("x", 1, symstore.ScopeContext{Kind: tc.kind})
		id, ok := c.lookup("x", []Level{tc.level})
		if !ok || id != 1 {
			t.Errorf("%s: expected x at level %s, got %d, %v", tc.kind, tc.level, id, ok)
		}
	}
}

func TestPushAndClearEnclosingScope(t *testing.T) {
	c := NewOrderedContext(mustFileID(t))
	c.AddSymbol("outerVar", 1, Local)

	c.PushEnclosingScope()
	c.AddSymbol("innerVar", 2, Local)

	if id, ok := c.lookup("innerVar", []Level{Local}); !ok || id != 2 {
		t.Fatalf("expected innerVar visible in the fresh local scope, got %d, %v", id, ok)
	}
	if _, ok := c.lookup("outerVar", []Level{Local}); ok {
		t.Fatal("outerVar should not be visible in the Local level after pushing a nested scope")
	}
	if id, ok := c.lookup("outerVar", []Level{Enclosing}); !ok || id != 1 {
		t.Fatalf("expected outerVar visible via Enclosing, got %d, %v", id, ok)
	}

	c.ClearLocalScope()
	if id, ok := c.lookup("outerVar", []Level{Local}); !ok || id != 1 {
		t.Fatalf("expected ClearLocalScope to restore the enclosing scope, got %d, %v", id, ok)
	}
}

func TestClearLocalScopeWithNoEnclosingStartsEmpty(t *testing.T) {
	c := NewOrderedContext(mustFileID(t))
	c.AddSymbol("x", 1, Local)
	c.ClearLocalScope()
	if _, ok := c.lookup("x", []Level{Local}); ok {
		t.Fatal("expected Local scope to be empty after ClearLocalScope with nothing enclosing")
	}
}

func TestLookupImportFallsBackToTypeSpace(t *testing.T) {
	c := NewOrderedContext(mustFileID(t))
	c.AddImportSymbol("Value", 1, false)
	c.AddTypeSymbol("TypeOnly", 2)

	if _, ok := c.lookupImport("TypeOnly", false); ok {
		t.Fatal("expected TypeOnly to be invisible to a value-space import lookup")
	}
	if id, ok := c.lookupImport("TypeOnly", true); !ok || id != 2 {
		t.Fatalf("expected TypeOnly visible when wantType is set, got %d, %v", id, ok)
	}
	if id, ok := c.lookupImport("Value", true); !ok || id != 1 {
		t.Fatalf("expected Value still visible in a type-space lookup via import fallback, got %d, %v", id, ok)
	}
}
