package golang

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

func assertHasSymbol(t *testing.T, symbols []symstore.Symbol, name string, kind symstore.Kind) {
	t.Helper()
	for _, s := range symbols {
		if s.Name == name && s.Kind == kind {
			return
		}
	}
	got := make([]string, len(symbols))
	for i, s := range symbols {
		got[i] = s.Name + " (" + string(s.Kind) + ")"
	}
	t.Errorf("missing symbol %s (%s); have: %v", name, kind, got)
}

func TestParseFunctionsAndTypes(t *testing.T) {
	src := `
package main

// Greet says hello.
func Greet(name string) string {
	return "hello " + name
}

type Animal interface {
	Speak() string
}

type Dog struct {
	Name string
}

func (d *Dog) Speak() string {
	return d.Name
}
`
	p, _ := New()
	symbols, err := p.Parse([]byte(src), mustFileID(t), ids.NewCounter())
	if err != nil {
		t.Fatal(err)
	}

	assertHasSymbol(t, symbols, "Greet", symstore.KindFunction)
	assertHasSymbol(t, symbols, "Animal", symstore.KindInterface)
	assertHasSymbol(t, symbols, "Dog", symstore.KindStruct)
	assertHasSymbol(t, symbols, "Speak", symstore.KindMethod)

	for _, s := range symbols {
		if s.Name == "Greet" && s.ScopeContext.Kind != symstore.ScopeModule {
			t.Errorf("Greet: expected ScopeModule, got %v", s.ScopeContext.Kind)
		}
	}
}

func TestParseShortVarDeclIsLocal(t *testing.T) {
	src := `
package main

func run() {
	x := 1
	_ = x
}
`
	p, _ := New()
	symbols, err := p.Parse([]byte(src), mustFileID(t), ids.NewCounter())
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range symbols {
		if s.Name == "x" {
			if s.ScopeContext.Kind != symstore.ScopeLocal {
				t.Errorf("x: expected ScopeLocal, got %v", s.ScopeContext.Kind)
			}
			return
		}
	}
	t.Fatal("missing symbol x")
}

func TestFindCallsAndMethodCalls(t *testing.T) {
	src := `
package main

func helper() {}

func run() {
	helper()
	obj.Method()
}
`
	p, _ := New()
	calls, err := p.FindCalls([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, c := range calls {
		if c.Name == "helper" && c.Context == "run" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected bare call to helper from run, got %v", calls)
	}

	methodCalls, err := p.FindMethodCalls([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	foundMethod := false
	for _, m := range methodCalls {
		if m.Receiver == "obj" && m.MethodName == "Method" {
			foundMethod = true
		}
	}
	if !foundMethod {
		t.Errorf("expected obj.Method() in method calls, got %v", methodCalls)
	}
}

func TestFindImports(t *testing.T) {
	src := `
package main

import (
	"fmt"
	str "strings"
)
`
	p, _ := New()
	imports, err := p.FindImports([]byte(src), mustFileID(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(imports) != 2 {
		t.Fatalf("expected 2 imports, got %d: %v", len(imports), imports)
	}
}
