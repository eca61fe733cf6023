package python

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

func TestParseClassAndFunctions(t *testing.T) {
	src := `
class Animal:
    """A creature."""

    def speak(self):
        return "..."

def greet(name):
    return "hello " + name
`
	p, _ := New()
	symbols, err := p.Parse([]byte(src), mustFileID(t), ids.NewCounter())
	if err != nil {
		t.Fatal(err)
	}

	assertHasSymbol(t, symbols, "Animal", symstore.KindClass)
	assertHasSymbol(t, symbols, "speak", symstore.KindMethod)
	assertHasSymbol(t, symbols, "greet", symstore.KindFunction)

	for _, s := range symbols {
		switch s.Name {
		case "Animal", "greet":
			if s.ScopeContext.Kind != symstore.ScopeModule {
				t.Errorf("%s: expected ScopeModule, got %v", s.Name, s.ScopeContext.Kind)
			}
		case "speak":
			if s.ScopeContext.Kind != symstore.ScopeClassMember {
				t.Errorf("speak: expected ScopeClassMember, got %v", s.ScopeContext.Kind)
			}
		}
	}
}

func TestParseNestedFunctionIsLocal(t *testing.T) {
	src := `
def outer():
    def inner():
        pass
    return inner
`
	p, _ := New()
	symbols, err := p.Parse([]byte(src), mustFileID(t), ids.NewCounter())
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range symbols {
		if s.Name == "inner" {
			if s.ScopeContext.Kind != symstore.ScopeLocal {
				t.Errorf("inner: expected ScopeLocal, got %v", s.ScopeContext.Kind)
			}
			return
		}
	}
	t.Fatal("missing symbol inner")
}

func TestFindCallsAndMethodCalls(t *testing.T) {
	src := `
def run():
    helper()
    obj.method()
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
		if m.Receiver == "obj" && m.MethodName == "method" {
			foundMethod = true
		}
	}
	if !foundMethod {
		t.Errorf("expected obj.method() in method calls, got %v", methodCalls)
	}
}

func TestFindExtendsOrder(t *testing.T) {
	src := `
class Base1:
    pass

class Base2:
    pass

class Derived(Base1, Base2):
    pass
`
	p, _ := New()
	refs, err := p.FindExtends([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 base classes, got %d: %v", len(refs), refs)
	}
	if refs[0].Base != "Base1" || refs[1].Base != "Base2" {
		t.Errorf("expected declaration order Base1, Base2; got %s, %s", refs[0].Base, refs[1].Base)
	}
}
