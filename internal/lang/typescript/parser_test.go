package typescript

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

func TestParseClassInterfaceAndFunction(t *testing.T) {
	src := `
interface Shape {
    area(): number;
}

class Circle implements Shape {
    radius: number;
    area(): number {
        return 3.14 * this.radius * this.radius;
    }
}

function describe(s: Shape): string {
    return "shape";
}
`
	p, _ := New()
	symbols, err := p.Parse([]byte(src), mustFileID(t), ids.NewCounter())
	if err != nil {
		t.Fatal(err)
	}

	assertHasSymbol(t, symbols, "Shape", symstore.KindInterface)
	assertHasSymbol(t, symbols, "Circle", symstore.KindClass)
	assertHasSymbol(t, symbols, "describe", symstore.KindFunction)

	for _, s := range symbols {
		if s.Name == "area" && s.Kind == symstore.KindMethod && s.ScopeContext.Kind == symstore.ScopeClassMember {
			return
		}
	}
	t.Error("expected area method on Circle scoped as ScopeClassMember")
}

func TestFindImplementsAndExtends(t *testing.T) {
	src := `
interface Shape {}
class Circle implements Shape {}
class Ellipse extends Circle {}
`
	p, _ := New()
	impls, err := p.FindImplementations([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(impls) != 1 || impls[0].Derived != "Circle" || impls[0].Base != "Shape" {
		t.Fatalf("expected (Circle, Shape), got %v", impls)
	}

	extends, err := p.FindExtends([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(extends) != 1 || extends[0].Derived != "Ellipse" || extends[0].Base != "Circle" {
		t.Fatalf("expected (Ellipse, Circle), got %v", extends)
	}
}

func TestFindCallsAndMethodCalls(t *testing.T) {
	src := `
function run() {
    helper();
    obj.method();
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
		if m.Receiver == "obj" && m.MethodName == "method" {
			foundMethod = true
		}
	}
	if !foundMethod {
		t.Errorf("expected obj.method() in method calls, got %v", methodCalls)
	}
}

func TestFindImportsTypeOnlySpecifier(t *testing.T) {
	src := `import { type Shape, Circle } from "./shapes";`
	p, _ := New()
	imports, err := p.FindImports([]byte(src), mustFileID(t))
	if err != nil {
		t.Fatal(err)
	}
	var sawTypeOnly, sawValue bool
	for _, imp := range imports {
		if imp.Alias == "Shape" && imp.IsTypeOnly {
			sawTypeOnly = true
		}
		if imp.Alias == "Circle" && !imp.IsTypeOnly {
			sawValue = true
		}
	}
	if !sawTypeOnly {
		t.Errorf("expected a type-only import for Shape, got %v", imports)
	}
	if !sawValue {
		t.Errorf("expected a value import for Circle, got %v", imports)
	}
}
