package php

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

func TestParseClassInterfaceTraitAndFunction(t *testing.T) {
	src := `<?php

trait Loggable {
    public function log() {}
}

interface Animal {
    public function speak();
}

class Dog implements Animal {
    use Loggable;

    public function speak() {
        return "woof";
    }
}

function greet($name) {
    return "hello " . $name;
}
`
	p, _ := New()
	symbols, err := p.Parse([]byte(src), mustFileID(t), ids.NewCounter())
	if err != nil {
		t.Fatal(err)
	}

	assertHasSymbol(t, symbols, "Loggable", symstore.KindTrait)
	assertHasSymbol(t, symbols, "Animal", symstore.KindInterface)
	assertHasSymbol(t, symbols, "Dog", symstore.KindClass)
	assertHasSymbol(t, symbols, "speak", symstore.KindMethod)
	assertHasSymbol(t, symbols, "greet", symstore.KindFunction)
}

func TestFindImplementationsAndTraitUses(t *testing.T) {
	src := `<?php

trait Loggable {}
interface Animal {}
class Dog implements Animal {
    use Loggable;
}
`
	p, _ := New()
	impls, err := p.FindImplementations([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(impls) != 1 || impls[0].Derived != "Dog" || impls[0].Base != "Animal" {
		t.Fatalf("expected (Dog, Animal), got %v", impls)
	}

	traitUses, err := p.FindTraitUses([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(traitUses) != 1 || traitUses[0].Derived != "Dog" || traitUses[0].Base != "Loggable" {
		t.Fatalf("expected (Dog, Loggable), got %v", traitUses)
	}
}

func TestFindCallsAndMethodAndStaticCalls(t *testing.T) {
	src := `<?php

function run() {
    helper();
    $obj->method();
    ClassName::staticMethod();
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
	var sawMember, sawStatic bool
	for _, m := range methodCalls {
		if m.MethodName == "method" {
			sawMember = true
		}
		if m.Receiver == "ClassName" && m.MethodName == "staticMethod" {
			sawStatic = true
		}
	}
	if !sawMember {
		t.Errorf("expected $obj->method() in method calls, got %v", methodCalls)
	}
	if !sawStatic {
		t.Errorf("expected ClassName::staticMethod() in method calls, got %v", methodCalls)
	}
}
