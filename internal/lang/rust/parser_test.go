package rust

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

func TestParseStructTraitImpl(t *testing.T) {
	src := `
mod init {
    pub fn init_global_dirs() {}
    pub fn init_config_file() {}
}

struct Dog {
    name: String,
}

trait Animal {
    fn speak(&self);
}

impl Animal for Dog {
    fn speak(&self) {}
}
`
	p, _ := New()
	symbols, err := p.Parse([]byte(src), mustFileID(t), ids.NewCounter())
	if err != nil {
		t.Fatal(err)
	}

	assertHasSymbol(t, symbols, "Dog", symstore.KindStruct)
	assertHasSymbol(t, symbols, "Animal", symstore.KindTrait)
	assertHasSymbol(t, symbols, "init_global_dirs", symstore.KindFunction)
}

// TestFindMethodCallsResolvesMultiSegmentScopedCall is the direct
// regression test for a scoped call whose path is itself a nested
// scoped_identifier (crate::init::init_global_dirs()), as opposed to
// the simpler two-segment Type::method() shape.
func TestFindMethodCallsResolvesMultiSegmentScopedCall(t *testing.T) {
	src := `
fn main() {
    crate::init::init_global_dirs();
}
`
	p, _ := New()
	methodCalls, err := p.FindMethodCalls([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, m := range methodCalls {
		if m.Receiver == "crate::init" && m.MethodName == "init_global_dirs" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected crate::init::init_global_dirs() to resolve with receiver %q and method %q, got %v",
			"crate::init", "init_global_dirs", methodCalls)
	}

	calls, err := p.FindCalls([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range calls {
		if c.Name == "init_global_dirs" {
			t.Fatalf("a scoped call must never also land in FindCalls, got %v", calls)
		}
	}
}

func TestFindMethodCallsTwoSegmentScopedCall(t *testing.T) {
	src := `
fn main() {
    Dog::new();
}
`
	p, _ := New()
	methodCalls, err := p.FindMethodCalls([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, m := range methodCalls {
		if m.Receiver == "Dog" && m.MethodName == "new" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Dog::new() to resolve with receiver Dog and method new, got %v", methodCalls)
	}
}

func TestFindImplementationsPairsTraitAndType(t *testing.T) {
	src := `
impl Animal for Dog {
    fn speak(&self) {}
}
`
	p, _ := New()
	refs, err := p.FindImplementations([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 1 || refs[0].Derived != "Dog" || refs[0].Base != "Animal" {
		t.Fatalf("expected one (Dog, Animal) pair, got %v", refs)
	}
}

func TestFindExtendsAlwaysNil(t *testing.T) {
	p, _ := New()
	refs, err := p.FindExtends([]byte(`struct S;`))
	if err != nil {
		t.Fatal(err)
	}
	if refs != nil {
		t.Fatalf("Rust has no base classes; expected nil, got %v", refs)
	}
}
