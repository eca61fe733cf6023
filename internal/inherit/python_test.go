package inherit

import (
	"reflect"
	"testing"
)

// TestPythonResolverDiamondMRO exercises the classic diamond: D(B, C),
// B(A), C(A) — C3 must place B before C, both before A, per spec §8
// property 4's left-to-right declaration preference.
func TestPythonResolverDiamondMRO(t *testing.T) {
	r := NewPythonResolver()
	r.AddInheritance("B", "A", Extends)
	r.AddInheritance("C", "A", Extends)
	r.AddInheritance("D", "B", Extends)
	r.AddInheritance("D", "C", Extends)

	got := r.GetInheritanceChain("D")
	want := []string{"D", "B", "C", "A"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("GetInheritanceChain(D) = %v, want %v", got, want)
	}
}

func TestPythonResolverMethodResolutionFollowsMRO(t *testing.T) {
	r := NewPythonResolver()
	r.AddInheritance("B", "A", Extends)
	r.AddInheritance("C", "A", Extends)
	r.AddInheritance("D", "B", Extends)
	r.AddInheritance("D", "C", Extends)
	r.AddClassMethods("C", []string{"greet"})
	r.AddClassMethods("A", []string{"greet"})

	owner, ok := r.ResolveMethod("D", "greet")
	if !ok || owner != "C" {
		t.Fatalf("expected greet to resolve to C (before A in MRO), got %s, %v", owner, ok)
	}
}

func TestPythonResolverIsSubtype(t *testing.T) {
	r := NewPythonResolver()
	r.AddInheritance("Dog", "Animal", Extends)

	if !r.IsSubtype("Dog", "Animal") {
		t.Error("expected Dog to be a subtype of Animal")
	}
	if r.IsSubtype("Animal", "Dog") {
		t.Error("did not expect Animal to be a subtype of Dog")
	}
}

func TestPythonResolverUnregisteredBaseLinearizesToItself(t *testing.T) {
	r := NewPythonResolver()
	r.AddInheritance("Local", "external.Base", Extends)

	got := r.GetInheritanceChain("Local")
	want := []string{"Local", "external.Base"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("GetInheritanceChain(Local) = %v, want %v", got, want)
	}
}
