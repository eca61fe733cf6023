package inherit

import "testing"

func TestSingleResolverParentChain(t *testing.T) {
	r := NewSingleResolver()
	r.AddInheritance("Manager", "Employee", Extends)
	r.AddInheritance("Employee", "Person", Extends)
	r.AddClassMethods("Person", []string{"name"})

	owner, ok := r.ResolveMethod("Manager", "name")
	if !ok || owner != "Person" {
		t.Fatalf("expected name to resolve through the Employee->Person chain, got %s, %v", owner, ok)
	}
}

func TestSingleResolverImplementsDoesNotAffectDispatch(t *testing.T) {
	r := NewSingleResolver()
	r.AddInheritance("Widget", "Drawable", Implements)
	r.AddClassMethods("Drawable", []string{"render"})

	if _, ok := r.ResolveMethod("Widget", "render"); ok {
		t.Fatal("implements edges must not contribute to method dispatch order")
	}
	if !r.IsSubtype("Widget", "Drawable") {
		t.Error("expected Widget to be a subtype of the interface it implements")
	}
}

func TestSingleResolverIsSubtypeThroughInterfaceChain(t *testing.T) {
	r := NewSingleResolver()
	r.AddInheritance("Square", "Shape", Implements)
	r.AddInheritance("Shape", "Comparable", Implements)

	if !r.IsSubtype("Square", "Comparable") {
		t.Error("expected Square to be a subtype of Comparable through Shape")
	}
}
