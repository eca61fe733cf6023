package inherit

import "testing"

func TestRustResolverInherentBeforeTrait(t *testing.T) {
	r := NewRustResolver(nil)
	r.AddInheritance("Dog", "Animal", Implements)
	r.AddInherentMethods("Dog", []string{"bark"})
	r.AddTraitMethods("Animal", []string{"bark"})

	owner, ok := r.ResolveMethod("Dog", "bark")
	if !ok || owner != "Dog" {
		t.Fatalf("expected inherent bark to win on Dog, got %s, %v", owner, ok)
	}
}

func TestRustResolverFallsBackToTrait(t *testing.T) {
	r := NewRustResolver(nil)
	r.AddInheritance("Dog", "Animal", Implements)
	r.AddTraitMethods("Animal", []string{"speak"})

	owner, ok := r.ResolveMethod("Dog", "speak")
	if !ok || owner != "Animal" {
		t.Fatalf("expected speak to resolve via the Animal trait, got %s, %v", owner, ok)
	}
}

func TestRustResolverAmbiguousTraitPicksFirstRegistered(t *testing.T) {
	r := NewRustResolver(nil)
	r.AddInheritance("Widget", "Drawable", Implements)
	r.AddInheritance("Widget", "Paintable", Implements)
	r.AddTraitMethods("Drawable", []string{"render"})
	r.AddTraitMethods("Paintable", []string{"render"})

	owner, ok := r.ResolveMethod("Widget", "render")
	if !ok || owner != "Drawable" {
		t.Fatalf("expected render to resolve to the first-registered trait Drawable, got %s, %v", owner, ok)
	}
}

func TestRustResolverNoBaseClasses(t *testing.T) {
	r := NewRustResolver(nil)
	r.AddInheritance("Dog", "Animal", Implements)

	if r.IsSubtype("Animal", "Dog") {
		t.Error("Rust traits never make the trait itself a subtype of the implementer")
	}
	if !r.IsSubtype("Dog", "Animal") {
		t.Error("expected Dog to be a subtype of the trait it implements")
	}
}
