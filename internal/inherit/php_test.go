package inherit

import "testing"

func TestPHPResolverClassMethodWinsOverTrait(t *testing.T) {
	r := NewPHPResolver(nil)
	r.AddInheritance("User", "Loggable", Uses)
	r.AddClassMethods("User", []string{"log"})
	r.AddTraitMethods("Loggable", []string{"log"})

	owner, ok := r.ResolveMethod("User", "log")
	if !ok || owner != "User" {
		t.Fatalf("expected the class's own log to win over the trait's, got %s, %v", owner, ok)
	}
}

func TestPHPResolverTraitConflictPicksFirstRegistered(t *testing.T) {
	r := NewPHPResolver(nil)
	r.AddInheritance("User", "Greetable", Uses)
	r.AddInheritance("User", "Nameable", Uses)
	r.AddTraitMethods("Greetable", []string{"describe"})
	r.AddTraitMethods("Nameable", []string{"describe"})

	owner, ok := r.ResolveMethod("User", "describe")
	if !ok || owner != "Greetable" {
		t.Fatalf("expected describe to resolve to the first-registered trait Greetable, got %s, %v", owner, ok)
	}
}

func TestPHPResolverFallsBackToParent(t *testing.T) {
	r := NewPHPResolver(nil)
	r.AddInheritance("Admin", "User", Extends)
	r.AddClassMethods("User", []string{"login"})

	owner, ok := r.ResolveMethod("Admin", "login")
	if !ok || owner != "User" {
		t.Fatalf("expected login to resolve via the parent User, got %s, %v", owner, ok)
	}
}

func TestPHPResolverInheritanceChainOrder(t *testing.T) {
	r := NewPHPResolver(nil)
	r.AddInheritance("Admin", "Loggable", Uses)
	r.AddInheritance("Admin", "User", Extends)

	chain := r.GetInheritanceChain("Admin")
	want := []string{"Admin", "Loggable", "User"}
	for i, name := range want {
		if chain[i] != name {
			t.Fatalf("GetInheritanceChain(Admin) = %v, want %v", chain, want)
		}
	}
}
