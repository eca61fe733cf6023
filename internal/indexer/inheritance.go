package indexer

import (
	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/inherit"
	"github.com/latticecode/lattice/internal/lang"
	"github.com/latticecode/lattice/internal/symstore"
)

// buildInheritanceResolvers feeds every file's extends/implements/trait-use
// and member-defines references into one inherit.Resolver per language,
// built single-threaded after the parse phase completes (spec §5
// "Inheritance resolvers... are never shared across threads" — they are
// constructed here, then only read concurrently during the resolve
// phase).
func buildInheritanceResolvers(results []parseResult, kinds typeKindIndex) map[ids.LanguageId]inherit.Resolver {
	resolvers := make(map[ids.LanguageId]inherit.Resolver)

	for _, res := range results {
		r, ok := resolvers[res.Language]
		if !ok {
			r = res.Behavior.CreateInheritanceResolver()
			resolvers[res.Language] = r
		}

		for _, e := range res.Extends {
			r.AddInheritance(e.Derived, e.Base, inherit.Extends)
		}
		for _, e := range res.Implements {
			r.AddInheritance(e.Derived, e.Base, inherit.Implements)
		}
		for _, e := range res.TraitUses {
			r.AddInheritance(e.Derived, e.Base, inherit.Uses)
		}

		for _, ref := range res.Defines {
			addMethod(r, res.Behavior, kinds, ref.Context, ref.Name)
		}
	}
	return resolvers
}

// addMethod routes one declared member into the resolver's trait,
// inherent, or class method table, by the owning type's recorded Kind.
func addMethod(r inherit.Resolver, b lang.Behavior, kinds typeKindIndex, owner, method string) {
	switch kinds[owner] {
	case symstore.KindTrait:
		r.AddTraitMethods(owner, []string{method})
	case symstore.KindStruct:
		if b.SupportsInherentMethods() {
			r.AddInherentMethods(owner, []string{method})
			return
		}
		r.AddClassMethods(owner, []string{method})
	default:
		r.AddClassMethods(owner, []string{method})
	}
}
