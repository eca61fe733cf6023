package indexer

import "github.com/latticecode/lattice/internal/symstore"

// typeKindIndex maps a type-like symbol's bare name to its Kind, used by
// the resolve phase to decide whether a Defines reference's owning
// context is a trait, interface, or concrete type when feeding the
// inheritance resolver's method tables.
type typeKindIndex map[string]symstore.Kind

var typeLikeKinds = map[symstore.Kind]bool{
	symstore.KindClass:     true,
	symstore.KindStruct:    true,
	symstore.KindInterface: true,
	symstore.KindTrait:     true,
	symstore.KindEnum:      true,
}

func buildTypeKindIndex(results []parseResult) typeKindIndex {
	idx := make(typeKindIndex)
	for _, res := range results {
		for _, sym := range res.Symbols {
			if typeLikeKinds[sym.Kind] {
				idx[sym.Name] = sym.Kind
			}
		}
	}
	return idx
}
