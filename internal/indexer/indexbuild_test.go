package indexer

import (
	"testing"

	"github.com/latticecode/lattice/internal/symstore"
)

func TestBuildModuleIndexLastWriteWins(t *testing.T) {
	results := []parseResult{
		{Symbols: []symstore.Symbol{{ID: 1, Name: "Foo", ModulePath: "pkg.Foo"}}},
		{Symbols: []symstore.Symbol{{ID: 2, Name: "Foo", ModulePath: "pkg.Foo"}}},
	}
	idx := buildModuleIndex(results)
	if idx["pkg.Foo"].ID != 2 {
		t.Errorf("expected last-write-wins id 2, got %d", idx["pkg.Foo"].ID)
	}
}

func TestBuildMethodIndexKeysByParentAndName(t *testing.T) {
	results := []parseResult{
		{Symbols: []symstore.Symbol{
			{ID: 10, Name: "Bar", ScopeContext: symstore.ScopeContext{Kind: symstore.ScopeClassMember, ParentName: "Widget"}},
			{ID: 11, Name: "top-level"},
		}},
	}
	idx := buildMethodIndex(results)
	if id, ok := idx[methodKey("Widget", "Bar")]; !ok || id != 10 {
		t.Errorf("expected Widget#Bar -> 10, got %d, ok=%v", id, ok)
	}
	if _, ok := idx[methodKey("", "top-level")]; ok {
		t.Errorf("top-level symbol without a parent should not be indexed")
	}
}

func TestBuildTypeKindIndexOnlyTypeLikeKinds(t *testing.T) {
	results := []parseResult{
		{Symbols: []symstore.Symbol{
			{Name: "Widget", Kind: symstore.KindStruct},
			{Name: "doStuff", Kind: symstore.KindFunction},
		}},
	}
	idx := buildTypeKindIndex(results)
	if idx["Widget"] != symstore.KindStruct {
		t.Errorf("expected Widget -> struct, got %v", idx["Widget"])
	}
	if _, ok := idx["doStuff"]; ok {
		t.Errorf("function symbol should not appear in the type-kind index")
	}
}

func TestGlobalSymbolsForFiltersToGlobalScope(t *testing.T) {
	results := []parseResult{
		{Symbols: []symstore.Symbol{
			{Name: "g", ScopeContext: symstore.ScopeContext{Kind: symstore.ScopeGlobal}},
			{Name: "m", ScopeContext: symstore.ScopeContext{Kind: symstore.ScopeModule}},
		}},
	}
	got := globalSymbolsFor(results)
	if len(got) != 1 || got[0].Name != "g" {
		t.Errorf("expected only the global-scope symbol, got %v", got)
	}
}
