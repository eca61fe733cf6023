package querycache

import "testing"

func TestKeyIsOrderIndependent(t *testing.T) {
	a := Key("search_symbols", map[string]string{"query": "widget", "lang": "go"})
	b := Key("search_symbols", map[string]string{"lang": "go", "query": "widget"})
	if a != b {
		t.Fatalf("expected key to be independent of map iteration order: %q != %q", a, b)
	}
}

func TestKeyDiffersByParam(t *testing.T) {
	a := Key("search_symbols", map[string]string{"query": "widget"})
	b := Key("search_symbols", map[string]string{"query": "gadget"})
	if a == b {
		t.Fatalf("expected different params to produce different keys")
	}
}

func TestKeyDiffersByOperation(t *testing.T) {
	a := Key("find_symbol", map[string]string{"name": "Foo"})
	b := Key("search_symbols", map[string]string{"name": "Foo"})
	if a == b {
		t.Fatalf("expected different operations to produce different keys")
	}
}
