package cliargs

import "testing"

func TestParseSimplePositional(t *testing.T) {
	p := Parse([]string{"search_term"})
	if !p.HasPositional || p.Positional != "search_term" {
		t.Fatalf("got %+v", p)
	}
	if len(p.Params) != 0 {
		t.Errorf("expected no params, got %v", p.Params)
	}
}

func TestParseKeyValuePairs(t *testing.T) {
	p := Parse([]string{"limit:10", "kind:function"})
	if p.HasPositional {
		t.Errorf("expected no positional, got %q", p.Positional)
	}
	if p.Params["limit"] != "10" || p.Params["kind"] != "function" {
		t.Fatalf("got %+v", p.Params)
	}
}

func TestParseMixed(t *testing.T) {
	p := Parse([]string{"main", "limit:5"})
	if p.Positional != "main" || p.Params["limit"] != "5" {
		t.Fatalf("got %+v", p)
	}
}

func TestParseQuotedValue(t *testing.T) {
	p := Parse([]string{`query:"test value"`})
	if p.Params["query"] != "test value" {
		t.Fatalf("got %q", p.Params["query"])
	}
}

func TestParseSplitQuotedValue(t *testing.T) {
	p := Parse([]string{`query:"error`, "handling", "in", `parser"`, "limit:3"})
	if p.Params["query"] != "error handling in parser" {
		t.Fatalf("got %q", p.Params["query"])
	}
	if p.Params["limit"] != "3" {
		t.Fatalf("got %q", p.Params["limit"])
	}
}

func TestExtraPositionalIgnored(t *testing.T) {
	p := Parse([]string{"first", "second"})
	if p.Positional != "first" {
		t.Fatalf("expected first positional retained, got %q", p.Positional)
	}
}

func TestRequiredStringPrefersPositional(t *testing.T) {
	p := Parse([]string{"foo", "name:bar"})
	got, err := RequiredString(p, "name", "missing name")
	if err != nil || got != "foo" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestRequiredStringFallsBackToParam(t *testing.T) {
	p := Parse([]string{"name:bar"})
	got, err := RequiredString(p, "name", "missing name")
	if err != nil || got != "bar" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestRequiredStringErrorsWhenAbsent(t *testing.T) {
	p := Parse(nil)
	if _, err := RequiredString(p, "name", "missing name"); err == nil {
		t.Fatal("expected error")
	}
}

func TestIntParamFallback(t *testing.T) {
	p := Parse([]string{"limit:notanumber"})
	if got := IntParam(p, "limit", 50); got != 50 {
		t.Errorf("got %d, want fallback 50", got)
	}
}
