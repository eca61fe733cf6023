package project

import "testing"

func TestComputeSha(t *testing.T) {
	a := ComputeSha([]byte("hello"))
	b := ComputeSha([]byte("hello"))
	c := ComputeSha([]byte("world"))
	if a != b {
		t.Fatalf("expected identical content to hash identically")
	}
	if a == c {
		t.Fatalf("expected different content to hash differently")
	}
}

func TestEnhancerLongestPrefixMatch(t *testing.T) {
	rule := Rule{
		BasePath: "/repo",
		Aliases: map[string]string{
			"@components/": "src/components/",
			"@components/ui/": "src/components/ui/",
		},
	}
	e := NewEnhancer(rule)

	got := e.Enhance("@components/ui/Button")
	want := "/repo/src/components/ui/Button"
	if got != want {
		t.Fatalf("Enhance() = %q, want %q", got, want)
	}
}

func TestEnhancerNoMatchUnchanged(t *testing.T) {
	e := NewEnhancer(Rule{Aliases: map[string]string{"@app/": "src/"}})
	got := e.Enhance("lodash")
	if got != "lodash" {
		t.Fatalf("Enhance() = %q, want unchanged", got)
	}
}

func TestLongestPrefixMatch(t *testing.T) {
	dirs := []string{"/repo", "/repo/packages/a"}
	got, ok := LongestPrefixMatch("/repo/packages/a/src/index.ts", dirs)
	if !ok || got != "/repo/packages/a" {
		t.Fatalf("LongestPrefixMatch() = (%q, %v), want (/repo/packages/a, true)", got, ok)
	}
}

func TestStillValid(t *testing.T) {
	rules := map[string]Rule{"a.json": {Sha: "abc"}}
	if !StillValid(rules, "a.json", "abc") {
		t.Fatalf("expected matching sha to be valid")
	}
	if StillValid(rules, "a.json", "def") {
		t.Fatalf("expected mismatched sha to be invalid")
	}
	if StillValid(rules, "missing.json", "abc") {
		t.Fatalf("expected missing config to be invalid")
	}
}
