package latticeerr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorIncludesSuggestion(t *testing.T) {
	err := SymbolNotFound("Foo")
	msg := err.Error()
	if !strings.Contains(msg, "Suggestion:") || !strings.Contains(msg, "Foo") {
		t.Errorf("got %q", msg)
	}
}

func TestExitCodeTaxonomy(t *testing.T) {
	cases := map[Kind]int{
		KindGeneral:              1,
		KindBlocking:             2,
		KindNotFound:             3,
		KindParse:                4,
		KindIO:                   5,
		KindConfig:               6,
		KindIndexCorrupted:       7,
		KindUnsupportedOperation: 8,
	}
	for kind, want := range cases {
		if got := kind.ExitCode(); got != want {
			t.Errorf("%s.ExitCode() = %d, want %d", kind, got, want)
		}
	}
}

func TestKindOfUnwrapsWrappedError(t *testing.T) {
	cause := errors.New("boom")
	wrapped := fmt.Errorf("context: %w", Wrap(KindIO, cause, "disk failed", "check free space"))
	if got := KindOf(wrapped); got != KindIO {
		t.Errorf("KindOf = %v, want %v", got, KindIO)
	}
}

func TestKindOfDefaultsToGeneral(t *testing.T) {
	if got := KindOf(errors.New("plain")); got != KindGeneral {
		t.Errorf("KindOf = %v, want %v", got, KindGeneral)
	}
}

func TestExitCodeForNilIsZero(t *testing.T) {
	if got := ExitCodeFor(nil); got != 0 {
		t.Errorf("ExitCodeFor(nil) = %d, want 0", got)
	}
}
