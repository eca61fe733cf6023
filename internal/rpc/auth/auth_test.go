package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"log/slog"
)

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()
	if _, ok := PrincipalFrom(ctx); ok {
		t.Fatal("expected no principal in empty context")
	}

	p := &Principal{Sub: "user-1", Scopes: map[string]bool{"lattice:read": true}}
	ctx = WithPrincipal(ctx, p)
	got, ok := PrincipalFrom(ctx)
	if !ok || got.Sub != "user-1" {
		t.Fatalf("got %+v, ok=%v", got, ok)
	}
}

func TestHasScope(t *testing.T) {
	p := &Principal{Scopes: map[string]bool{"lattice:read": true}}
	if !p.HasScope("lattice:read") {
		t.Error("expected HasScope(lattice:read) = true")
	}
	if p.HasScope("lattice:write") {
		t.Error("expected HasScope(lattice:write) = false")
	}
}

func TestDevModeMiddlewareInjectsPrincipal(t *testing.T) {
	mw := DevModeMiddleware(slog.Default())

	var got *Principal
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		if !ok {
			t.Fatal("expected principal in context")
		}
		got = p
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	if got == nil || !got.HasScope("lattice:read") {
		t.Errorf("got %+v", got)
	}
}
