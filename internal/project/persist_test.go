package project

import (
	"path/filepath"
	"testing"
)

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "typescript", 4)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	rules := map[string]Rule{
		"/repo/tsconfig.json": {
			ConfigPath: "/repo/tsconfig.json",
			Sha:        "deadbeef",
			BasePath:   "/repo",
			Aliases:    map[string]string{"@app/*": "src/*"},
		},
	}
	globs := map[string]string{"/repo": "/repo/tsconfig.json"}

	if err := store.Save(rules, globs); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reopened, err := NewStore(dir, "typescript", 4)
	if err != nil {
		t.Fatalf("NewStore reopen: %v", err)
	}
	loaded, loadedGlobs, err := reopened.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 1 || loaded["/repo/tsconfig.json"].Sha != "deadbeef" {
		t.Fatalf("Load() rules = %+v", loaded)
	}
	if loadedGlobs["/repo"] != "/repo/tsconfig.json" {
		t.Fatalf("Load() globs = %+v", loadedGlobs)
	}

	if _, ok := reopened.Cached("/repo/tsconfig.json"); !ok {
		t.Fatalf("expected Load to populate the cache")
	}

	expectedPath := filepath.Join(dir, "resolvers", "typescript_resolution.json")
	if store.path != expectedPath {
		t.Fatalf("store.path = %q, want %q", store.path, expectedPath)
	}
}

func TestStoreLoadMissingFileIsEmpty(t *testing.T) {
	store, err := NewStore(t.TempDir(), "go", 4)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	rules, globs, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rules) != 0 || len(globs) != 0 {
		t.Fatalf("expected empty document for missing file")
	}
}
