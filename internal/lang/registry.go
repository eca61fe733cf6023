package lang

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/latticecode/lattice/internal/ids"
)

// Registry maps file extensions to language Definitions and hands out
// fresh Parser+Behavior pairs (spec §4.C). One Registry is built at
// startup with every shipped plug-in and shared read-only across the indexer's
// worker pool; the registry itself holds no per-file state.
type Registry struct {
	mu    sync.RWMutex
	byExt map[string]*Definition
	byLID map[ids.LanguageId]*Definition
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byExt: make(map[string]*Definition),
		byLID: make(map[ids.LanguageId]*Definition),
	}
}

// Register adds a language Definition under every one of its
// extensions. A later call with an already-registered extension
// overrides the earlier mapping.
func (r *Registry) Register(def Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := def
	r.byLID[def.Language] = &d
	for _, ext := range def.Extensions {
		r.byExt[normalizeExt(ext)] = &d
	}
}

// ForFile returns the Definition registered for path's extension, if
// any. It does not consult Settings; EnabledExtensionsFor applies the
// enabled-languages filter.
func (r *Registry) ForFile(path string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.byExt[normalizeExt(filepath.Ext(path))]
	return def, ok
}

// ForLanguage looks up a Definition by its LanguageId.
func (r *Registry) ForLanguage(id ids.LanguageId) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.byLID[id]
	return def, ok
}

// IsAvailable reports whether a language is registered.
func (r *Registry) IsAvailable(id ids.LanguageId) bool {
	_, ok := r.ForLanguage(id)
	return ok
}

// EnabledExtensions returns every extension currently routable to a
// parser, sorted is not guaranteed.
func (r *Registry) EnabledExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	return out
}

// NewParser builds a fresh Parser+Behavior pair for path, or an error if
// no language claims its extension. Callers must obtain one pair per
// file; tree-sitter parser instances are not safe for concurrent reuse.
func (r *Registry) NewParser(path string) (Parser, Behavior, ids.LanguageId, error) {
	def, ok := r.ForFile(path)
	if !ok {
		return nil, nil, "", fmt.Errorf("lang: no parser registered for %q", path)
	}
	p, b := def.New()
	return p, b, def.Language, nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
