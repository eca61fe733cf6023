package lang

import "github.com/latticecode/lattice/internal/ids"

// Settings is the read-only, clonable configuration snapshot handed to
// each worker (spec §4.H, §5 "Settings are cloned into each worker as
// an immutable snapshot"). It is populated from settings.toml by
// internal/config and never mutated after the indexer starts a run.
type Settings struct {
	WorkspaceRoot string

	// IndexRoot is the directory holding the on-disk index and its
	// resolvers subdirectory (`<IndexRoot>/resolvers/<lang>_resolution.json`,
	// spec §4.H "Persistence").
	IndexRoot string

	// EnabledLanguages restricts which registered languages
	// EnabledExtensions yields; nil/empty means every registered
	// language is enabled.
	EnabledLanguages []ids.LanguageId

	// ProjectConfigFiles lists the project-resolution config files a
	// provider should read, keyed by language id (e.g. "typescript" ->
	// ["tsconfig.json"]).
	ProjectConfigFiles map[ids.LanguageId][]string
}

// Clone returns a deep-enough copy safe to hand to a worker goroutine.
func (s Settings) Clone() Settings {
	out := s
	out.EnabledLanguages = append([]ids.LanguageId(nil), s.EnabledLanguages...)
	out.ProjectConfigFiles = make(map[ids.LanguageId][]string, len(s.ProjectConfigFiles))
	for k, v := range s.ProjectConfigFiles {
		out.ProjectConfigFiles[k] = append([]string(nil), v...)
	}
	return out
}

func (s Settings) languageEnabled(id ids.LanguageId) bool {
	if len(s.EnabledLanguages) == 0 {
		return true
	}
	for _, l := range s.EnabledLanguages {
		if l == id {
			return true
		}
	}
	return false
}

// EnabledExtensionsFor returns every extension of every language enabled
// by settings (spec §4.C registry operation
// `enabled_extensions(&Settings)`).
func (r *Registry) EnabledExtensionsFor(s Settings) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for ext, def := range r.byExt {
		if s.languageEnabled(def.Language) {
			out = append(out, ext)
		}
	}
	return out
}
