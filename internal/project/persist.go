package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

// persistedRule is the on-disk shape of one config's compiled rule
// (spec §4.H "Persistence").
type persistedRule struct {
	Sha      Sha               `json:"sha"`
	BasePath string            `json:"base_path,omitempty"`
	Aliases  map[string]string `json:"aliases,omitempty"`
}

// document is the full `<index>/resolvers/<lang>_resolution.json` file:
// one compiled rule per config path, plus a glob-to-config index used by
// SelectAffectedFiles.
type document struct {
	Configs map[string]persistedRule `json:"configs"`
	Globs   map[string]string        `json:"globs"`
}

// Store loads and saves one language's resolution document and caches
// compiled Rule values in memory so a hot incremental run doesn't
// re-parse the JSON file per source file (spec §4.H, golang-lru).
type Store struct {
	path  string
	cache *lru.Cache[string, Rule]
}

// NewStore opens the resolvers document for language at
// <indexRoot>/resolvers/<lang>_resolution.json. The file need not exist
// yet; it is created on the first Save.
func NewStore(indexRoot string, language string, cacheSize int) (*Store, error) {
	if cacheSize <= 0 {
		cacheSize = 256
	}
	cache, err := lru.New[string, Rule](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("project: new cache: %w", err)
	}
	return &Store{
		path:  filepath.Join(indexRoot, "resolvers", language+"_resolution.json"),
		cache: cache,
	}, nil
}

// Load reads the persisted document, returning an empty one if the file
// doesn't exist yet.
func (st *Store) Load() (map[string]Rule, map[string]string, error) {
	data, err := os.ReadFile(st.path)
	if os.IsNotExist(err) {
		return map[string]Rule{}, map[string]string{}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("project: read %s: %w", st.path, err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("project: parse %s: %w", st.path, err)
	}
	rules := make(map[string]Rule, len(doc.Configs))
	for cfgPath, pr := range doc.Configs {
		rule := Rule{ConfigPath: cfgPath, Sha: pr.Sha, BasePath: pr.BasePath, Aliases: pr.Aliases}
		rules[cfgPath] = rule
		st.cache.Add(cfgPath, rule)
	}
	return rules, doc.Globs, nil
}

// Save persists rules and the glob index, overwriting any existing file.
func (st *Store) Save(rules map[string]Rule, globs map[string]string) error {
	doc := document{
		Configs: make(map[string]persistedRule, len(rules)),
		Globs:   globs,
	}
	for cfgPath, rule := range rules {
		doc.Configs[cfgPath] = persistedRule{Sha: rule.Sha, BasePath: rule.BasePath, Aliases: rule.Aliases}
		st.cache.Add(cfgPath, rule)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("project: marshal %s: %w", st.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(st.path), 0o755); err != nil {
		return fmt.Errorf("project: mkdir for %s: %w", st.path, err)
	}
	if err := os.WriteFile(st.path, data, 0o644); err != nil {
		return fmt.Errorf("project: write %s: %w", st.path, err)
	}
	return nil
}

// Cached returns the in-memory compiled rule for configPath without
// touching disk, avoiding a JSON re-parse on every file in a hot run.
func (st *Store) Cached(configPath string) (Rule, bool) {
	return st.cache.Get(configPath)
}

// StillValid reports whether the persisted SHA for configPath matches
// currentSha; a mismatch forces a rebuild for that config only (spec
// §4.H).
func StillValid(rules map[string]Rule, configPath string, currentSha Sha) bool {
	rule, ok := rules[configPath]
	if !ok {
		return false
	}
	return rule.Sha == currentSha
}

// LongestPrefixMatch returns the candidate whose directory is the
// longest prefix of target, implementing the select_affected_files
// longest-prefix rule shared by all three providers.
func LongestPrefixMatch(target string, candidates []string) (string, bool) {
	best := ""
	found := false
	for _, c := range candidates {
		if pathHasPrefix(target, c) && len(c) > len(best) {
			best = c
			found = true
		}
	}
	return best, found
}

func pathHasPrefix(target, prefix string) bool {
	target = filepath.ToSlash(target)
	prefix = filepath.ToSlash(prefix)
	if target == prefix {
		return true
	}
	if len(target) <= len(prefix) {
		return false
	}
	return target[:len(prefix)] == prefix && (prefix == "" || target[len(prefix)] == '/')
}

