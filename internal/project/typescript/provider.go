// Package typescript implements the TypeScript project-resolution
// provider (spec §4.H.1): it reads tsconfig.json's compilerOptions.baseUrl
// and paths, resolves the extends chain (child overrides parent, path
// aliases merge), and persists the compiled rules so the TypeScript
// parser can enhance bare import specifiers like `@components/Button`.
package typescript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/lang"
	"github.com/latticecode/lattice/internal/project"
)

const languageID = ids.LanguageId("typescript")

// Provider reads tsconfig.json files (spec §4.H.1).
type Provider struct {
	store *project.Store
}

// New opens the resolvers document under settings.IndexRoot.
func New(s lang.Settings) (*Provider, error) {
	store, err := project.NewStore(s.IndexRoot, string(languageID), 256)
	if err != nil {
		return nil, err
	}
	return &Provider{store: store}, nil
}

func (p *Provider) LanguageID() ids.LanguageId { return languageID }

func (p *Provider) IsEnabled(s lang.Settings) bool {
	return len(s.ProjectConfigFiles[languageID]) > 0
}

func (p *Provider) ConfigPaths(s lang.Settings) []string {
	return s.ProjectConfigFiles[languageID]
}

// tsconfig is the subset of tsconfig.json shape this provider reads.
// tree-sitter is not involved here — this is ordinary JSON, parsed the
// same way the teacher's config.go reads its own settings.
type tsconfig struct {
	Extends         string `json:"extends"`
	CompilerOptions struct {
		BaseURL string              `json:"baseUrl"`
		Paths   map[string][]string `json:"paths"`
	} `json:"compilerOptions"`
}

func readTsconfig(path string) (tsconfig, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tsconfig{}, nil, err
	}
	var cfg tsconfig
	if err := json.Unmarshal(stripJSONComments(data), &cfg); err != nil {
		return tsconfig{}, data, fmt.Errorf("typescript: parse %s: %w", path, err)
	}
	return cfg, data, nil
}

// stripJSONComments removes `//` line comments, which tsconfig.json
// permits (JSONC) but encoding/json rejects. It does not try to be a
// full JSONC parser — just enough to tolerate the common case.
func stripJSONComments(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inString := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			out = append(out, c)
			if c == '\\' && i+1 < len(data) {
				out = append(out, data[i+1])
				i++
				continue
			}
			if c == '"' {
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			out = append(out, c)
			continue
		}
		if c == '/' && i+1 < len(data) && data[i+1] == '/' {
			for i < len(data) && data[i] != '\n' {
				i++
			}
			out = append(out, '\n')
			continue
		}
		out = append(out, c)
	}
	return out
}

// resolveChain loads configPath and every config in its `extends` chain,
// returning the fully merged rule (child overrides parent, spec §4.H).
func resolveChain(configPath string, seen map[string]bool) (project.Rule, error) {
	if seen[configPath] {
		return project.Rule{}, fmt.Errorf("typescript: extends cycle at %s", configPath)
	}
	seen[configPath] = true

	cfg, data, err := readTsconfig(configPath)
	if err != nil {
		return project.Rule{}, err
	}

	rule := project.Rule{
		ConfigPath: configPath,
		Sha:        project.ComputeSha(data),
		BasePath:   cfg.CompilerOptions.BaseURL,
		Aliases:    map[string]string{},
	}

	dir := filepath.Dir(configPath)
	if cfg.Extends != "" {
		parentPath := cfg.Extends
		if !filepath.IsAbs(parentPath) {
			parentPath = filepath.Join(dir, parentPath)
		}
		if filepath.Ext(parentPath) == "" {
			parentPath += ".json"
		}
		parent, err := resolveChain(parentPath, seen)
		if err == nil {
			if rule.BasePath == "" {
				rule.BasePath = parent.BasePath
			}
			for alias, target := range parent.Aliases {
				rule.Aliases[alias] = target
			}
		}
	}

	for alias, targets := range cfg.CompilerOptions.Paths {
		if len(targets) == 0 {
			continue
		}
		// Child entries for the same alias override the parent's,
		// matching the spec's "child overrides parent" merge rule.
		rule.Aliases[alias] = targets[0]
	}

	return rule, nil
}

// RebuildCache parses every configured tsconfig.json, resolves its
// extends chain, and persists the effective rules.
func (p *Provider) RebuildCache(s lang.Settings) error {
	rules := make(map[string]project.Rule)
	globs := make(map[string]string)

	for _, cfgPath := range p.ConfigPaths(s) {
		abs := cfgPath
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(s.WorkspaceRoot, abs)
		}
		rule, err := resolveChain(abs, map[string]bool{})
		if err != nil {
			return err
		}
		rules[abs] = rule
		globs[filepath.Dir(abs)] = abs
	}

	return p.store.Save(rules, globs)
}

// SelectAffectedFiles returns candidateFiles governed by a config whose
// directory is the longest prefix match among affectedConfigs (spec
// §4.H).
func (p *Provider) SelectAffectedFiles(affectedConfigs []string, candidateFiles []string) []string {
	dirs := make([]string, 0, len(affectedConfigs))
	for _, c := range affectedConfigs {
		dirs = append(dirs, filepath.Dir(c))
	}
	var out []string
	for _, f := range candidateFiles {
		if _, ok := project.LongestPrefixMatch(f, dirs); ok {
			out = append(out, f)
		}
	}
	return out
}

// RuleFor returns the compiled rule governing absoluteFilePath via
// longest-prefix match over the persisted configs.
func (p *Provider) RuleFor(absoluteFilePath string) (project.Rule, bool) {
	rules, globs, err := p.store.Load()
	if err != nil {
		return project.Rule{}, false
	}
	dirs := make([]string, 0, len(globs))
	for dir := range globs {
		dirs = append(dirs, dir)
	}
	dir, ok := project.LongestPrefixMatch(absoluteFilePath, dirs)
	if !ok {
		return project.Rule{}, false
	}
	rule, ok := rules[globs[dir]]
	return rule, ok
}
