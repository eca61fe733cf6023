// Package php implements the PHP project-resolution provider (spec
// §4.H.1): it reads composer.json's autoload.psr-4 namespace map, and
// NamespaceForFile maps a file to its PSR-4 class name under that map.
// php.Behavior.ModulePathFromFile does not consult this provider; it
// keeps its slash-to-backslash rendering of the workspace-relative path.
package php

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/lang"
	"github.com/latticecode/lattice/internal/project"
)

const languageID = ids.LanguageId("php")

// Provider reads composer.json files (spec §4.H.1).
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

// composerJSON is the subset of composer.json this provider reads.
type composerJSON struct {
	Autoload struct {
		PSR4 map[string]string `json:"psr-4"`
	} `json:"autoload"`
}

func readComposer(path string) (composerJSON, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return composerJSON{}, nil, err
	}
	var cfg composerJSON
	if err := json.Unmarshal(data, &cfg); err != nil {
		return composerJSON{}, data, fmt.Errorf("php: parse %s: %w", path, err)
	}
	return cfg, data, nil
}

// RebuildCache parses every configured composer.json and persists its
// psr-4 namespace-prefix → directory-prefix map as alias rules.
// composer.json has no `extends` concept, so there is no chain to walk —
// each config's rule stands alone.
func (p *Provider) RebuildCache(s lang.Settings) error {
	rules := make(map[string]project.Rule)
	globs := make(map[string]string)

	for _, cfgPath := range p.ConfigPaths(s) {
		abs := cfgPath
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(s.WorkspaceRoot, abs)
		}
		cfg, data, err := readComposer(abs)
		if err != nil {
			return err
		}
		dir := filepath.Dir(abs)
		aliases := make(map[string]string, len(cfg.Autoload.PSR4))
		for namespace, relDir := range cfg.Autoload.PSR4 {
			aliases[namespace] = filepath.Join(dir, relDir)
		}
		rules[abs] = project.Rule{
			ConfigPath: abs,
			Sha:        project.ComputeSha(data),
			BasePath:   dir,
			Aliases:    aliases,
		}
		globs[dir] = abs
	}

	return p.store.Save(rules, globs)
}

// SelectAffectedFiles returns candidateFiles under the same composer
// package root as any affected composer.json.
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
// longest-prefix match over the persisted package roots.
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

// NamespaceForFile maps absoluteFilePath to its PSR-4 fully-qualified
// class name, using the longest-prefix psr-4 rule. Returns false if no
// composer rule covers the file.
func NamespaceForFile(rule project.Rule, absoluteFilePath string) (string, bool) {
	bestNamespace, bestDir := "", ""
	for namespace, dir := range rule.Aliases {
		if !hasDirPrefix(absoluteFilePath, dir) {
			continue
		}
		if len(dir) > len(bestDir) {
			bestDir, bestNamespace = dir, namespace
		}
	}
	if bestDir == "" {
		return "", false
	}
	rel, err := filepath.Rel(bestDir, absoluteFilePath)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel[:len(rel)-len(filepath.Ext(rel))])
	class := bestNamespace + toBackslash(rel)
	return class, true
}

func hasDirPrefix(file, dir string) bool {
	rel, err := filepath.Rel(dir, file)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func toBackslash(rel string) string {
	out := make([]byte, len(rel))
	for i := 0; i < len(rel); i++ {
		if rel[i] == '/' {
			out[i] = '\\'
		} else {
			out[i] = rel[i]
		}
	}
	return string(out)
}
