// Package golang implements the Go project-resolution provider (spec
// §4.H.1): it reads go.mod's `module` directive and `replace` directives,
// the closest Go analogue to a path alias, so the Go parser can map an
// import path onto the module-local directory a `replace` redirects it
// to.
package golang

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/lang"
	"github.com/latticecode/lattice/internal/project"
)

const languageID = ids.LanguageId("go")

// Provider reads go.mod files (spec §4.H.1).
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

// parsed is a single go.mod's module path plus its replace directives.
type parsed struct {
	modulePath string
	replaces   map[string]string
}

// parseGoMod reads the `module` line and every `replace` directive,
// whether written as a single line or inside a `replace ( ... )` block.
// This is a small hand-rolled scanner in the teacher's style rather than
// golang.org/x/mod/modfile, since only these two directives matter here.
func parseGoMod(path string) (parsed, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return parsed{}, nil, err
	}
	out := parsed{replaces: map[string]string{}}
	inBlock := false
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "module "):
			out.modulePath = strings.TrimSpace(strings.TrimPrefix(line, "module "))
		case line == "replace (":
			inBlock = true
		case inBlock && line == ")":
			inBlock = false
		case inBlock || strings.HasPrefix(line, "replace "):
			entry := strings.TrimSpace(strings.TrimPrefix(line, "replace "))
			if from, to, ok := splitReplace(entry); ok {
				out.replaces[from] = to
			}
		}
	}
	if err := sc.Err(); err != nil {
		return parsed{}, data, fmt.Errorf("golang: scan %s: %w", path, err)
	}
	return out, data, nil
}

// splitReplace parses one `<old> => <new>` entry, discarding version
// tokens (`old v1.2.3 => new v1.2.4` or `=> ../local/dir`).
func splitReplace(entry string) (from, to string, ok bool) {
	parts := strings.SplitN(entry, "=>", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	lhs := strings.Fields(parts[0])
	rhs := strings.Fields(parts[1])
	if len(lhs) == 0 || len(rhs) == 0 {
		return "", "", false
	}
	return lhs[0], rhs[0], true
}

// RebuildCache parses every configured go.mod and persists its module
// path plus replace directives as alias rules.
func (p *Provider) RebuildCache(s lang.Settings) error {
	rules := make(map[string]project.Rule)
	globs := make(map[string]string)

	for _, cfgPath := range p.ConfigPaths(s) {
		abs := cfgPath
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(s.WorkspaceRoot, abs)
		}
		mod, data, err := parseGoMod(abs)
		if err != nil {
			return err
		}
		aliases := make(map[string]string, len(mod.replaces))
		for from, to := range mod.replaces {
			aliases[from] = to
		}
		rules[abs] = project.Rule{
			ConfigPath: abs,
			Sha:        project.ComputeSha(data),
			BasePath:   mod.modulePath,
			Aliases:    aliases,
		}
		globs[filepath.Dir(abs)] = abs
	}

	return p.store.Save(rules, globs)
}

// SelectAffectedFiles returns candidateFiles under the same module root
// (and therefore subtree) as any affected go.mod.
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
// longest-prefix match over the persisted module roots.
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
