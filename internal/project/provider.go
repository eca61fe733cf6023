// Package project defines the project-resolution provider contract
// (spec §4.H): language-specific readers of project-level configuration
// (tsconfig.json, go.mod, composer.json) that emit path-alias rules the
// parsers and resolvers consult when a bare import path doesn't resolve
// on its own.
package project

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/lang"
)

// Sha is a hex-encoded SHA-256 digest of a config file's contents.
type Sha string

// ComputeSha hashes one config file's contents.
func ComputeSha(content []byte) Sha {
	sum := sha256.Sum256(content)
	return Sha(hex.EncodeToString(sum[:]))
}

// ComputeShas hashes every path in paths, keyed by path. A path whose
// contents the caller couldn't read is simply omitted — providers treat
// a missing config the same as an absent one.
func ComputeShas(contents map[string][]byte) map[string]Sha {
	out := make(map[string]Sha, len(contents))
	for path, data := range contents {
		out[path] = ComputeSha(data)
	}
	return out
}

// Rule is one config's compiled alias set: a base path (tsconfig
// baseUrl, composer.json's package root) plus the alias → real-path-
// prefix map (tsconfig paths, composer psr-4 namespaces, go.mod replace
// directives). Rules from a parent config are merged into a child's
// during `extends` resolution, with the child's entries taking
// precedence on conflict.
type Rule struct {
	ConfigPath string
	Sha        Sha
	BasePath   string
	Aliases    map[string]string
}

// Enhancer is handed to a parser for one file — the controlling config's
// compiled Rule — and rewrites import paths the parser couldn't resolve
// on its own (spec §4.H "Enhancement").
type Enhancer interface {
	// Enhance rewrites importPath using the longest matching alias
	// prefix. Paths matching no alias are returned unchanged.
	Enhance(importPath string) string
}

// ruleEnhancer is the shared Enhancer implementation all three providers
// use: longest-prefix alias match, then BasePath join.
type ruleEnhancer struct {
	rule Rule
}

// NewEnhancer wraps rule in the shared longest-prefix-match Enhancer.
func NewEnhancer(rule Rule) Enhancer {
	return ruleEnhancer{rule: rule}
}

func (e ruleEnhancer) Enhance(importPath string) string {
	best := ""
	bestTarget := ""
	for alias, target := range e.rule.Aliases {
		prefix := strings.TrimSuffix(alias, "*")
		if !strings.HasPrefix(importPath, prefix) {
			continue
		}
		if len(prefix) > len(best) {
			best = prefix
			bestTarget = target
		}
	}
	if best == "" {
		return importPath
	}
	rest := strings.TrimPrefix(importPath, best)
	joined := strings.TrimSuffix(bestTarget, "*") + rest
	if e.rule.BasePath == "" || path.IsAbs(joined) {
		return joined
	}
	return path.Join(e.rule.BasePath, joined)
}

// Provider is one language's project-configuration reader (spec §4.H).
type Provider interface {
	// LanguageID identifies which language this provider enhances.
	LanguageID() ids.LanguageId

	// IsEnabled reports whether settings enables this provider's
	// language at all; a disabled provider contributes no rules.
	IsEnabled(s lang.Settings) bool

	// ConfigPaths returns the configured config file paths, read from
	// settings rather than discovered by walking the tree.
	ConfigPaths(s lang.Settings) []string

	// RebuildCache parses every config path, resolves `extends` chains,
	// computes effective per-config rules, and persists them to the
	// index's resolvers directory.
	RebuildCache(s lang.Settings) error

	// SelectAffectedFiles returns the source files governed by configs
	// whose SHA has changed since the last RebuildCache, via
	// longest-prefix match from the changed config's directory.
	SelectAffectedFiles(affectedConfigs []string, candidateFiles []string) []string

	// RuleFor returns the compiled rule governing absoluteFilePath, if
	// any config claims it.
	RuleFor(absoluteFilePath string) (Rule, bool)
}
