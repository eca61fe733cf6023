package indexer

import (
	"fmt"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/lang"
	"github.com/latticecode/lattice/internal/project"
	"github.com/latticecode/lattice/internal/project/golang"
	"github.com/latticecode/lattice/internal/project/php"
	"github.com/latticecode/lattice/internal/project/typescript"
)

// defaultProviders builds every shipped project-resolution provider
// (spec §4.H.1), keyed by the language it enhances.
func defaultProviders(s lang.Settings) (map[ids.LanguageId]project.Provider, error) {
	out := make(map[ids.LanguageId]project.Provider)

	ts, err := typescript.New(s)
	if err != nil {
		return nil, fmt.Errorf("indexer: typescript provider: %w", err)
	}
	out[ts.LanguageID()] = ts

	gp, err := golang.New(s)
	if err != nil {
		return nil, fmt.Errorf("indexer: go provider: %w", err)
	}
	out[gp.LanguageID()] = gp

	ph, err := php.New(s)
	if err != nil {
		return nil, fmt.Errorf("indexer: php provider: %w", err)
	}
	out[ph.LanguageID()] = ph

	return out, nil
}

// rebuildProviderCaches runs every enabled provider's RebuildCache on a
// single thread before the file sweep begins (spec §5 "Project-resolution
// providers run on a single thread before the file sweep"). A provider
// whose config is malformed logs and continues; it does not abort the
// run (spec §7 "a malformed config file fails the provider's rebuild for
// that config only").
func rebuildProviderCaches(providers map[ids.LanguageId]project.Provider, s lang.Settings, warn func(lang ids.LanguageId, err error)) {
	for langID, prov := range providers {
		if !prov.IsEnabled(s) {
			continue
		}
		if err := prov.RebuildCache(s); err != nil {
			warn(langID, err)
		}
	}
}
