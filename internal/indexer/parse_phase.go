package indexer

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/latticecode/lattice/internal/lang"
	"github.com/latticecode/lattice/internal/symstore"
)

// parsePhase reads and parses every path in files concurrently,
// allocating a FileId and SymbolIds from the shared counter, and
// inserting symbols into store as each file completes. It returns one
// parseResult per successfully parsed file; a file whose parser errors
// is skipped (spec §7 "per-file failures... do not abort the run") and
// logged by the caller.
func (p *Pipeline) parsePhase(ctx context.Context, files []string) ([]parseResult, []error) {
	var mu sync.Mutex
	var results []parseResult

	errs := runBounded(ctx, files, p.concurrency(), func(path string) error {
		res, err := p.parseOne(path)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if res == nil {
			return nil // no language claims this extension
		}

		p.store.InsertBatch(res.Symbols)

		mu.Lock()
		results = append(results, *res)
		mu.Unlock()
		return nil
	})
	return results, errs
}

func (p *Pipeline) parseOne(path string) (*parseResult, error) {
	if _, ok := p.registry.ForFile(path); !ok {
		return nil, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	parser, behavior, langID, err := p.registry.NewParser(path)
	if err != nil {
		return nil, err
	}

	fileID := p.counter.NextFileId()

	symbols, err := parser.Parse(content, fileID, p.counter)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	modulePath, _ := behavior.ModulePathFromFile(path, p.settings.WorkspaceRoot)
	for i := range symbols {
		behavior.ConfigureSymbol(&symbols[i], modulePath)
	}

	imports, err := parser.FindImports(content, fileID)
	if err != nil {
		return nil, fmt.Errorf("find imports: %w", err)
	}

	calls, err := parser.FindCalls(content)
	if err != nil {
		return nil, fmt.Errorf("find calls: %w", err)
	}
	methodCalls, err := parser.FindMethodCalls(content)
	if err != nil {
		return nil, fmt.Errorf("find method calls: %w", err)
	}
	uses, err := parser.FindUses(content)
	if err != nil {
		return nil, fmt.Errorf("find uses: %w", err)
	}
	defines, err := parser.FindDefines(content)
	if err != nil {
		return nil, fmt.Errorf("find defines: %w", err)
	}
	implementations, err := parser.FindImplementations(content)
	if err != nil {
		return nil, fmt.Errorf("find implementations: %w", err)
	}
	extends, err := parser.FindExtends(content)
	if err != nil {
		return nil, fmt.Errorf("find extends: %w", err)
	}

	var traitUses []lang.InheritanceRef
	if tf, ok := parser.(lang.TraitUseFinder); ok {
		traitUses, err = tf.FindTraitUses(content)
		if err != nil {
			return nil, fmt.Errorf("find trait uses: %w", err)
		}
	}

	file := symstore.File{
		ID:           fileID,
		AbsolutePath: path,
		ContentSHA:   contentSHA(content),
		Language:     langID,
		SymbolCount:  len(symbols),
	}

	return &parseResult{
		File:        file,
		Symbols:     symbols,
		Imports:     imports,
		Calls:       calls,
		MethodCalls: methodCalls,
		Uses:        uses,
		Defines:     defines,
		Extends:     extends,
		Implements:  implementations,
		TraitUses:   traitUses,
		Behavior:    behavior,
		Language:    langID,
		ModulePath:  modulePath,
	}, nil
}
