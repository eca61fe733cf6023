// Package indexer is the pipeline orchestrator (spec §5): it discovers
// files, diffs them against the index's recorded content SHAs, runs
// project-resolution providers, parses and resolves changed files
// across a bounded worker pool, and commits the result to the document
// index and its optional graph and cache projections.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/latticecode/lattice/internal/graphsync"
	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/indexstore"
	"github.com/latticecode/lattice/internal/lang"
	"github.com/latticecode/lattice/internal/project"
	"github.com/latticecode/lattice/internal/querycache"
	"github.com/latticecode/lattice/internal/symstore"
)

// Pipeline ties the registry, symbol store, document index, and every
// optional projection together into one indexing run.
type Pipeline struct {
	registry *lang.Registry
	store    *symstore.Store
	index    *indexstore.Store
	counter  *ids.Counter
	settings lang.Settings
	logger   *slog.Logger

	providers map[ids.LanguageId]project.Provider

	// Optional projections; nil disables the corresponding step.
	graph *graphsync.Client
	cache *querycache.Cache

	workerCount int
}

// Option configures an optional Pipeline dependency.
type Option func(*Pipeline)

// WithGraph wires a Neo4j projection client into the run — the indexer
// only ever writes through it; reads for impact analysis go through
// graphsync.Engine instead (see internal/rpc).
func WithGraph(g *graphsync.Client) Option { return func(p *Pipeline) { p.graph = g } }

// WithCache wires a read-through query cache, invalidated on commit.
func WithCache(c *querycache.Cache) Option { return func(p *Pipeline) { p.cache = c } }

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option { return func(p *Pipeline) { p.logger = l } }

// WithWorkerCount overrides the default bounded worker pool size.
func WithWorkerCount(n int) Option { return func(p *Pipeline) { p.workerCount = n } }

// New builds a Pipeline over an already-open document index, registering
// every shipped project-resolution provider for s.
func New(reg *lang.Registry, index *indexstore.Store, s lang.Settings, opts ...Option) (*Pipeline, error) {
	providers, err := defaultProviders(s)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		registry:  reg,
		store:     symstore.New(),
		index:     index,
		counter:   ids.NewCounter(),
		settings:  s,
		logger:    slog.Default(),
		providers: providers,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Pipeline) concurrency() int {
	if p.workerCount > 0 {
		return p.workerCount
	}
	return runtime.NumCPU()
}

// Stats summarizes one Run for index.meta and CLI/RPC reporting.
type Stats struct {
	FilesIndexed  int
	FilesRemoved  int
	SymbolsFound  int
	EdgesFound    int
	ParseErrors   int
	ResolveErrors int
}

// Run executes one full indexing pass over root: provider rebuild,
// discovery, SHA-diff, parse, resolve, and commit.
func (p *Pipeline) Run(ctx context.Context, root string) (Stats, error) {
	rebuildProviderCaches(p.providers, p.settings, func(langID ids.LanguageId, err error) {
		p.logger.Warn("provider rebuild failed", "language", string(langID), "error", err)
	})

	exts := extSet(p.registry.EnabledExtensionsFor(p.settings))
	discovered, err := discoverFiles(root, exts)
	if err != nil {
		return Stats{}, fmt.Errorf("indexer: discover files: %w", err)
	}

	baseline, err := p.index.AllFileSHAs(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("indexer: load baseline shas: %w", err)
	}

	cs, err := classify(discovered, fileSHA, baseline)
	if err != nil {
		return Stats{}, fmt.Errorf("indexer: classify changes: %w", err)
	}

	var stats Stats

	for _, path := range cs.Removed {
		if f, ok, err := p.index.FileByPath(ctx, path); err == nil && ok {
			if err := p.index.DeleteFile(ctx, f.ID); err != nil {
				p.logger.Warn("delete removed file failed", "path", path, "error", err)
				continue
			}
			stats.FilesRemoved++
			if p.graph != nil {
				if err := p.graph.DeleteFileSubgraph(ctx, uint32(f.ID)); err != nil {
					p.logger.Warn("graph delete failed", "path", path, "error", err)
				}
			}
		}
	}

	toIndex := append(append([]string{}, cs.New...), cs.Changed...)
	if len(toIndex) == 0 {
		p.logger.Info("indexing run found no changed files", "root", root)
		return stats, nil
	}

	results, parseErrs := p.parsePhase(ctx, toIndex)
	for _, err := range parseErrs {
		p.logger.Warn("parse failed", "error", err)
	}
	stats.ParseErrors = len(parseErrs)

	edgeResults, resolveErrs := p.resolvePhase(ctx, results)
	for _, err := range resolveErrs {
		p.logger.Warn("resolve failed", "error", err)
	}
	stats.ResolveErrors = len(resolveErrs)

	if err := p.commit(ctx, results, edgeResults); err != nil {
		return stats, fmt.Errorf("indexer: commit: %w", err)
	}

	for _, res := range results {
		stats.FilesIndexed++
		stats.SymbolsFound += len(res.Symbols)
	}
	for _, er := range edgeResults {
		stats.EdgesFound += len(er.Edges)
	}

	p.logger.Info("indexing run complete",
		"files_indexed", stats.FilesIndexed,
		"files_removed", stats.FilesRemoved,
		"symbols", stats.SymbolsFound,
		"edges", stats.EdgesFound,
		"parse_errors", stats.ParseErrors,
		"resolve_errors", stats.ResolveErrors,
	)
	return stats, nil
}
