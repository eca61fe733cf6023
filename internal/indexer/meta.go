package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Meta is the persisted `<index_root>/index.meta` record (spec §6
// "Persisted state layout"). `<index_root>/index/` holds the document
// index and its resolvers subdirectory; Settings.IndexRoot is set to
// that `index/` directory, one level below where index.meta itself
// lives.
type Meta struct {
	Version      int      `json:"version"`
	RunID        string   `json:"run_id"`
	DataSource   string   `json:"data_source"`
	SymbolCount  int      `json:"symbol_count"`
	FileCount    int      `json:"file_count"`
	LastModified string   `json:"last_modified"`
	IndexedPaths []string `json:"indexed_paths"`
}

const metaVersion = 1

// WriteMeta writes index.meta under indexRoot's parent (the top-level
// `<index_root>` directory), reflecting the current counts in the
// document index.
func (p *Pipeline) WriteMeta(ctx context.Context, topLevelRoot string, dataSource string, indexedPaths []string, now time.Time) error {
	shas, err := p.index.AllFileSHAs(ctx)
	if err != nil {
		return fmt.Errorf("indexer: meta file count: %w", err)
	}

	symbolCount, err := p.index.CountSymbols(ctx)
	if err != nil {
		return fmt.Errorf("indexer: meta symbol count: %w", err)
	}

	meta := Meta{
		Version:      metaVersion,
		RunID:        uuid.NewString(),
		DataSource:   dataSource,
		FileCount:    len(shas),
		SymbolCount:  symbolCount,
		LastModified: now.UTC().Format(time.RFC3339),
		IndexedPaths: indexedPaths,
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("indexer: marshal meta: %w", err)
	}

	if err := os.MkdirAll(topLevelRoot, 0o755); err != nil {
		return fmt.Errorf("indexer: mkdir %s: %w", topLevelRoot, err)
	}
	if err := os.WriteFile(filepath.Join(topLevelRoot, "index.meta"), data, 0o644); err != nil {
		return fmt.Errorf("indexer: write index.meta: %w", err)
	}
	return nil
}

// ReadMeta reads and parses an existing index.meta, if present.
func ReadMeta(topLevelRoot string) (Meta, error) {
	data, err := os.ReadFile(filepath.Join(topLevelRoot, "index.meta"))
	if err != nil {
		return Meta{}, err
	}
	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return Meta{}, fmt.Errorf("indexer: parse index.meta: %w", err)
	}
	return m, nil
}
