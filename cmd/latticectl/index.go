package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/latticecode/lattice/internal/config"
	"github.com/latticecode/lattice/internal/indexer"
	"github.com/latticecode/lattice/internal/indexstore"
	"github.com/latticecode/lattice/internal/latticeerr"
)

// runIndex implements `latticectl index <path>`: one full pipeline run
// over path, writing index.meta on completion.
func runIndex(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) int {
	fs := flag.NewFlagSet("index", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return 1
	}
	root := fs.Arg(0)
	if root == "" {
		root = cfg.Project.WorkspaceRoot
	}
	if root == "" {
		return reportErr(latticeerr.New(latticeerr.KindConfig,
			"no workspace root given and none configured in settings.toml",
			"pass a path: latticectl index <path>"))
	}

	index, err := indexstore.Open(ctx, cfg.Database.DSN())
	if err != nil {
		return reportErr(latticeerr.Wrap(latticeerr.KindIO, err,
			"could not open the document index", "check the DB_* environment variables and that postgres is reachable"))
	}
	defer index.Close()

	settings := cfg.Project.Settings()
	if settings.WorkspaceRoot == "" {
		settings.WorkspaceRoot = root
	}

	pipeline, err := indexer.New(buildRegistry(), index, settings, indexer.WithLogger(logger))
	if err != nil {
		return reportErr(latticeerr.Wrap(latticeerr.KindConfig, err,
			"could not build the indexing pipeline", "check settings.toml's project_config_files table"))
	}

	started := time.Now()
	stats, err := pipeline.Run(ctx, root)
	if err != nil {
		return reportErr(latticeerr.Wrap(latticeerr.KindIO, err,
			"indexing run failed", "re-run with the root directory readable and the index store reachable"))
	}
	elapsed := time.Since(started)

	topLevelRoot := cfg.Project.IndexRoot
	if topLevelRoot == "" {
		topLevelRoot = filepath.Join(root, ".lattice")
	}
	if err := pipeline.WriteMeta(ctx, topLevelRoot, root, []string{root}, time.Now()); err != nil {
		return reportErr(latticeerr.Wrap(latticeerr.KindIO, err,
			"could not write index.meta", "check write permissions under the index root"))
	}

	fmt.Printf("indexed %s files (%s removed), %s symbols, %s edges (%d parse errors, %d resolve errors) in %s\n",
		humanize.Comma(int64(stats.FilesIndexed)), humanize.Comma(int64(stats.FilesRemoved)),
		humanize.Comma(int64(stats.SymbolsFound)), humanize.Comma(int64(stats.EdgesFound)),
		stats.ParseErrors, stats.ResolveErrors, elapsed.Round(time.Millisecond))
	return 0
}
