// Command latticectl is the single-binary CLI surface spec §6 names:
// index <path>, parse <file>, retrieve symbol/search/calls/callers/impact,
// and archive export/import for moving a snapshot to or from an
// S3-compatible object store. The retrieve subcommands share
// internal/rpc.Service with latticerpc so the two surfaces answer
// identically.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/latticecode/lattice/internal/config"
	"github.com/latticecode/lattice/internal/latticeerr"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: latticectl <index|parse|retrieve|archive> ...")
		return 1
	}

	cmd, rest := args[0], args[1:]

	settingsPath := os.Getenv("LATTICE_SETTINGS")
	if settingsPath == "" {
		settingsPath = "settings.toml"
	}
	cfg, err := config.Load(settingsPath)
	if err != nil {
		return reportErr(err)
	}

	ctx := context.Background()

	switch cmd {
	case "index":
		return runIndex(ctx, cfg, logger, rest)
	case "parse":
		return runParse(ctx, rest)
	case "retrieve":
		return runRetrieve(ctx, cfg, logger, rest)
	case "archive":
		return runArchive(ctx, cfg, rest)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\nSuggestion: use one of index, parse, retrieve, archive\n", cmd)
		return 1
	}
}

// reportErr prints a user-facing error (every one of which carries a
// Suggestion: line per spec §7) and maps it to the exit-code taxonomy.
func reportErr(err error) int {
	fmt.Fprintln(os.Stderr, err.Error())
	return latticeerr.ExitCodeFor(err)
}
