package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/latticeerr"
)

// runParse implements `latticectl parse <file>`: streams one JSON object
// per symbol the file's parser discovers, in source order, onto stdout.
// A broken pipe downstream (e.g. `| head`) is not a failure: per spec §7
// the operation's own exit code stands, stdout just stops accepting
// writes.
func runParse(ctx context.Context, args []string) int {
	if len(args) == 0 {
		return reportErr(latticeerr.New(latticeerr.KindGeneral,
			"parse requires a file argument", "latticectl parse <file>"))
	}
	path := args[0]

	source, err := os.ReadFile(path)
	if err != nil {
		return reportErr(latticeerr.Wrap(latticeerr.KindIO, err,
			fmt.Sprintf("could not read %s", path), "check the path and file permissions"))
	}

	reg := buildRegistry()
	parser, _, _, err := reg.NewParser(path)
	if err != nil {
		return reportErr(latticeerr.UnsupportedLanguage(path))
	}

	counter := ids.NewCounter()
	fileID := counter.NextFileId()

	symbols, err := parser.Parse(source, fileID, counter)
	if err != nil {
		return reportErr(latticeerr.Wrap(latticeerr.KindParse, err,
			fmt.Sprintf("failed to parse %s", path), "the file may contain a syntax error tree-sitter could not recover from"))
	}

	w := bufio.NewWriter(os.Stdout)
	enc := json.NewEncoder(w)
	for _, sym := range symbols {
		if err := enc.Encode(sym); err != nil {
			if isBrokenPipe(err) {
				return 0
			}
			return reportErr(latticeerr.Wrap(latticeerr.KindIO, err,
				"failed writing parse output", "check the destination of stdout"))
		}
	}
	if err := w.Flush(); err != nil {
		if isBrokenPipe(err) {
			return 0
		}
		return reportErr(latticeerr.Wrap(latticeerr.KindIO, err,
			"failed flushing parse output", "check the destination of stdout"))
	}
	return 0
}

func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)
}
