package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/latticecode/lattice/internal/cliargs"
	"github.com/latticecode/lattice/internal/config"
	"github.com/latticecode/lattice/internal/embedder"
	"github.com/latticecode/lattice/internal/graphsync"
	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/indexstore"
	"github.com/latticecode/lattice/internal/latticeerr"
	"github.com/latticecode/lattice/internal/querycache"
	"github.com/latticecode/lattice/internal/rpc"
	"github.com/latticecode/lattice/internal/symstore"
)

// runRetrieve implements `latticectl retrieve <op> ...`, building the
// same rpc.Service the RPC server uses so the two surfaces never
// disagree on an answer.
func runRetrieve(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) int {
	if len(args) == 0 {
		return reportErr(latticeerr.New(latticeerr.KindGeneral,
			"retrieve requires an operation",
			"one of symbol, search, calls, callers, impact"))
	}
	op, rest := args[0], args[1:]

	index, err := indexstore.Open(ctx, cfg.Database.DSN())
	if err != nil {
		return reportErr(latticeerr.Wrap(latticeerr.KindIO, err,
			"could not open the document index", "check the DB_* environment variables and that postgres is reachable"))
	}
	defer index.Close()

	svc := &rpc.Service{Index: index, Logger: logger}

	if cfg.Graph.URI != "" {
		if graphClient, err := graphsync.NewClient(graphsync.Config{URI: cfg.Graph.URI, User: cfg.Graph.User, Password: cfg.Graph.Password}); err == nil {
			svc.Graph = graphsync.NewEngine(graphClient, index, logger)
			defer graphClient.Close(ctx)
		} else {
			logger.Warn("neo4j connection failed, impact unavailable", "error", err)
		}
	}
	if cfg.Bedrock.Region != "" {
		if embedClient, err := embedder.NewClient(ctx, embedder.Config{Region: cfg.Bedrock.Region, ModelID: cfg.Bedrock.ModelID}); err == nil {
			svc.Embed = embedClient
		} else {
			logger.Warn("bedrock init failed, semantic search unavailable", "error", err)
		}
	}
	if cfg.Valkey.Addr != "" {
		if cache, err := querycache.New(querycache.Config{Addr: cfg.Valkey.Addr, Password: cfg.Valkey.Password, DB: cfg.Valkey.DB}, 0); err == nil {
			svc.Cache = cache
			defer cache.Close()
		} else {
			logger.Warn("valkey connection failed, query caching disabled", "error", err)
		}
	}

	p := cliargs.Parse(rest)

	var env rpc.Envelope
	var opErr error

	switch op {
	case "symbol":
		name, e := cliargs.RequiredString(p, "name", "retrieve symbol requires a name")
		if e != nil {
			return reportErr(latticeerr.Wrap(latticeerr.KindGeneral, e,
				"retrieve symbol requires a name", "latticectl retrieve symbol <name> [lang:<id>]"))
		}
		lang, _ := cliargs.StringParam(p, "lang")
		env, opErr = svc.FindSymbol(ctx, name, lang)

	case "search":
		query, e := cliargs.RequiredString(p, "query", "retrieve search requires a query")
		if e != nil {
			return reportErr(latticeerr.Wrap(latticeerr.KindGeneral, e,
				"retrieve search requires a query", "latticectl retrieve search <query> [limit:<n>] [lang:<id>]"))
		}
		lang, _ := cliargs.StringParam(p, "lang")
		kind, _ := cliargs.StringParam(p, "kind")
		filter := indexstore.SearchFilter{
			Language: ids.LanguageId(lang),
			Kind:     symstore.Kind(kind),
			Limit:    cliargs.IntParam(p, "limit", 50),
		}
		env, opErr = svc.SearchSymbols(ctx, query, filter)

	case "calls":
		sym, ok, e := lookupSymbolArg(ctx, svc, p)
		if !ok {
			return e
		}
		env, opErr = svc.GetCalls(ctx, sym)

	case "callers":
		sym, ok, e := lookupSymbolArg(ctx, svc, p)
		if !ok {
			return e
		}
		env, opErr = svc.FindCallers(ctx, sym)

	case "impact":
		sym, ok, e := lookupSymbolArg(ctx, svc, p)
		if !ok {
			return e
		}
		changeType, _ := cliargs.StringParam(p, "change-type")
		if changeType == "" {
			changeType = "modify"
		}
		maxDepth := cliargs.IntParam(p, "max-depth", 5)
		env, opErr = svc.AnalyzeImpact(ctx, sym, changeType, maxDepth)

	default:
		return reportErr(latticeerr.New(latticeerr.KindGeneral,
			fmt.Sprintf("unknown retrieve operation %q", op),
			"one of symbol, search, calls, callers, impact"))
	}

	if opErr != nil {
		return reportErr(latticeerr.Wrap(latticeerr.KindIO, opErr,
			"retrieve operation failed", "check the index store connection and try again"))
	}
	return writeEnvelope(env)
}

// lookupSymbolArg resolves the positional symbol argument (either a
// numeric id or a name) to a symstore.Symbol. The bool return is false
// when the caller should return immediately with the accompanying exit
// code.
func lookupSymbolArg(ctx context.Context, svc *rpc.Service, p cliargs.Parsed) (symstore.Symbol, bool, int) {
	raw, err := cliargs.RequiredString(p, "symbol", "this operation requires a symbol id or name")
	if err != nil {
		return symstore.Symbol{}, false, reportErr(latticeerr.Wrap(latticeerr.KindGeneral, err,
			"this operation requires a symbol id or name", "pass it as the first positional argument"))
	}

	if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
		sym, found, err := svc.Index.SymbolByID(ctx, ids.SymbolId(id))
		if err != nil {
			return symstore.Symbol{}, false, reportErr(latticeerr.Wrap(latticeerr.KindIO, err,
				"symbol lookup failed", "check the index store connection"))
		}
		if !found {
			return symstore.Symbol{}, false, reportErr(latticeerr.SymbolNotFound(raw))
		}
		return sym, true, 0
	}

	lang, _ := cliargs.StringParam(p, "lang")
	syms, err := svc.Index.FindSymbolsByName(ctx, raw, ids.LanguageId(lang))
	if err != nil {
		return symstore.Symbol{}, false, reportErr(latticeerr.Wrap(latticeerr.KindIO, err,
			"symbol lookup failed", "check the index store connection"))
	}
	if len(syms) == 0 {
		return symstore.Symbol{}, false, reportErr(latticeerr.SymbolNotFound(raw))
	}
	return syms[0], true, 0
}

// writeEnvelope prints env as JSON to stdout and returns the exit code
// spec §7 maps from its status field: 0 on ok, 3 on not_found, 8 on
// unsupported_operation.
func writeEnvelope(env rpc.Envelope) int {
	w := bufio.NewWriter(os.Stdout)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		if isBrokenPipe(err) {
			return exitForStatus(env)
		}
		fmt.Fprintln(os.Stderr, "failed writing retrieve output")
		return latticeerr.KindIO.ExitCode()
	}
	if err := w.Flush(); err != nil && !isBrokenPipe(err) {
		fmt.Fprintln(os.Stderr, "failed flushing retrieve output")
		return latticeerr.KindIO.ExitCode()
	}
	return exitForStatus(env)
}

func exitForStatus(env rpc.Envelope) int {
	switch env.Status {
	case "not_found":
		return latticeerr.KindNotFound.ExitCode()
	case "unsupported_operation":
		return latticeerr.KindUnsupportedOperation.ExitCode()
	case "error":
		return latticeerr.KindGeneral.ExitCode()
	default:
		return 0
	}
}
