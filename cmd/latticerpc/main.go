// Command latticerpc serves the retrieval operations over HTTP+JSON
// (spec §6 "RPC surface"): find_symbol, search_symbols, get_calls,
// find_callers, analyze_impact, semantic_search_with_context.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/latticecode/lattice/internal/config"
	"github.com/latticecode/lattice/internal/embedder"
	"github.com/latticecode/lattice/internal/graphsync"
	"github.com/latticecode/lattice/internal/indexstore"
	"github.com/latticecode/lattice/internal/querycache"
	"github.com/latticecode/lattice/internal/rpc"
	"github.com/latticecode/lattice/internal/rpc/auth"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	settingsPath := "settings.toml"
	if len(os.Args) > 1 {
		settingsPath = os.Args[1]
	}

	cfg, err := config.Load(settingsPath)
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(6)
	}

	ctx := context.Background()

	index, err := indexstore.Open(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to index store", slog.String("error", err.Error()))
		os.Exit(5)
	}
	defer index.Close()
	logger.Info("connected to index store")

	svc := &rpc.Service{Index: index, Logger: logger}

	if cfg.Graph.URI != "" {
		graphClient, err := graphsync.NewClient(graphsync.Config{URI: cfg.Graph.URI, User: cfg.Graph.User, Password: cfg.Graph.Password})
		if err != nil {
			logger.Warn("neo4j connection failed, analyze_impact disabled", slog.String("error", err.Error()))
		} else {
			svc.Graph = graphsync.NewEngine(graphClient, index, logger)
			defer graphClient.Close(ctx)
			logger.Info("connected to neo4j")
		}
	} else {
		logger.Info("neo4j not configured, analyze_impact disabled")
	}

	if cfg.Bedrock.Region != "" {
		embedClient, err := embedder.NewClient(ctx, embedder.Config{Region: cfg.Bedrock.Region, ModelID: cfg.Bedrock.ModelID})
		if err != nil {
			logger.Warn("bedrock init failed, semantic_search_with_context disabled", slog.String("error", err.Error()))
		} else {
			svc.Embed = embedClient
			logger.Info("embeddings enabled", slog.String("model", embedClient.ModelID()))
		}
	} else {
		logger.Info("bedrock not configured, semantic_search_with_context disabled")
	}

	if cfg.Valkey.Addr != "" {
		cache, err := querycache.New(querycache.Config{Addr: cfg.Valkey.Addr, Password: cfg.Valkey.Password, DB: cfg.Valkey.DB}, 5*time.Minute)
		if err != nil {
			logger.Warn("valkey connection failed, query caching disabled", slog.String("error", err.Error()))
		} else {
			svc.Cache = cache
			defer cache.Close()
			logger.Info("connected to valkey")
		}
	}

	deps := &rpc.RouterDeps{Pool: index.Pool()}
	if cfg.OIDC.IssuerURL != "" {
		verifier, err := auth.NewVerifier(ctx, cfg.OIDC.IssuerURL, cfg.OIDC.Audience)
		if err != nil {
			logger.Warn("oidc discovery failed, running unauthenticated", slog.String("error", err.Error()))
		} else {
			deps.Verifier = verifier
			logger.Info("oidc auth enabled", slog.String("issuer", cfg.OIDC.IssuerURL))
		}
	}

	router := rpc.NewRouter(logger, svc, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting rpc server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-runCtx.Done()
	logger.Info("shutting down rpc server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}
	logger.Info("rpc server stopped")
}
