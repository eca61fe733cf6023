package rpc

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/latticecode/lattice/internal/rpc/auth"
)

// RouterDeps holds the optional pieces NewRouter wires in: an auth
// Verifier (nil runs in dev mode) and the connection pool Readyz pings.
type RouterDeps struct {
	Verifier *auth.Verifier
	Pool     *pgxpool.Pool
}

// NewRouter builds the chi mux exposing spec §6's RPC surface plus
// health checks, mirroring the teacher's router layering (global
// middleware, unauthenticated health, authenticated API group).
func NewRouter(logger *slog.Logger, svc *Service, deps *RouterDeps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", healthz)
	if deps != nil && deps.Pool != nil {
		r.Get("/readyz", readyz(deps.Pool))
	} else {
		r.Get("/readyz", healthz)
	}

	h := NewHandler(svc)
	authMW := selectAuthMiddleware(logger, deps)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/find_symbol", h.FindSymbol)
		r.Get("/search_symbols", h.SearchSymbols)
		r.Get("/get_calls/{symbolID}", h.GetCalls)
		r.Get("/find_callers/{symbolID}", h.FindCallers)
		r.Get("/analyze_impact/{symbolID}", h.AnalyzeImpact)
		r.Get("/semantic_search_with_context", h.SemanticSearchWithContext)
	})

	return r
}

func selectAuthMiddleware(logger *slog.Logger, deps *RouterDeps) func(http.Handler) http.Handler {
	if deps != nil && deps.Verifier != nil {
		return auth.RequireAuth(deps.Verifier, logger)
	}
	return auth.DevModeMiddleware(logger)
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Debug("rpc request", slog.String("method", r.Method), slog.String("path", r.URL.Path))
			next.ServeHTTP(w, r)
		})
	}
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func readyz(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "database not ready"})
			return
		}
		healthz(w, r)
	}
}
