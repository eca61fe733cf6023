package rpc

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/indexstore"
	"github.com/latticecode/lattice/internal/symstore"
)

// Handler adapts a Service to chi routes, one per spec §6 RPC
// operation.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// FindSymbol handles GET /find_symbol?name=X&lang=Y
func (h *Handler) FindSymbol(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	env, err := h.svc.FindSymbol(r.Context(), q.Get("name"), q.Get("lang"))
	h.respond(w, env, err)
}

// SearchSymbols handles GET /search_symbols?query=X&limit=N&lang=Y&kind=K
func (h *Handler) SearchSymbols(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := indexstore.SearchFilter{
		Kind:     symstore.Kind(q.Get("kind")),
		Language: ids.LanguageId(q.Get("lang")),
		Limit:    atoiOr(q.Get("limit"), 50),
	}
	env, err := h.svc.SearchSymbols(r.Context(), q.Get("query"), filter)
	h.respond(w, env, err)
}

// GetCalls handles GET /get_calls/{symbolID}
func (h *Handler) GetCalls(w http.ResponseWriter, r *http.Request) {
	sym, ok := h.symbolByURLParam(w, r)
	if !ok {
		return
	}
	env, err := h.svc.GetCalls(r.Context(), sym)
	h.respond(w, env, err)
}

// FindCallers handles GET /find_callers/{symbolID}
func (h *Handler) FindCallers(w http.ResponseWriter, r *http.Request) {
	sym, ok := h.symbolByURLParam(w, r)
	if !ok {
		return
	}
	env, err := h.svc.FindCallers(r.Context(), sym)
	h.respond(w, env, err)
}

// AnalyzeImpact handles GET /analyze_impact/{symbolID}?change_type=T&max_depth=N
func (h *Handler) AnalyzeImpact(w http.ResponseWriter, r *http.Request) {
	sym, ok := h.symbolByURLParam(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	changeType := q.Get("change_type")
	if changeType == "" {
		changeType = "modify"
	}
	env, err := h.svc.AnalyzeImpact(r.Context(), sym, changeType, atoiOr(q.Get("max_depth"), 5))
	h.respond(w, env, err)
}

// SemanticSearchWithContext handles GET /semantic_search_with_context?query=X&limit=N
func (h *Handler) SemanticSearchWithContext(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	env, err := h.svc.SemanticSearchWithContext(r.Context(), q.Get("query"), atoiOr(q.Get("limit"), 10))
	h.respond(w, env, err)
}

func (h *Handler) symbolByURLParam(w http.ResponseWriter, r *http.Request) (symstore.Symbol, bool) {
	raw, err := strconv.ParseUint(chi.URLParam(r, "symbolID"), 10, 32)
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, Envelope{Status: statusError, EntityType: "symbol"})
		return symstore.Symbol{}, false
	}
	sym, found, err := h.svc.Index.SymbolByID(r.Context(), ids.SymbolId(raw))
	if err != nil {
		writeEnvelope(w, http.StatusInternalServerError, Envelope{Status: statusError, EntityType: "symbol"})
		return symstore.Symbol{}, false
	}
	if !found {
		writeEnvelope(w, http.StatusOK, notFound("symbol"))
		return symstore.Symbol{}, false
	}
	return sym, true
}

// respond picks the HTTP status for an envelope: not_found and
// unsupported_operation still carry HTTP 200, since the envelope's own
// status field (and the CLI's exit-code mapping of the same Kind) is
// what callers are expected to branch on, not the transport status.
func (h *Handler) respond(w http.ResponseWriter, env Envelope, err error) {
	if err != nil {
		h.svc.logger().Error("rpc handler error", slog.String("error", err.Error()), slog.String("entity_type", env.EntityType))
		writeEnvelope(w, http.StatusInternalServerError, Envelope{Status: statusError, EntityType: env.EntityType})
		return
	}
	writeEnvelope(w, http.StatusOK, env)
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
