package inherit

import (
	"log/slog"
	"sync"
)

// PHPResolver flattens trait methods into the using class and falls
// back to a single-inheritance parent chain. Trait conflict-resolution
// clauses (`insteadof`/`as`) are not parsed, so when more than one used
// trait declares the same method the first one registered wins and the
// resolver warns once per (type, method) pair (spec §4.G).
type PHPResolver struct {
	base
	logger *slog.Logger

	mu     sync.Mutex
	warned map[[2]string]bool
}

func NewPHPResolver(logger *slog.Logger) *PHPResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &PHPResolver{base: newBase(), logger: logger, warned: make(map[[2]string]bool)}
}

func (r *PHPResolver) parentOf(typ string) (string, bool) {
	n, ok := r.nodes[typ]
	if !ok {
		return "", false
	}
	for _, e := range n.bases {
		if e.kind == Extends {
			return e.base, true
		}
	}
	return "", false
}

func (r *PHPResolver) traitsOf(typ string) []string {
	n, ok := r.nodes[typ]
	if !ok {
		return nil
	}
	var out []string
	for _, e := range n.bases {
		if e.kind == Uses {
			out = append(out, e.base)
		}
	}
	return out
}

func (r *PHPResolver) GetInheritanceChain(typ string) []string {
	chain := []string{typ}
	seen := map[string]bool{typ: true}
	chain = append(chain, r.traitsOf(typ)...)
	cur := typ
	for {
		p, ok := r.parentOf(cur)
		if !ok || seen[p] {
			break
		}
		chain = append(chain, p)
		seen[p] = true
		cur = p
	}
	return chain
}

func (r *PHPResolver) ResolveMethod(typ, methodName string) (string, bool) {
	if n, ok := r.nodes[typ]; ok && n.class[methodName] {
		return typ, true
	}
	var declaring []string
	for _, tr := range r.traitsOf(typ) {
		if r.declares(tr, methodName) {
			declaring = append(declaring, tr)
		}
	}
	if len(declaring) == 1 {
		return declaring[0], true
	}
	if len(declaring) > 1 {
		r.warnConflict(typ, methodName)
		return declaring[0], true
	}
	if parent, ok := r.parentOf(typ); ok {
		return r.ResolveMethod(parent, methodName)
	}
	return "", false
}

func (r *PHPResolver) warnConflict(typ, methodName string) {
	key := [2]string{typ, methodName}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.warned[key] {
		return
	}
	r.warned[key] = true
	r.logger.Warn("trait method conflict resolved by declaration order", "type", typ, "method", methodName)
}

func (r *PHPResolver) IsSubtype(derived, baseType string) bool {
	for _, t := range r.GetInheritanceChain(derived) {
		if t == baseType {
			return true
		}
	}
	return false
}

func (r *PHPResolver) GetAllMethods(typ string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range r.GetInheritanceChain(typ) {
		for _, m := range r.allDeclaredMethods(t) {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out
}
