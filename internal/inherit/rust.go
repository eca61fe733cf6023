package inherit

import (
	"log/slog"
	"sync"
)

// RustResolver models Rust's trait system: there are no base classes,
// so ResolveMethod consults inherent methods first, then the traits
// implemented for the type. A method declared by more than one
// implemented trait is ambiguous; the resolver picks the
// first-registered trait deterministically and logs a warning once per
// (type, method) pair (spec §4.G).
type RustResolver struct {
	base
	logger *slog.Logger

	mu     sync.Mutex
	warned map[[2]string]bool
}

func NewRustResolver(logger *slog.Logger) *RustResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &RustResolver{base: newBase(), logger: logger, warned: make(map[[2]string]bool)}
}

// traitsOf returns typ's implemented traits in registration order.
func (r *RustResolver) traitsOf(typ string) []string {
	n, ok := r.nodes[typ]
	if !ok {
		return nil
	}
	var out []string
	for _, e := range n.bases {
		if e.kind == Implements {
			out = append(out, e.base)
		}
	}
	return out
}

func (r *RustResolver) GetInheritanceChain(typ string) []string {
	return append([]string{typ}, r.traitsOf(typ)...)
}

func (r *RustResolver) ResolveMethod(typ, methodName string) (string, bool) {
	if n, ok := r.nodes[typ]; ok && n.inherent[methodName] {
		return typ, true
	}
	var declaring []string
	for _, tr := range r.traitsOf(typ) {
		if r.declares(tr, methodName) {
			declaring = append(declaring, tr)
		}
	}
	switch len(declaring) {
	case 0:
		return "", false
	case 1:
		return declaring[0], true
	default:
		r.warnAmbiguous(typ, methodName)
		return declaring[0], true
	}
}

func (r *RustResolver) warnAmbiguous(typ, methodName string) {
	key := [2]string{typ, methodName}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.warned[key] {
		return
	}
	r.warned[key] = true
	r.logger.Warn("ambiguous trait method resolution", "type", typ, "method", methodName)
}

func (r *RustResolver) IsSubtype(derived, baseType string) bool {
	if derived == baseType {
		return true
	}
	for _, tr := range r.traitsOf(derived) {
		if tr == baseType {
			return true
		}
	}
	return false
}

func (r *RustResolver) GetAllMethods(typ string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(names []string) {
		for _, m := range names {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	if n, ok := r.nodes[typ]; ok {
		for m := range n.inherent {
			add([]string{m})
		}
	}
	for _, tr := range r.traitsOf(typ) {
		add(r.allDeclaredMethods(tr))
	}
	return out
}
