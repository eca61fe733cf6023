package inherit

// SingleResolver handles single-inheritance languages with optional
// interface implementation (Java-like classes, TypeScript classes):
// a straight parent chain plus any number of `implements` edges that do
// not affect method dispatch order (spec §4.G "Ordering rules").
type SingleResolver struct {
	base
}

func NewSingleResolver() *SingleResolver {
	return &SingleResolver{base: newBase()}
}

// parentChain returns typ's extends-only ancestry, most-derived first,
// skipping implements/uses edges which never contribute to dispatch.
func (r *SingleResolver) parentChain(typ string) []string {
	chain := []string{typ}
	seen := map[string]bool{typ: true}
	cur := typ
	for {
		n, ok := r.nodes[cur]
		if !ok {
			break
		}
		var next string
		for _, e := range n.bases {
			if e.kind == Extends {
				next = e.base
				break
			}
		}
		if next == "" || seen[next] {
			break
		}
		chain = append(chain, next)
		seen[next] = true
		cur = next
	}
	return chain
}

func (r *SingleResolver) GetInheritanceChain(typ string) []string {
	return r.parentChain(typ)
}

func (r *SingleResolver) ResolveMethod(typ, methodName string) (string, bool) {
	for _, t := range r.parentChain(typ) {
		if r.declares(t, methodName) {
			return t, true
		}
	}
	return "", false
}

func (r *SingleResolver) IsSubtype(derived, baseType string) bool {
	if derived == baseType {
		return true
	}
	for _, t := range r.parentChain(derived) {
		if t == baseType {
			return true
		}
	}
	if n, ok := r.nodes[derived]; ok {
		for _, e := range n.bases {
			if e.kind == Implements && (e.base == baseType || r.IsSubtype(e.base, baseType)) {
				return true
			}
		}
	}
	return false
}

func (r *SingleResolver) GetAllMethods(typ string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range r.parentChain(typ) {
		for _, m := range r.allDeclaredMethods(t) {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out
}
