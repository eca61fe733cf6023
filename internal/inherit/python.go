package inherit

// PythonResolver implements C3 linearization over declared bases, so a
// diamond inheritance resolves with left-to-right declaration
// preference (spec §4.G, §8 property 4: "Python MRO").
type PythonResolver struct {
	base
}

func NewPythonResolver() *PythonResolver {
	return &PythonResolver{base: newBase()}
}

// mro computes the C3 linearization of typ. Bases not yet registered
// (external/unresolved) linearize to just themselves.
func (r *PythonResolver) mro(typ string) []string {
	bases := r.directBases(typ)
	if len(bases) == 0 {
		return []string{typ}
	}
	lists := make([][]string, 0, len(bases)+1)
	for _, b := range bases {
		lists = append(lists, r.mro(b))
	}
	lists = append(lists, append([]string(nil), bases...))
	merged := c3Merge(lists)
	return append([]string{typ}, merged...)
}

// c3Merge implements the C3 merge step: repeatedly take the head of the
// first list that does not appear in the tail of any list.
func c3Merge(lists [][]string) []string {
	var out []string
	lists = copyLists(lists)
	for {
		lists = pruneEmpty(lists)
		if len(lists) == 0 {
			return out
		}
		var candidate string
		found := false
		for _, l := range lists {
			head := l[0]
			if !inAnyTail(lists, head) {
				candidate = head
				found = true
				break
			}
		}
		if !found {
			// Inconsistent hierarchy; fall back to the first
			// remaining head to guarantee termination.
			candidate = lists[0][0]
		}
		out = append(out, candidate)
		lists = removeFromAll(lists, candidate)
	}
}

func copyLists(lists [][]string) [][]string {
	out := make([][]string, len(lists))
	for i, l := range lists {
		out[i] = append([]string(nil), l...)
	}
	return out
}

func pruneEmpty(lists [][]string) [][]string {
	out := lists[:0]
	for _, l := range lists {
		if len(l) > 0 {
			out = append(out, l)
		}
	}
	return out
}

func inAnyTail(lists [][]string, name string) bool {
	for _, l := range lists {
		for _, v := range l[1:] {
			if v == name {
				return true
			}
		}
	}
	return false
}

func removeFromAll(lists [][]string, name string) [][]string {
	for i, l := range lists {
		out := l[:0]
		for _, v := range l {
			if v != name {
				out = append(out, v)
			}
		}
		lists[i] = out
	}
	return lists
}

func (r *PythonResolver) GetInheritanceChain(typ string) []string {
	return r.mro(typ)
}

func (r *PythonResolver) ResolveMethod(typ, methodName string) (string, bool) {
	for _, t := range r.mro(typ) {
		if r.declares(t, methodName) {
			return t, true
		}
	}
	return "", false
}

func (r *PythonResolver) IsSubtype(derived, baseType string) bool {
	for _, t := range r.mro(derived) {
		if t == baseType {
			return true
		}
	}
	return false
}

func (r *PythonResolver) GetAllMethods(typ string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range r.mro(typ) {
		for _, m := range r.allDeclaredMethods(t) {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out
}
