package typescript

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/lang"
	"github.com/latticecode/lattice/internal/symstore"
)

func (p *Parser) FindImports(source []byte, fileID ids.FileId) ([]symstore.Import, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []symstore.Import
	walkAll(root, func(n *sitter.Node) {
		if n.Type() != "import_statement" {
			return
		}
		src := findChild(n, "string")
		if src == nil {
			return
		}
		path := unquote(src.Content(source))
		clause := findChild(n, "import_clause")
		if clause == nil {
			out = append(out, symstore.Import{Path: path, FileID: fileID})
			return
		}
		emitted := false
		walkAll(clause, func(spec *sitter.Node) {
			switch spec.Type() {
			case "identifier": // default import
				if p := spec.Parent(); p == nil || p.Type() != "import_clause" {
					return
				}
				out = append(out, symstore.Import{Path: path, Alias: spec.Content(source), FileID: fileID})
				emitted = true
			case "import_specifier":
				name := findChild(spec, "identifier")
				isType := hasKeyword(spec, "type")
				alias := name
				if id := lastIdentifier(spec, source); id != nil {
					alias = id
				}
				out = append(out, symstore.Import{Path: path, Alias: alias.Content(source), IsTypeOnly: isType, FileID: fileID})
				emitted = true
			case "namespace_import":
				if id := findChild(spec, "identifier"); id != nil {
					out = append(out, symstore.Import{Path: path, Alias: "*" + id.Content(source), IsGlob: true, FileID: fileID})
					emitted = true
				}
			}
		})
		if !emitted {
			out = append(out, symstore.Import{Path: path, FileID: fileID})
		}
	})
	return out, nil
}

func hasKeyword(node *sitter.Node, kw string) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == kw {
			return true
		}
	}
	return false
}

func lastIdentifier(node *sitter.Node, src []byte) *sitter.Node {
	var last *sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		c := node.NamedChild(i)
		if c.Type() == "identifier" {
			last = c
		}
	}
	return last
}

func unquote(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}

// FindCalls returns bare function calls: identifier callees only (spec §4.D).
func (p *Parser) FindCalls(source []byte) ([]lang.NameRef, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []lang.NameRef
	callWalk(root, source, &out, nil)
	return out, nil
}

// FindMethodCalls returns member-expression calls with the receiver
// preserved (spec §4.D).
func (p *Parser) FindMethodCalls(source []byte) ([]lang.MethodCall, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []lang.MethodCall
	callWalk(root, source, nil, &out)
	return out, nil
}

func callWalk(node *sitter.Node, src []byte, calls *[]lang.NameRef, methodCalls *[]lang.MethodCall) {
	caller := ""
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "function_declaration", "method_definition":
			prev := caller
			if id := propertyIdent(n, src); id != "" {
				caller = id
			}
			for i := 0; i < int(n.ChildCount()); i++ {
				walk(n.Child(i))
			}
			caller = prev
			return
		case "call_expression":
			fn := n.Child(0)
			if fn == nil {
				break
			}
			switch fn.Type() {
			case "identifier":
				if calls != nil {
					*calls = append(*calls, lang.NameRef{Context: caller, Name: fn.Content(src), Range: rangeOf(n)})
				}
			case "member_expression":
				obj := fn.Child(0)
				prop := findChild(fn, "property_identifier")
				if methodCalls != nil && obj != nil && prop != nil {
					*methodCalls = append(*methodCalls, lang.MethodCall{
						Caller: caller, Receiver: obj.Content(src), MethodName: prop.Content(src), Range: rangeOf(n),
					})
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(node)
}

func propertyIdent(n *sitter.Node, src []byte) string {
	if id := findChild(n, "identifier"); id != nil {
		return id.Content(src)
	}
	if id := findChild(n, "property_identifier"); id != nil {
		return id.Content(src)
	}
	return ""
}

// FindUses returns type references inside type annotations (parameters,
// return types, variables and fields). Heritage clauses are reported by
// FindExtends and FindImplementations.
func (p *Parser) FindUses(source []byte) ([]lang.NameRef, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []lang.NameRef
	walkAll(root, func(n *sitter.Node) {
		if n.Type() != "type_annotation" {
			return
		}
		walkAll(n, func(inner *sitter.Node) {
			if inner.Type() == "type_identifier" {
				out = append(out, lang.NameRef{Name: inner.Content(source), Range: rangeOf(inner)})
			}
		})
	})
	return out, nil
}

// FindDefines returns interface/class member declarations.
func (p *Parser) FindDefines(source []byte) ([]lang.NameRef, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []lang.NameRef
	walkAll(root, func(n *sitter.Node) {
		var owner string
		var body *sitter.Node
		switch n.Type() {
		case "class_declaration":
			owner = textOf(findChild(n, "type_identifier"), source)
			body = findChild(n, "class_body")
		case "interface_declaration":
			owner = textOf(findChild(n, "type_identifier"), source)
			body = findChild(n, "interface_body")
			if body == nil {
				body = findChild(n, "object_type")
			}
		default:
			return
		}
		if body == nil {
			return
		}
		for i := 0; i < int(body.NamedChildCount()); i++ {
			m := body.NamedChild(i)
			switch m.Type() {
			case "method_definition", "method_signature", "public_field_definition", "property_signature":
				out = append(out, lang.NameRef{Context: owner, Name: propertyName(m, source), Range: rangeOf(m)})
			}
		}
	})
	return out, nil
}

func textOf(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(src)
}

// FindImplementations returns (class, interface) pairs from `implements` clauses.
func (p *Parser) FindImplementations(source []byte) ([]lang.InheritanceRef, error) {
	return p.heritage(source, "implements_clause")
}

// FindExtends returns (derived, base) pairs from `extends` clauses —
// both class-extends-class and interface-extends-interface.
func (p *Parser) FindExtends(source []byte) ([]lang.InheritanceRef, error) {
	return p.heritage(source, "extends_clause")
}

func (p *Parser) heritage(source []byte, clauseType string) ([]lang.InheritanceRef, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []lang.InheritanceRef
	walkAll(root, func(n *sitter.Node) {
		if n.Type() != "class_declaration" && n.Type() != "interface_declaration" {
			return
		}
		derived := textOf(findChild(n, "type_identifier"), source)
		clause := findChild(n, clauseType)
		if clause == nil {
			clause = findChild(findChild(n, "class_heritage"), clauseType)
		}
		if clause == nil && clauseType == "extends_clause" {
			clause = findChild(n, "extends_type_clause")
		}
		if clause == nil {
			return
		}
		walkAll(clause, func(inner *sitter.Node) {
			if inner.Type() == "type_identifier" || inner.Type() == "identifier" {
				out = append(out, lang.InheritanceRef{Derived: derived, Base: inner.Content(source), Range: rangeOf(inner)})
			}
		})
	})
	return out, nil
}
