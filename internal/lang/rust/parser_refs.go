package rust

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
		if n.Type() != "use_declaration" {
			return
		}
		walkUseTree(firstNamedChild(n), "", source, fileID, &out)
	})
	return out, nil
}

func firstNamedChild(n *sitter.Node) *sitter.Node {
	if n.NamedChildCount() == 0 {
		return nil
	}
	return n.NamedChild(0)
}

// walkUseTree recursively expands `use a::{b, c as d, *}` into one
// Import per leaf specifier (spec §3 "one import emitted per specifier").
func walkUseTree(n *sitter.Node, prefix string, src []byte, fileID ids.FileId, out *[]symstore.Import) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "scoped_identifier", "identifier", "crate", "self", "super":
		path := joinPath(prefix, n.Content(src))
		*out = append(*out, symstore.Import{Path: path, FileID: fileID})
	case "use_as_clause":
		path := joinPath(prefix, n.Child(0).Content(src))
		alias := ""
		if k := int(n.NamedChildCount()); k >= 2 {
			alias = n.NamedChild(k - 1).Content(src)
		}
		*out = append(*out, symstore.Import{Path: path, Alias: alias, FileID: fileID})
	case "use_wildcard":
		base := n.Child(0)
		basePath := prefix
		if base != nil {
			basePath = joinPath(prefix, base.Content(src))
		}
		*out = append(*out, symstore.Import{Path: basePath, IsGlob: true, FileID: fileID})
	case "scoped_use_list":
		base := firstNamedChild(n)
		basePath := prefix
		if base != nil && base.Type() != "use_list" {
			basePath = joinPath(prefix, base.Content(src))
		}
		if list := findChild(n, "use_list"); list != nil {
			for i := 0; i < int(list.NamedChildCount()); i++ {
				walkUseTree(list.NamedChild(i), basePath, src, fileID, out)
			}
		}
	case "use_list":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walkUseTree(n.NamedChild(i), prefix, src, fileID, out)
		}
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "::" + name
}

// FindCalls returns bare calls: a call_expression whose function is a
// plain identifier (spec §4.D discrimination rule). Path calls such as
// `Type::f()` or `crate::m::f()` are reported by FindMethodCalls only.
func (p *Parser) FindCalls(source []byte) ([]lang.NameRef, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []lang.NameRef
	callWalk(root, source, &out, nil)
	return out, nil
}

// FindMethodCalls returns field-expression (`self.m()`, `obj.m()`) and
// scoped-identifier (`Type::assoc()`) calls with the receiver preserved.
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
		if n.Type() == "function_item" {
			prev := caller
			if id := findChild(n, "identifier"); id != nil {
				caller = id.Content(src)
			}
			for i := 0; i < int(n.ChildCount()); i++ {
				walk(n.Child(i))
			}
			caller = prev
			return
		}
		if n.Type() == "call_expression" {
			fn := n.Child(0)
			if fn != nil {
				switch fn.Type() {
				case "identifier":
					if calls != nil {
						*calls = append(*calls, lang.NameRef{Context: caller, Name: fn.Content(src), Range: rangeOf(n)})
					}
				case "field_expression":
					obj := fn.Child(0)
					field := findChild(fn, "field_identifier")
					if methodCalls != nil && obj != nil && field != nil {
						*methodCalls = append(*methodCalls, lang.MethodCall{
							Caller: caller, Receiver: obj.Content(src), MethodName: field.Content(src), Range: rangeOf(n),
						})
					}
				case "scoped_identifier":
					prefix := scopedIdentifierPrefix(fn)
					name := lastSegmentNode(fn)
					if methodCalls != nil && prefix != nil && name != nil {
						*methodCalls = append(*methodCalls, lang.MethodCall{
							Caller: caller, Receiver: scopedIdentifierText(prefix, src), MethodName: name.Content(src), Range: rangeOf(n),
						})
					}
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(node)
}

func lastSegmentNode(scoped *sitter.Node) *sitter.Node {
	if scoped.NamedChildCount() == 0 {
		return nil
	}
	return scoped.NamedChild(int(scoped.NamedChildCount()) - 1)
}

// scopedIdentifierPrefix returns the path segment preceding a
// scoped_identifier's final name (e.g. the `crate::init` in
// `crate::init::init_global_dirs`), nil if there's no preceding segment.
func scopedIdentifierPrefix(scoped *sitter.Node) *sitter.Node {
	if scoped.NamedChildCount() < 2 {
		return nil
	}
	return scoped.NamedChild(0)
}

// scopedIdentifierText renders a path node as a "::"-joined string,
// recursing through nested scoped_identifiers so a multi-segment path
// like `crate::init` renders in full instead of just its last segment
// (a bare type_identifier/identifier renders as itself).
func scopedIdentifierText(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	if n.Type() != "scoped_identifier" {
		return n.Content(src)
	}
	name := lastSegmentNode(n)
	if name == nil {
		return n.Content(src)
	}
	prefix := scopedIdentifierPrefix(n)
	if prefix == nil {
		return name.Content(src)
	}
	return scopedIdentifierText(prefix, src) + "::" + name.Content(src)
}

func (p *Parser) FindUses(source []byte) ([]lang.NameRef, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []lang.NameRef
	walkAll(root, func(n *sitter.Node) {
		if n.Type() != "type_identifier" {
			return
		}
		parent := n.Parent()
		if parent == nil {
			return
		}
		switch parent.Type() {
		case "field_declaration", "parameter", "generic_type":
			out = append(out, lang.NameRef{Name: n.Content(source), Range: rangeOf(n)})
		}
	})
	return out, nil
}

func (p *Parser) FindDefines(source []byte) ([]lang.NameRef, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []lang.NameRef
	walkAll(root, func(n *sitter.Node) {
		if n.Type() != "impl_item" && n.Type() != "trait_item" {
			return
		}
		owner := ""
		if n.Type() == "impl_item" {
			for i := 0; i < int(n.ChildCount()); i++ {
				if n.Child(i).Type() == "type_identifier" {
					owner = n.Child(i).Content(source)
				}
			}
		} else {
			owner = textOf(findChild(n, "type_identifier"), source)
		}
		body := findChild(n, "declaration_list")
		if body == nil {
			return
		}
		for i := 0; i < int(body.NamedChildCount()); i++ {
			fn := body.NamedChild(i)
			if fn.Type() == "function_item" || fn.Type() == "function_signature_item" {
				if id := findChild(fn, "identifier"); id != nil {
					out = append(out, lang.NameRef{Context: owner, Name: id.Content(source), Range: rangeOf(id)})
				}
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

// FindImplementations returns (Self type, trait) pairs from `impl Trait
// for Type` blocks (spec §4.D).
func (p *Parser) FindImplementations(source []byte) ([]lang.InheritanceRef, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []lang.InheritanceRef
	walkAll(root, func(n *sitter.Node) {
		if n.Type() != "impl_item" {
			return
		}
		var types []string
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c.Type() == "type_identifier" || c.Type() == "generic_type" {
				types = append(types, innerTypeName(c, source))
			}
		}
		if len(types) < 2 {
			return // inherent impl, no trait
		}
		out = append(out, lang.InheritanceRef{Derived: types[1], Base: types[0], Range: rangeOf(n)})
	})
	return out, nil
}

// FindExtends always returns nil: Rust has no base-class declaration
// (spec §4.G "no base classes").
func (p *Parser) FindExtends(source []byte) ([]lang.InheritanceRef, error) {
	return nil, nil
}
