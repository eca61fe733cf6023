package php

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
		if n.Type() != "namespace_use_declaration" {
			return
		}
		walkAll(n, func(c *sitter.Node) {
			if c.Type() == "namespace_use_clause" {
				name := findChild(c, "qualified_name")
				alias := findChild(c, "name")
				path := ""
				if name != nil {
					path = name.Content(source)
				}
				a := ""
				if alias != nil {
					a = alias.Content(source)
				}
				out = append(out, symstore.Import{Path: "\\" + path, Alias: a, FileID: fileID})
			}
		})
	})
	return out, nil
}

// FindCalls returns bare function calls (spec §4.D).
func (p *Parser) FindCalls(source []byte) ([]lang.NameRef, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []lang.NameRef
	callWalk(root, source, &out, nil)
	return out, nil
}

// FindMethodCalls returns member-access (`$this->m()`, `$obj->m()`) and
// static (`ClassName::static()`) calls with the receiver preserved.
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
		case "function_definition", "method_declaration":
			prev := caller
			if id := findChild(n, "name"); id != nil {
				caller = id.Content(src)
			}
			for i := 0; i < int(n.ChildCount()); i++ {
				walk(n.Child(i))
			}
			caller = prev
			return
		case "function_call_expression":
			fn := n.Child(0)
			if calls != nil && fn != nil && fn.Type() == "name" {
				*calls = append(*calls, lang.NameRef{Context: caller, Name: fn.Content(src), Range: rangeOf(n)})
			}
		case "member_call_expression":
			obj := n.Child(0)
			method := findChild(n, "name")
			if methodCalls != nil && obj != nil && method != nil {
				*methodCalls = append(*methodCalls, lang.MethodCall{
					Caller: caller, Receiver: obj.Content(src), MethodName: method.Content(src), Range: rangeOf(n),
				})
			}
		case "scoped_call_expression":
			obj := n.Child(0)
			method := findChild(n, "name")
			if methodCalls != nil && obj != nil && method != nil {
				*methodCalls = append(*methodCalls, lang.MethodCall{
					Caller: caller, Receiver: obj.Content(src), MethodName: method.Content(src), Range: rangeOf(n),
				})
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(node)
}

func (p *Parser) FindUses(source []byte) ([]lang.NameRef, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []lang.NameRef
	walkAll(root, func(n *sitter.Node) {
		if n.Type() != "named_type" {
			return
		}
		if id := findChild(n, "name"); id != nil {
			out = append(out, lang.NameRef{Name: id.Content(source), Range: rangeOf(id)})
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
		if n.Type() != "class_declaration" && n.Type() != "interface_declaration" && n.Type() != "trait_declaration" {
			return
		}
		owner := textOf(findChild(n, "name"), source)
		body := findChild(n, "declaration_list")
		if body == nil {
			return
		}
		for i := 0; i < int(body.NamedChildCount()); i++ {
			m := body.NamedChild(i)
			if m.Type() == "method_declaration" {
				out = append(out, lang.NameRef{Context: owner, Name: textOf(findChild(m, "name"), source), Range: rangeOf(m)})
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

// FindImplementations returns (class, interface) pairs from a class's
// `implements` clause.
func (p *Parser) FindImplementations(source []byte) ([]lang.InheritanceRef, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []lang.InheritanceRef
	walkAll(root, func(n *sitter.Node) {
		if n.Type() != "class_declaration" {
			return
		}
		derived := textOf(findChild(n, "name"), source)
		clause := findChild(n, "class_interface_clause")
		if clause == nil {
			return
		}
		walkAll(clause, func(inner *sitter.Node) {
			if inner.Type() == "name" || inner.Type() == "qualified_name" {
				out = append(out, lang.InheritanceRef{Derived: derived, Base: inner.Content(source), Range: rangeOf(inner)})
			}
		})
	})
	return out, nil
}

// FindExtends returns (derived, base) pairs from the `extends` clause
// (base_clause) of classes and interfaces. Trait `use` statements are
// not reported here; FindTraitUses returns them.
func (p *Parser) FindExtends(source []byte) ([]lang.InheritanceRef, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []lang.InheritanceRef
	walkAll(root, func(n *sitter.Node) {
		if n.Type() != "class_declaration" && n.Type() != "interface_declaration" {
			return
		}
		derived := textOf(findChild(n, "name"), source)
		clause := findChild(n, "base_clause")
		if clause == nil {
			return
		}
		walkAll(clause, func(inner *sitter.Node) {
			if inner.Type() == "name" || inner.Type() == "qualified_name" {
				out = append(out, lang.InheritanceRef{Derived: derived, Base: inner.Content(source), Range: rangeOf(inner)})
			}
		})
	})
	return out, nil
}

// FindTraitUses returns (using class, trait) pairs from `use TraitName;`
// statements inside a class body — PHP's third inheritance kind (spec
// §4.G `kind ∈ {extends, implements, uses}`).
func (p *Parser) FindTraitUses(source []byte) ([]lang.InheritanceRef, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []lang.InheritanceRef
	walkAll(root, func(n *sitter.Node) {
		if n.Type() != "class_declaration" {
			return
		}
		derived := textOf(findChild(n, "name"), source)
		body := findChild(n, "declaration_list")
		if body == nil {
			return
		}
		for i := 0; i < int(body.NamedChildCount()); i++ {
			m := body.NamedChild(i)
			if m.Type() != "use_declaration" {
				continue
			}
			walkAll(m, func(inner *sitter.Node) {
				if inner.Type() == "name" || inner.Type() == "qualified_name" {
					out = append(out, lang.InheritanceRef{Derived: derived, Base: inner.Content(source), Range: rangeOf(inner)})
				}
			})
		}
	})
	return out, nil
}
