package python

import (
	"strings"

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
		switch n.Type() {
		case "import_statement":
			for i := 0; i < int(n.NamedChildCount()); i++ {
				c := n.NamedChild(i)
				switch c.Type() {
				case "dotted_name":
					out = append(out, symstore.Import{Path: c.Content(source), FileID: fileID})
				case "aliased_import":
					name := findChild(c, "dotted_name")
					alias := findChild(c, "identifier")
					out = append(out, symstore.Import{Path: name.Content(source), Alias: alias.Content(source), FileID: fileID})
				}
			}
		case "import_from_statement":
			modName := findChild(n, "dotted_name")
			relative := findChild(n, "relative_import")
			base := ""
			if modName != nil {
				base = modName.Content(source)
			} else if relative != nil {
				base = relative.Content(source)
			}
			imported := false
			for i := 0; i < int(n.NamedChildCount()); i++ {
				c := n.NamedChild(i)
				switch c.Type() {
				case "wildcard_import":
					out = append(out, symstore.Import{Path: base, IsGlob: true, FileID: fileID})
					imported = true
				case "dotted_name":
					if c == modName {
						continue
					}
					out = append(out, symstore.Import{Path: base + "." + c.Content(source), FileID: fileID})
					imported = true
				case "aliased_import":
					name := findChild(c, "dotted_name")
					alias := findChild(c, "identifier")
					out = append(out, symstore.Import{Path: base + "." + name.Content(source), Alias: alias.Content(source), FileID: fileID})
					imported = true
				}
			}
			if !imported && base != "" {
				out = append(out, symstore.Import{Path: base, FileID: fileID})
			}
		}
	})
	return out, nil
}

// FindCalls returns bare function calls (callee is a plain identifier,
// never an attribute access), per spec §4.D/§8 property 5.
func (p *Parser) FindCalls(source []byte) ([]lang.NameRef, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []lang.NameRef
	w.callWalk(root, source, &out, nil)
	return out, nil
}

// FindMethodCalls returns attribute-access calls with the receiver
// preserved, per spec §4.D/§8 property 5.
func (p *Parser) FindMethodCalls(source []byte) ([]lang.MethodCall, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []lang.MethodCall
	w.callWalk(root, source, nil, &out)
	return out, nil
}

// dispatcher shared between FindCalls and FindMethodCalls so both
// traverse the same scope-tracking walk exactly once each.
type dispatcher struct{}

var w dispatcher

func (dispatcher) callWalk(node *sitter.Node, src []byte, calls *[]lang.NameRef, methodCalls *[]lang.MethodCall) {
	caller := ""
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "function_definition":
			prev := caller
			if id := findChild(n, "identifier"); id != nil {
				caller = id.Content(src)
			}
			for i := 0; i < int(n.ChildCount()); i++ {
				walk(n.Child(i))
			}
			caller = prev
			return
		case "call":
			fn := n.Child(0)
			if fn == nil {
				break
			}
			switch fn.Type() {
			case "identifier":
				if calls != nil {
					*calls = append(*calls, lang.NameRef{Context: caller, Name: fn.Content(src), Range: rangeOf(n)})
				}
			case "attribute":
				obj := findChild(fn, "identifier")
				attrs := attributeChildren(fn)
				if methodCalls != nil && len(attrs) > 0 {
					receiver := ""
					if obj != nil {
						receiver = obj.Content(src)
					}
					*methodCalls = append(*methodCalls, lang.MethodCall{
						Caller: caller, Receiver: receiver,
						MethodName: attrs[len(attrs)-1].Content(src), Range: rangeOf(n),
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

func attributeChildren(attr *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(attr.ChildCount()); i++ {
		c := attr.Child(i)
		if c.Type() == "identifier" {
			out = append(out, c)
		}
	}
	return out
}

// FindUses returns type references from annotations. Base-class lists
// are not read here; FindExtends reports them.
func (p *Parser) FindUses(source []byte) ([]lang.NameRef, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []lang.NameRef
	walkAll(root, func(n *sitter.Node) {
		if n.Type() != "type" {
			return
		}
		if id := findChild(n, "identifier"); id != nil {
			out = append(out, lang.NameRef{Name: id.Content(source), Range: rangeOf(id)})
		}
	})
	return out, nil
}

// FindDefines returns methods and class-body fields declared inside a
// class (spec §4.D).
func (p *Parser) FindDefines(source []byte) ([]lang.NameRef, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []lang.NameRef
	walkAll(root, func(n *sitter.Node) {
		if n.Type() != "class_definition" {
			return
		}
		owner := ""
		if id := findChild(n, "identifier"); id != nil {
			owner = id.Content(source)
		}
		body := findChild(n, "block")
		if body == nil {
			return
		}
		for i := 0; i < int(body.NamedChildCount()); i++ {
			stmt := body.NamedChild(i)
			switch stmt.Type() {
			case "function_definition":
				if id := findChild(stmt, "identifier"); id != nil {
					out = append(out, lang.NameRef{Context: owner, Name: id.Content(source), Range: rangeOf(id)})
				}
			case "assignment":
				if left := stmt.Child(0); left != nil && left.Type() == "identifier" {
					out = append(out, lang.NameRef{Context: owner, Name: left.Content(source), Range: rangeOf(left)})
				}
			}
		}
	})
	return out, nil
}

// FindImplementations always returns nil: Python has no separate
// interface-implementation declaration distinct from subclassing.
func (p *Parser) FindImplementations(source []byte) ([]lang.InheritanceRef, error) {
	return nil, nil
}

// FindExtends returns each class's declared base list, in declaration
// order (load-bearing for the C3 MRO computed by inherit.PythonResolver).
func (p *Parser) FindExtends(source []byte) ([]lang.InheritanceRef, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []lang.InheritanceRef
	walkAll(root, func(n *sitter.Node) {
		if n.Type() != "class_definition" {
			return
		}
		derived := ""
		if id := findChild(n, "identifier"); id != nil {
			derived = id.Content(source)
		}
		argList := findChild(n, "argument_list")
		if argList == nil {
			return
		}
		for i := 0; i < int(argList.NamedChildCount()); i++ {
			base := argList.NamedChild(i)
			if base.Type() == "identifier" {
				out = append(out, lang.InheritanceRef{Derived: derived, Base: base.Content(source), Range: rangeOf(base)})
			} else if base.Type() == "keyword_argument" {
				// metaclass=, etc. — not a base class.
				continue
			} else if strings.Contains(base.Type(), "attribute") {
				out = append(out, lang.InheritanceRef{Derived: derived, Base: base.Content(source), Range: rangeOf(base)})
			}
		}
	})
	return out, nil
}
