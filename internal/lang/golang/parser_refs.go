package golang

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/lang"
	"github.com/latticecode/lattice/internal/symstore"
)

// FindImports extracts one Import per import_spec, per spec §4.D.
func (p *Parser) FindImports(source []byte, fileID ids.FileId) ([]symstore.Import, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []symstore.Import
	walkAll(root, func(n *sitter.Node) {
		if n.Type() != "import_spec" {
			return
		}
		var path, alias string
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			switch c.Type() {
			case "interpreted_string_literal":
				path = unquote(c.Content(source))
			case "package_identifier":
				alias = c.Content(source)
			case "blank_identifier":
				alias = "_"
			case "dot":
				alias = "."
			}
		}
		out = append(out, symstore.Import{Path: path, Alias: alias, FileID: fileID})
	})
	return out, nil
}

// FindCalls returns bare function calls: a call_expression whose
// function is a plain identifier (spec §4.D discrimination rule).
func (p *Parser) FindCalls(source []byte) ([]lang.NameRef, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []lang.NameRef
	caller := ""
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "function_declaration":
			prev := caller
			caller = identText(n, source)
			for i := 0; i < int(n.ChildCount()); i++ {
				walk(n.Child(i))
			}
			caller = prev
			return
		case "method_declaration":
			prev := caller
			caller = fieldIdentText(n, source)
			for i := 0; i < int(n.ChildCount()); i++ {
				walk(n.Child(i))
			}
			caller = prev
			return
		case "call_expression":
			fn := n.Child(0)
			if fn != nil && fn.Type() == "identifier" {
				out = append(out, lang.NameRef{Context: caller, Name: fn.Content(source), Range: rangeOf(n)})
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return out, nil
}

// FindMethodCalls returns selector-expression calls with the receiver
// preserved (spec §4.D).
func (p *Parser) FindMethodCalls(source []byte) ([]lang.MethodCall, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []lang.MethodCall
	caller := ""
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "function_declaration":
			prev := caller
			caller = identText(n, source)
			for i := 0; i < int(n.ChildCount()); i++ {
				walk(n.Child(i))
			}
			caller = prev
			return
		case "method_declaration":
			prev := caller
			caller = fieldIdentText(n, source)
			for i := 0; i < int(n.ChildCount()); i++ {
				walk(n.Child(i))
			}
			caller = prev
			return
		case "call_expression":
			fn := n.Child(0)
			if fn != nil && fn.Type() == "selector_expression" {
				operand := fn.Child(0)
				field := findChild(fn, "field_identifier")
				if operand != nil && field != nil {
					out = append(out, lang.MethodCall{
						Caller: caller, Receiver: operand.Content(source),
						MethodName: field.Content(source), Range: rangeOf(n),
					})
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return out, nil
}

// FindUses returns type references from field declarations, parameters,
// and return types (spec §4.D).
func (p *Parser) FindUses(source []byte) ([]lang.NameRef, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []lang.NameRef
	walkAll(root, func(n *sitter.Node) {
		var ownerTypes = map[string]string{"type_spec": "", "field_declaration": "", "parameter_declaration": ""}
		_ = ownerTypes
		if n.Type() != "type_identifier" {
			return
		}
		parent := n.Parent()
		if parent == nil {
			return
		}
		switch parent.Type() {
		case "field_declaration", "parameter_declaration", "pointer_type", "array_type", "slice_type",
			"function_declaration", "method_declaration", "method_spec":
			out = append(out, lang.NameRef{Name: n.Content(source), Range: rangeOf(n)})
		}
	})
	return out, nil
}

// FindDefines returns struct fields and interface methods (spec §4.D);
// Parse already emits these as symbols, FindDefines additionally
// reports them as definer/member pairs for edge building.
func (p *Parser) FindDefines(source []byte) ([]lang.NameRef, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []lang.NameRef
	walkAll(root, func(n *sitter.Node) {
		if n.Type() != "type_spec" {
			return
		}
		owner := identText2(findChild(n, "type_identifier"), source)
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			switch c.Type() {
			case "struct_type":
				if fl := findChild(c, "field_declaration_list"); fl != nil {
					for j := 0; j < int(fl.NamedChildCount()); j++ {
						fd := fl.NamedChild(j)
						for k := 0; k < int(fd.NamedChildCount()); k++ {
							fid := fd.NamedChild(k)
							if fid.Type() == "field_identifier" {
								out = append(out, lang.NameRef{Context: owner, Name: fid.Content(source), Range: rangeOf(fid)})
							}
						}
					}
				}
			case "interface_type":
				for j := 0; j < int(c.NamedChildCount()); j++ {
					m := c.NamedChild(j)
					if m.Type() == "method_spec" {
						if fid := findChild(m, "field_identifier"); fid != nil {
							out = append(out, lang.NameRef{Context: owner, Name: fid.Content(source), Range: rangeOf(fid)})
						}
					}
				}
			}
		}
	})
	return out, nil
}

// FindImplementations always returns nil: Go interface satisfaction is
// structural, not a parseable declaration (spec §4.D Go row notes Go
// carries no explicit implements clause).
func (p *Parser) FindImplementations(source []byte) ([]lang.InheritanceRef, error) {
	return nil, nil
}

// FindExtends returns embedded-field and embedded-interface
// relationships: Go's nearest analogue to a base-type declaration.
func (p *Parser) FindExtends(source []byte) ([]lang.InheritanceRef, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	var out []lang.InheritanceRef
	walkAll(root, func(n *sitter.Node) {
		if n.Type() != "type_spec" {
			return
		}
		derived := identText2(findChild(n, "type_identifier"), source)
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			switch c.Type() {
			case "struct_type":
				if fl := findChild(c, "field_declaration_list"); fl != nil {
					for j := 0; j < int(fl.NamedChildCount()); j++ {
						fd := fl.NamedChild(j)
						if fd.Type() != "field_declaration" {
							continue
						}
						if hasEmbeddedField(fd) {
							if base := embeddedTypeName(fd, source); base != "" {
								out = append(out, lang.InheritanceRef{Derived: derived, Base: base, Range: rangeOf(fd)})
							}
						}
					}
				}
			case "interface_type":
				for j := 0; j < int(c.NamedChildCount()); j++ {
					m := c.NamedChild(j)
					if m.Type() == "type_identifier" {
						out = append(out, lang.InheritanceRef{Derived: derived, Base: m.Content(source), Range: rangeOf(m)})
					}
				}
			}
		}
	})
	return out, nil
}

// hasEmbeddedField reports whether a field_declaration has no
// field_identifier child, which in Go's grammar marks an embedded type.
func hasEmbeddedField(fd *sitter.Node) bool {
	for i := 0; i < int(fd.NamedChildCount()); i++ {
		if fd.NamedChild(i).Type() == "field_identifier" {
			return false
		}
	}
	return true
}

func embeddedTypeName(fd *sitter.Node, src []byte) string {
	for i := 0; i < int(fd.NamedChildCount()); i++ {
		c := fd.NamedChild(i)
		switch c.Type() {
		case "type_identifier":
			return c.Content(src)
		case "pointer_type":
			if t := findChild(c, "type_identifier"); t != nil {
				return t.Content(src)
			}
		case "qualified_type":
			return c.Content(src)
		}
	}
	return ""
}

func identText(n *sitter.Node, src []byte) string {
	return identText2(findChild(n, "identifier"), src)
}

func fieldIdentText(n *sitter.Node, src []byte) string {
	return identText2(findChild(n, "field_identifier"), src)
}

func identText2(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(src)
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
