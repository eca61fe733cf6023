// Package python implements the Python language parser, behavior, and
// resolution/inheritance wiring (spec §4.D/E/F/G).
package python

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tspy "github.com/smacker/go-tree-sitter/python"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/lang"
	"github.com/latticecode/lattice/internal/symstore"
)

// Parser implements lang.Parser for Python source using tree-sitter-python.
type Parser struct {
	ts *sitter.Parser
}

func New() (lang.Parser, lang.Behavior) {
	p := sitter.NewParser()
	p.SetLanguage(tspy.GetLanguage())
	return &Parser{ts: p}, NewBehavior()
}

func (p *Parser) parseTree(source []byte) *sitter.Node {
	tree, err := p.ts.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		return nil
	}
	return tree.RootNode()
}

func rangeOf(n *sitter.Node) ids.Range {
	return ids.NewRange(
		uint32(n.StartPoint().Row), uint16(n.StartPoint().Column),
		uint32(n.EndPoint().Row), uint16(n.EndPoint().Column),
	)
}

// Parse walks module-level and nested definitions, attributing
// ScopeContext per spec §4.D ("Python class": methods are ClassMember,
// class-body assignments are ClassMember fields; everything else
// non-module is Local with the innermost function/class as parent).
func (p *Parser) Parse(source []byte, fileID ids.FileId, counter *ids.Counter) ([]symstore.Symbol, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	w := &walker{src: source, fileID: fileID, counter: counter, scopes: lang.NewScopeStack()}
	w.walkBlock(root, true)
	return w.symbols, nil
}

type walker struct {
	src     []byte
	fileID  ids.FileId
	counter *ids.Counter
	scopes  *lang.ScopeStack
	symbols []symstore.Symbol
}

func (w *walker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(w.src)
}

func (w *walker) emit(sym symstore.Symbol) {
	sym.ID = w.counter.NextSymbolId()
	sym.FileID = w.fileID
	sym.Language = "python"
	w.symbols = append(w.symbols, sym)
}

// walkBlock processes the named children of a module or block node,
// recovering at the next well-formed statement after an ERROR node
// (spec §4.D failure policy).
func (w *walker) walkBlock(block *sitter.Node, atModule bool) {
	for i := 0; i < int(block.NamedChildCount()); i++ {
		stmt := block.NamedChild(i)
		switch stmt.Type() {
		case "ERROR":
			continue
		case "function_definition":
			w.functionDef(stmt, docstringOf(stmt, w.src), atModule)
		case "class_definition":
			w.classDef(stmt, docstringOf(stmt, w.src), atModule)
		case "decorated_definition":
			w.decoratedDef(stmt, atModule)
		case "assignment":
			w.assignment(stmt, atModule)
		case "if_statement", "for_statement", "while_statement", "try_statement", "with_statement":
			restore := w.scopes.PushBlock()
			for j := 0; j < int(stmt.NamedChildCount()); j++ {
				c := stmt.NamedChild(j)
				if c.Type() == "block" {
					w.walkBlock(c, false)
				}
			}
			restore()
		}
	}
}

func (w *walker) decoratedDef(node *sitter.Node, atModule bool) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		c := node.NamedChild(i)
		switch c.Type() {
		case "function_definition":
			w.functionDef(c, docstringOf(c, w.src), atModule)
		case "class_definition":
			w.classDef(c, docstringOf(c, w.src), atModule)
		}
	}
}

func (w *walker) functionDef(node *sitter.Node, doc string, atModule bool) {
	name := w.text(findChild(node, "identifier"))
	sig := w.text(findChild(node, "parameters"))

	kind := symstore.KindFunction
	sc := symstore.ScopeContext{Kind: symstore.ScopeModule}
	inClass := w.scopes.Top() == lang.ScopeClass
	if inClass {
		kind = symstore.KindMethod
		sc = symstore.ScopeContext{Kind: symstore.ScopeClassMember}
	} else if !atModule {
		sc = w.scopes.LocalScopeContext(false)
	}
	w.emit(symstore.Symbol{Range: rangeOf(node), Name: name, Kind: kind, Signature: sig, DocComment: doc, ScopeContext: sc})

	restore := w.scopes.PushFunction(name, kind)
	if body := findChild(node, "block"); body != nil {
		w.walkBlock(body, false)
	}
	restore()
}

func (w *walker) classDef(node *sitter.Node, doc string, atModule bool) {
	name := w.text(findChild(node, "identifier"))
	sc := symstore.ScopeContext{Kind: symstore.ScopeModule}
	if !atModule {
		sc = w.scopes.LocalScopeContext(false)
	}
	w.emit(symstore.Symbol{Range: rangeOf(node), Name: name, Kind: symstore.KindClass, DocComment: doc, ScopeContext: sc})

	restore := w.scopes.PushClass(name, symstore.KindClass)
	if body := findChild(node, "block"); body != nil {
		w.walkBlock(body, false)
	}
	restore()
}

// assignment emits class-body top-level assignments as ClassMember
// fields and everything else as Module/Local per the enclosing scope.
func (w *walker) assignment(node *sitter.Node, atModule bool) {
	left := node.Child(0)
	if left == nil || left.Type() != "identifier" {
		return
	}
	var sc symstore.ScopeContext
	switch {
	case w.scopes.Top() == lang.ScopeClass:
		sc = symstore.ScopeContext{Kind: symstore.ScopeClassMember}
	case atModule:
		sc = symstore.ScopeContext{Kind: symstore.ScopeModule}
	default:
		sc = w.scopes.LocalScopeContext(false)
	}
	kind := symstore.KindVariable
	if sc.Kind == symstore.ScopeClassMember {
		kind = symstore.KindField
	}
	w.emit(symstore.Symbol{Range: rangeOf(left), Name: w.text(left), Kind: kind, ScopeContext: sc})
}

// docstringOf returns the canonical Python doc-comment form: a bare
// string literal as the first statement of the definition's body (spec
// §4.D doc-comment attachment).
func docstringOf(defNode *sitter.Node, src []byte) string {
	body := findChild(defNode, "block")
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str.Type() != "string" {
		return ""
	}
	return strings.Trim(str.Content(src), "\"'")
}

func findChild(node *sitter.Node, nodeType string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		if c.Type() == nodeType {
			return c
		}
	}
	return nil
}

func walkAll(node *sitter.Node, fn func(*sitter.Node)) {
	fn(node)
	for i := 0; i < int(node.ChildCount()); i++ {
		walkAll(node.Child(i), fn)
	}
}
