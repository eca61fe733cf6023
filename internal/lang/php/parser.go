// Package php implements the PHP language parser, behavior, and
// resolution/inheritance wiring (spec §4.D/E/F/G).
package php

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsphp "github.com/smacker/go-tree-sitter/php"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/lang"
	"github.com/latticecode/lattice/internal/symstore"
)

// Parser implements lang.Parser for PHP source.
type Parser struct {
	ts *sitter.Parser
}

func New() (lang.Parser, lang.Behavior) {
	p := sitter.NewParser()
	p.SetLanguage(tsphp.GetLanguage())
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

// Parse walks the program. The walker records the enclosing namespaces
// as the ModulePath of functions and classes, but the indexer's
// ConfigureSymbol then replaces ModulePath with the path derived from
// the file's location, so namespace declarations do not reach the
// stored module path. A class nested inside a function is Local with
// parent context (spec §4.D PHP edge-case row).
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
	src        []byte
	fileID     ids.FileId
	counter    *ids.Counter
	scopes     *lang.ScopeStack
	symbols    []symstore.Symbol
	namespaces []string
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
	sym.Language = "php"
	w.symbols = append(w.symbols, sym)
}

func (w *walker) walkBlock(block *sitter.Node, atModule bool) {
	for i := 0; i < int(block.NamedChildCount()); i++ {
		stmt := block.NamedChild(i)
		switch stmt.Type() {
		case "ERROR":
			continue
		case "namespace_definition":
			w.namespaceDef(stmt)
		case "function_definition":
			w.functionDef(stmt, docCommentBefore(stmt, w.src), atModule)
		case "class_declaration", "interface_declaration", "trait_declaration":
			w.classLike(stmt, docCommentBefore(stmt, w.src), atModule)
		case "if_statement", "foreach_statement", "for_statement", "while_statement", "try_statement":
			restore := w.scopes.PushBlock()
			walkAll(stmt, func(n *sitter.Node) {
				if n.Type() == "compound_statement" {
					w.walkBlock(n, false)
				}
			})
			restore()
		}
	}
}

func (w *walker) namespaceDef(node *sitter.Node) {
	name := w.text(findChild(node, "namespace_name"))
	w.namespaces = append(w.namespaces, name)
	if body := findChild(node, "compound_statement"); body != nil {
		w.walkBlock(body, true)
		w.namespaces = w.namespaces[:len(w.namespaces)-1]
	}
	// Unbraced `namespace X;` form: namespace stays open for the rest
	// of the file; caller's subsequent walkBlock calls still see it
	// via w.namespaces.
}

func (w *walker) modulePath() string {
	return strings.Join(w.namespaces, "\\")
}

func (w *walker) functionDef(node *sitter.Node, doc string, atModule bool) {
	name := w.text(findChild(node, "name"))
	sig := w.text(findChild(node, "formal_parameters"))
	sc := symstore.ScopeContext{Kind: symstore.ScopeModule}
	if !atModule {
		sc = w.scopes.LocalScopeContext(false)
	}
	w.emit(symstore.Symbol{Range: rangeOf(node), Name: name, Kind: symstore.KindFunction, Signature: sig, DocComment: doc, ScopeContext: sc, ModulePath: w.modulePath()})

	restore := w.scopes.PushFunction(name, symstore.KindFunction)
	if body := findChild(node, "compound_statement"); body != nil {
		w.walkBlock(body, false)
	}
	restore()
}

func (w *walker) classLike(node *sitter.Node, doc string, atModule bool) {
	name := w.text(findChild(node, "name"))
	kind := symstore.KindClass
	switch node.Type() {
	case "interface_declaration":
		kind = symstore.KindInterface
	case "trait_declaration":
		kind = symstore.KindTrait
	}
	sc := symstore.ScopeContext{Kind: symstore.ScopeModule}
	if !atModule {
		sc = w.scopes.LocalScopeContext(false)
	}
	w.emit(symstore.Symbol{Range: rangeOf(node), Name: name, Kind: kind, DocComment: doc, ScopeContext: sc, ModulePath: w.modulePath()})

	restore := w.scopes.PushClass(name, kind)
	if body := findChild(node, "declaration_list"); body != nil {
		w.classMembers(body, name)
	}
	restore()
}

func (w *walker) classMembers(body *sitter.Node, className string) {
	for i := 0; i < int(body.NamedChildCount()); i++ {
		m := body.NamedChild(i)
		switch m.Type() {
		case "method_declaration":
			name := w.text(findChild(m, "name"))
			sig := w.text(findChild(m, "formal_parameters"))
			w.emit(symstore.Symbol{
				Range: rangeOf(m), Name: name, Kind: symstore.KindMethod, Signature: sig,
				DocComment:   docCommentBefore(m, w.src),
				ScopeContext: symstore.ScopeContext{Kind: symstore.ScopeClassMember},
			})
			restore := w.scopes.PushFunction(name, symstore.KindMethod)
			if fb := findChild(m, "compound_statement"); fb != nil {
				w.walkBlock(fb, false)
			}
			restore()
		case "property_declaration":
			walkAll(m, func(n *sitter.Node) {
				if n.Type() == "variable_name" {
					w.emit(symstore.Symbol{
						Range: rangeOf(n), Name: w.text(n), Kind: symstore.KindField,
						ScopeContext: symstore.ScopeContext{Kind: symstore.ScopeClassMember, ParentName: className, ParentKind: symstore.KindClass},
					})
				}
			})
		}
	}
}

// docCommentBefore collects an immediately preceding `/** */` PHPDoc
// block (spec §4.D doc-comment attachment).
func docCommentBefore(node *sitter.Node, src []byte) string {
	prev := node.PrevSibling()
	if prev == nil || prev.Type() != "comment" {
		return ""
	}
	text := prev.Content(src)
	if !strings.HasPrefix(text, "/**") {
		return ""
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(text, "/**"), "*/"))
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
