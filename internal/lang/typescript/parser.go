// Package typescript implements the TypeScript language parser,
// behavior, and resolution/inheritance wiring (spec §4.D/E/F/G),
// adapted from the tree-sitter traversal style of the JavaScript/
// TypeScript parser this codebase has long shipped.
package typescript

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsts "github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/lang"
	"github.com/latticecode/lattice/internal/symstore"
)

// Parser implements lang.Parser for TypeScript source.
type Parser struct {
	ts *sitter.Parser
}

func New() (lang.Parser, lang.Behavior) {
	p := sitter.NewParser()
	p.SetLanguage(tsts.GetLanguage())
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

// Parse walks the program body. Function declarations, interfaces, and
// type aliases at module scope are hoisted per spec §4.D, but keep
// ScopeContext = Module even so — the edge-case table is explicit that
// interface/type declarations at file top level stay Module despite
// being hoisted; only their nested-in-a-function counterparts become
// Local{hoisted:true}.
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
	sym.Language = "typescript"
	w.symbols = append(w.symbols, sym)
}

func (w *walker) walkBlock(block *sitter.Node, atModule bool) {
	for i := 0; i < int(block.NamedChildCount()); i++ {
		stmt := block.NamedChild(i)
		w.statement(stmt, atModule)
	}
}

func (w *walker) statement(stmt *sitter.Node, atModule bool) {
	doc := docCommentBefore(stmt, w.src)
	switch stmt.Type() {
	case "ERROR":
		return
	case "export_statement":
		for i := 0; i < int(stmt.NamedChildCount()); i++ {
			w.statement(stmt.NamedChild(i), atModule)
		}
	case "function_declaration":
		w.functionDecl(stmt, doc, atModule, true)
	case "class_declaration":
		w.classDecl(stmt, doc, atModule)
	case "interface_declaration":
		w.interfaceDecl(stmt, doc, atModule)
	case "type_alias_declaration":
		w.typeAliasDecl(stmt, doc, atModule)
	case "enum_declaration":
		w.enumDecl(stmt, doc, atModule)
	case "lexical_declaration", "variable_declaration":
		w.varDecl(stmt, atModule)
	case "if_statement", "for_statement", "for_in_statement", "while_statement", "try_statement":
		restore := w.scopes.PushBlock()
		for i := 0; i < int(stmt.NamedChildCount()); i++ {
			c := stmt.NamedChild(i)
			if c.Type() == "statement_block" {
				w.walkBlock(c, false)
			} else {
				w.statement(c, false)
			}
		}
		restore()
	}
}

// functionDecl handles both declarations (hoisted) and function
// expressions (not hoisted, caller controls via the hoisted param).
func (w *walker) functionDecl(node *sitter.Node, doc string, atModule, hoisted bool) {
	name := w.text(findChild(node, "identifier"))
	sig := w.text(findChild(node, "formal_parameters"))
	sc := symstore.ScopeContext{Kind: symstore.ScopeModule}
	if !atModule {
		sc = w.scopes.LocalScopeContext(hoisted)
	}
	w.emit(symstore.Symbol{Range: rangeOf(node), Name: name, Kind: symstore.KindFunction, Signature: sig, DocComment: doc, ScopeContext: sc})

	restore := w.scopes.PushFunction(name, symstore.KindFunction)
	if body := findChild(node, "statement_block"); body != nil {
		w.walkBlock(body, false)
	}
	restore()
}

func (w *walker) classDecl(node *sitter.Node, doc string, atModule bool) {
	name := w.text(findChild(node, "type_identifier"))
	sc := symstore.ScopeContext{Kind: symstore.ScopeModule}
	if !atModule {
		sc = w.scopes.LocalScopeContext(false)
	}
	w.emit(symstore.Symbol{Range: rangeOf(node), Name: name, Kind: symstore.KindClass, DocComment: doc, ScopeContext: sc})

	restore := w.scopes.PushClass(name, symstore.KindClass)
	if body := findChild(node, "class_body"); body != nil {
		w.classMembers(body, name)
	}
	restore()
}

func (w *walker) classMembers(body *sitter.Node, className string) {
	for i := 0; i < int(body.NamedChildCount()); i++ {
		m := body.NamedChild(i)
		switch m.Type() {
		case "method_definition":
			name := propertyName(m, w.src)
			sig := w.text(findChild(m, "formal_parameters"))
			w.emit(symstore.Symbol{
				Range: rangeOf(m), Name: name, Kind: symstore.KindMethod, Signature: sig,
				DocComment:   docCommentBefore(m, w.src),
				ScopeContext: symstore.ScopeContext{Kind: symstore.ScopeClassMember},
			})
			restore := w.scopes.PushFunction(name, symstore.KindMethod)
			if fb := findChild(m, "statement_block"); fb != nil {
				w.walkBlock(fb, false)
			}
			restore()
		case "public_field_definition":
			name := propertyName(m, w.src)
			w.emit(symstore.Symbol{
				Range: rangeOf(m), Name: name, Kind: symstore.KindField,
				DocComment:   docCommentBefore(m, w.src),
				ScopeContext: symstore.ScopeContext{Kind: symstore.ScopeClassMember},
			})
		}
	}
}

func (w *walker) interfaceDecl(node *sitter.Node, doc string, atModule bool) {
	name := w.text(findChild(node, "type_identifier"))
	sc := symstore.ScopeContext{Kind: symstore.ScopeModule}
	if !atModule {
		sc = w.scopes.LocalScopeContext(true)
	}
	w.emit(symstore.Symbol{Range: rangeOf(node), Name: name, Kind: symstore.KindInterface, DocComment: doc, ScopeContext: sc})

	body := findChild(node, "interface_body")
	if body == nil {
		body = findChild(node, "object_type")
	}
	if body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			m := body.NamedChild(i)
			if m.Type() == "method_signature" || m.Type() == "property_signature" {
				w.emit(symstore.Symbol{
					Range: rangeOf(m), Name: propertyName(m, w.src), Kind: symstore.KindMethod,
					ScopeContext: symstore.ScopeContext{Kind: symstore.ScopeClassMember, ParentName: name, ParentKind: symstore.KindInterface},
				})
			}
		}
	}
}

func (w *walker) typeAliasDecl(node *sitter.Node, doc string, atModule bool) {
	name := w.text(findChild(node, "type_identifier"))
	sc := symstore.ScopeContext{Kind: symstore.ScopeModule}
	if !atModule {
		sc = w.scopes.LocalScopeContext(true)
	}
	w.emit(symstore.Symbol{Range: rangeOf(node), Name: name, Kind: symstore.KindTypeAlias, DocComment: doc, ScopeContext: sc})
}

func (w *walker) enumDecl(node *sitter.Node, doc string, atModule bool) {
	name := w.text(findChild(node, "identifier"))
	sc := symstore.ScopeContext{Kind: symstore.ScopeModule}
	if !atModule {
		sc = w.scopes.LocalScopeContext(false)
	}
	w.emit(symstore.Symbol{Range: rangeOf(node), Name: name, Kind: symstore.KindEnum, DocComment: doc, ScopeContext: sc})
}

func (w *walker) varDecl(node *sitter.Node, atModule bool) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		decl := node.NamedChild(i)
		if decl.Type() != "variable_declarator" {
			continue
		}
		name := w.text(findChild(decl, "identifier"))
		if name == "" {
			continue
		}
		isFn := false
		for j := 0; j < int(decl.NamedChildCount()); j++ {
			c := decl.NamedChild(j)
			if c.Type() == "arrow_function" || c.Type() == "function" {
				isFn = true
			}
		}
		kind := symstore.KindVariable
		if isFn {
			kind = symstore.KindFunction
		}
		// const/let bindings are not function-declaration-hoisted; a
		// `var` binding is. var arrives as variable_declaration and
		// let/const as lexical_declaration; the check keys off the
		// leading keyword text.
		hoisted := strings.HasPrefix(w.text(node), "var")
		sc := symstore.ScopeContext{Kind: symstore.ScopeModule}
		if !atModule {
			sc = w.scopes.LocalScopeContext(hoisted)
		}
		w.emit(symstore.Symbol{Range: rangeOf(decl), Name: name, Kind: kind, ScopeContext: sc})
	}
}

func propertyName(node *sitter.Node, src []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		if c.Type() == "property_identifier" || c.Type() == "identifier" {
			return c.Content(src)
		}
	}
	return ""
}

// docCommentBefore collects an immediately preceding JSDoc `/** */`
// block comment, per spec §4.D doc-comment attachment.
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
