// Package rust implements the Rust language parser, behavior, and
// resolution/inheritance wiring (spec §4.D/E/F/G).
package rust

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsrust "github.com/smacker/go-tree-sitter/rust"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/lang"
	"github.com/latticecode/lattice/internal/symstore"
)

// Parser implements lang.Parser for Rust source.
type Parser struct {
	ts *sitter.Parser
}

func New() (lang.Parser, lang.Behavior) {
	p := sitter.NewParser()
	p.SetLanguage(tsrust.GetLanguage())
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

// Parse walks the crate module. impl blocks define methods on the Self
// type (ClassMember, including associated functions with no `self`
// receiver); trait methods are also ClassMember of the trait (spec §4.D
// Rust edge-case rows).
func (p *Parser) Parse(source []byte, fileID ids.FileId, counter *ids.Counter) ([]symstore.Symbol, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	w := &walker{src: source, fileID: fileID, counter: counter, scopes: lang.NewScopeStack()}
	w.walkItems(root, true)
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
	sym.Language = "rust"
	w.symbols = append(w.symbols, sym)
}

func (w *walker) walkItems(container *sitter.Node, atModule bool) {
	var docBuf []string
	for i := 0; i < int(container.NamedChildCount()); i++ {
		item := container.NamedChild(i)
		switch item.Type() {
		case "line_comment":
			if line, ok := rustDocLine(w.text(item)); ok {
				docBuf = append(docBuf, line)
				continue
			}
		case "block_comment":
			if line, ok := rustBlockDoc(w.text(item)); ok {
				docBuf = append(docBuf, line)
				continue
			}
		case "ERROR":
			docBuf = nil
			continue
		case "function_item", "function_signature_item":
			w.functionItem(item, strings.Join(docBuf, "\n"), atModule)
		case "struct_item":
			w.structItem(item, strings.Join(docBuf, "\n"), atModule)
		case "enum_item":
			w.enumItem(item, strings.Join(docBuf, "\n"), atModule)
		case "trait_item":
			w.traitItem(item, strings.Join(docBuf, "\n"), atModule)
		case "impl_item":
			w.implItem(item, atModule)
		case "mod_item":
			w.modItem(item, atModule)
		case "let_declaration":
			w.letDecl(item)
		}
		docBuf = nil
	}
}

// rustDocLine recognises `///` but rejects `////`-style separators.
func rustDocLine(text string) (string, bool) {
	if !strings.HasPrefix(text, "///") || strings.HasPrefix(text, "////") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(text, "///")), true
}

// rustBlockDoc recognises `/** */` but rejects `/*** */`.
func rustBlockDoc(text string) (string, bool) {
	if !strings.HasPrefix(text, "/**") || strings.HasPrefix(text, "/***") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(text, "/**"), "*/")), true
}

func (w *walker) functionItem(node *sitter.Node, doc string, atModule bool) {
	name := w.text(findChild(node, "identifier"))
	sig := w.text(findChild(node, "parameters"))

	kind := symstore.KindFunction
	sc := symstore.ScopeContext{Kind: symstore.ScopeModule}
	onSelf := w.scopes.Top() == lang.ScopeClass
	if onSelf {
		kind = symstore.KindMethod
		sc = symstore.ScopeContext{Kind: symstore.ScopeClassMember}
	} else if !atModule {
		sc = w.scopes.LocalScopeContext(false)
	}
	w.emit(symstore.Symbol{Range: rangeOf(node), Name: name, Kind: kind, Signature: sig, DocComment: doc, ScopeContext: sc})

	restore := w.scopes.PushFunction(name, kind)
	if body := findChild(node, "block"); body != nil {
		w.walkItems(body, false)
	}
	restore()
}

func (w *walker) structItem(node *sitter.Node, doc string, atModule bool) {
	name := w.text(findChild(node, "type_identifier"))
	sc := symstore.ScopeContext{Kind: symstore.ScopeModule}
	if !atModule {
		sc = w.scopes.LocalScopeContext(false)
	}
	w.emit(symstore.Symbol{Range: rangeOf(node), Name: name, Kind: symstore.KindStruct, DocComment: doc, ScopeContext: sc})

	if fields := findChild(node, "field_declaration_list"); fields != nil {
		for i := 0; i < int(fields.NamedChildCount()); i++ {
			fd := fields.NamedChild(i)
			if fd.Type() != "field_declaration" {
				continue
			}
			if id := findChild(fd, "field_identifier"); id != nil {
				w.emit(symstore.Symbol{
					Range: rangeOf(id), Name: w.text(id), Kind: symstore.KindField,
					ScopeContext: symstore.ScopeContext{Kind: symstore.ScopeClassMember, ParentName: name, ParentKind: symstore.KindStruct},
				})
			}
		}
	}
}

func (w *walker) enumItem(node *sitter.Node, doc string, atModule bool) {
	name := w.text(findChild(node, "type_identifier"))
	sc := symstore.ScopeContext{Kind: symstore.ScopeModule}
	if !atModule {
		sc = w.scopes.LocalScopeContext(false)
	}
	w.emit(symstore.Symbol{Range: rangeOf(node), Name: name, Kind: symstore.KindEnum, DocComment: doc, ScopeContext: sc})
}

func (w *walker) traitItem(node *sitter.Node, doc string, atModule bool) {
	name := w.text(findChild(node, "type_identifier"))
	sc := symstore.ScopeContext{Kind: symstore.ScopeModule}
	if !atModule {
		sc = w.scopes.LocalScopeContext(false)
	}
	w.emit(symstore.Symbol{Range: rangeOf(node), Name: name, Kind: symstore.KindTrait, DocComment: doc, ScopeContext: sc})

	restore := w.scopes.PushClass(name, symstore.KindTrait)
	if body := findChild(node, "declaration_list"); body != nil {
		w.walkItems(body, false)
	}
	restore()
}

// implItem handles `impl Type` (inherent) and `impl Trait for Type`
// (trait impl): both attribute their methods as ClassMember of Self,
// the type named by `type`, per spec §4.D.
func (w *walker) implItem(node *sitter.Node, atModule bool) {
	selfType := ""
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		if c.Type() == "type_identifier" || c.Type() == "generic_type" {
			selfType = innerTypeName(c, w.src)
		}
	}
	restore := w.scopes.PushClass(selfType, symstore.KindStruct)
	if body := findChild(node, "declaration_list"); body != nil {
		w.walkItems(body, false)
	}
	restore()
}

func innerTypeName(n *sitter.Node, src []byte) string {
	if n.Type() == "generic_type" {
		if id := findChild(n, "type_identifier"); id != nil {
			return id.Content(src)
		}
	}
	return n.Content(src)
}

func (w *walker) modItem(node *sitter.Node, atModule bool) {
	name := w.text(findChild(node, "identifier"))
	sc := symstore.ScopeContext{Kind: symstore.ScopeModule}
	if !atModule {
		sc = w.scopes.LocalScopeContext(false)
	}
	w.emit(symstore.Symbol{Range: rangeOf(node), Name: name, Kind: symstore.KindModule, ScopeContext: sc})

	if body := findChild(node, "declaration_list"); body != nil {
		w.walkItems(body, false)
	}
}

func (w *walker) letDecl(node *sitter.Node) {
	pat := findChild(node, "identifier")
	if pat == nil {
		return
	}
	w.emit(symstore.Symbol{Range: rangeOf(pat), Name: w.text(pat), Kind: symstore.KindVariable, ScopeContext: w.scopes.LocalScopeContext(false)})
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
