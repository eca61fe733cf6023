// Package golang implements the Go language parser, behavior, and
// resolution/inheritance wiring (spec §4.D/E/F/G), grounded on the
// layout original_source/src/parsing/go/mod.rs describes: parser,
// behavior, definition (here: registration), and resolution.
package golang

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsgo "github.com/smacker/go-tree-sitter/golang"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/lang"
	"github.com/latticecode/lattice/internal/symstore"
)

// Parser implements lang.Parser for Go source using tree-sitter-go.
type Parser struct {
	ts *sitter.Parser
}

// New builds a fresh Go parser and behavior pair.
func New() (lang.Parser, lang.Behavior) {
	p := sitter.NewParser()
	p.SetLanguage(tsgo.GetLanguage())
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

// Parse walks the file and emits every Go symbol (spec §4.D common
// contract). Traversal keeps a ScopeStack so nested declarations pick
// up the right ScopeContext, per the Go edge-case row in spec §4.D:
// receivers are Parameter, short-decls inside control-flow inits are
// Local. The package clause is not read; the indexer takes the module
// path from the file's directory (Behavior.ModulePathFromFile).
func (p *Parser) Parse(source []byte, fileID ids.FileId, counter *ids.Counter) ([]symstore.Symbol, error) {
	root := p.parseTree(source)
	if root == nil {
		return nil, nil
	}
	w := &walker{src: source, fileID: fileID, counter: counter, scopes: lang.NewScopeStack()}
	w.walkTopLevel(root)
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

func (w *walker) emit(sym symstore.Symbol) symstore.Symbol {
	sym.ID = w.counter.NextSymbolId()
	sym.FileID = w.fileID
	sym.Language = "go"
	w.symbols = append(w.symbols, sym)
	return sym
}

// walkTopLevel handles declarations directly under source_file: a
// recoverable parse error (an ERROR node) is skipped and traversal
// resumes at the next well-formed sibling, per spec §4.D failure
// policy.
func (w *walker) walkTopLevel(root *sitter.Node) {
	var docBuf []string
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "comment":
			if line, ok := goDocLine(w.text(child)); ok {
				docBuf = append(docBuf, line)
				continue
			}
			docBuf = nil
		case "ERROR":
			docBuf = nil
			continue
		case "function_declaration":
			w.functionDecl(child, strings.Join(docBuf, "\n"))
			docBuf = nil
		case "method_declaration":
			w.methodDecl(child, strings.Join(docBuf, "\n"))
			docBuf = nil
		case "type_declaration":
			w.typeDecl(child, strings.Join(docBuf, "\n"))
			docBuf = nil
		case "var_declaration":
			w.varOrConstDecl(child, symstore.KindVariable)
			docBuf = nil
		case "const_declaration":
			w.varOrConstDecl(child, symstore.KindConstant)
			docBuf = nil
		default:
			docBuf = nil
		}
	}
}

// goDocLine recognises the canonical `//` doc-comment form, rejecting
// `////`-style separator comments (spec §4.D doc-comment attachment).
func goDocLine(text string) (string, bool) {
	if !strings.HasPrefix(text, "//") {
		return "", false
	}
	if strings.HasPrefix(text, "////") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(text, "//")), true
}

func (w *walker) functionDecl(node *sitter.Node, doc string) {
	var name string
	var sig string
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		switch c.Type() {
		case "identifier":
			if name == "" {
				name = w.text(c)
			}
		case "parameter_list":
			if sig == "" {
				sig = w.text(c)
			}
		}
	}
	sym := symstore.Symbol{
		Range: rangeOf(node), Name: name, Kind: symstore.KindFunction,
		Signature: sig, DocComment: doc,
		ScopeContext: symstore.ScopeContext{Kind: symstore.ScopeModule},
	}
	w.emit(sym)

	restore := w.scopes.PushFunction(name, symstore.KindFunction)
	defer restore()
	if body := findChild(node, "block"); body != nil {
		w.walkFunctionBody(body, node)
	}
}

func (w *walker) methodDecl(node *sitter.Node, doc string) {
	var name, sig, receiverType string
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		switch c.Type() {
		case "field_identifier":
			if name == "" {
				name = w.text(c)
			}
		case "parameter_list":
			if receiverType == "" {
				receiverType = receiverTypeName(c, w.src)
				w.emitReceiverParam(c)
			} else if sig == "" {
				sig = w.text(c)
			}
		}
	}
	qualified := name
	if receiverType != "" {
		qualified = receiverType + "." + name
	}
	sym := symstore.Symbol{
		Range: rangeOf(node), Name: name, Kind: symstore.KindMethod,
		Signature: sig, DocComment: doc,
		ScopeContext: symstore.ScopeContext{Kind: symstore.ScopeClassMember},
	}
	_ = qualified
	w.emit(sym)

	restore := w.scopes.PushFunction(name, symstore.KindMethod)
	defer restore()
	if body := findChild(node, "block"); body != nil {
		w.walkFunctionBody(body, node)
	}
}

// emitReceiverParam emits the receiver as a Parameter-scoped symbol,
// per spec §4.D's Go edge-case row.
func (w *walker) emitReceiverParam(paramList *sitter.Node) {
	for i := 0; i < int(paramList.NamedChildCount()); i++ {
		pd := paramList.NamedChild(i)
		if pd.Type() != "parameter_declaration" {
			continue
		}
		if id := findChild(pd, "identifier"); id != nil {
			w.emit(symstore.Symbol{
				Range: rangeOf(id), Name: w.text(id), Kind: symstore.KindParameter,
				ScopeContext: symstore.ScopeContext{Kind: symstore.ScopeParameter},
			})
		}
	}
}

func receiverTypeName(paramList *sitter.Node, src []byte) string {
	for i := 0; i < int(paramList.NamedChildCount()); i++ {
		pd := paramList.NamedChild(i)
		if pd.Type() != "parameter_declaration" {
			continue
		}
		for j := 0; j < int(pd.ChildCount()); j++ {
			c := pd.Child(j)
			switch c.Type() {
			case "type_identifier":
				return c.Content(src)
			case "pointer_type":
				if t := findChild(c, "type_identifier"); t != nil {
					return t.Content(src)
				}
			}
		}
	}
	return ""
}

func (w *walker) typeDecl(node *sitter.Node, doc string) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		spec := node.NamedChild(i)
		if spec.Type() != "type_spec" {
			continue
		}
		name := w.text(findChild(spec, "type_identifier"))
		var body *sitter.Node
		kind := symstore.KindTypeAlias
		for j := 0; j < int(spec.ChildCount()); j++ {
			c := spec.Child(j)
			switch c.Type() {
			case "struct_type":
				kind, body = symstore.KindStruct, c
			case "interface_type":
				kind, body = symstore.KindInterface, c
			}
		}
		sym := symstore.Symbol{
			Range: rangeOf(spec), Name: name, Kind: kind, DocComment: doc,
			ScopeContext: symstore.ScopeContext{Kind: symstore.ScopeModule},
		}
		w.emit(sym)

		restore := w.scopes.PushClass(name, kind)
		if body != nil {
			switch kind {
			case symstore.KindStruct:
				w.structFields(body, name)
			case symstore.KindInterface:
				w.interfaceMethods(body, name)
			}
		}
		restore()
	}
}

func (w *walker) structFields(structType *sitter.Node, ownerName string) {
	fl := findChild(structType, "field_declaration_list")
	if fl == nil {
		return
	}
	for i := 0; i < int(fl.NamedChildCount()); i++ {
		fd := fl.NamedChild(i)
		if fd.Type() != "field_declaration" {
			continue
		}
		for j := 0; j < int(fd.NamedChildCount()); j++ {
			fid := fd.NamedChild(j)
			if fid.Type() == "field_identifier" {
				w.emit(symstore.Symbol{
					Range: rangeOf(fid), Name: w.text(fid), Kind: symstore.KindField,
					ScopeContext: symstore.ScopeContext{Kind: symstore.ScopeClassMember, ParentName: ownerName, ParentKind: symstore.KindStruct},
				})
			}
		}
	}
}

func (w *walker) interfaceMethods(ifaceType *sitter.Node, ownerName string) {
	for i := 0; i < int(ifaceType.NamedChildCount()); i++ {
		m := ifaceType.NamedChild(i)
		if m.Type() != "method_spec" {
			continue
		}
		name := w.text(findChild(m, "field_identifier"))
		w.emit(symstore.Symbol{
			Range: rangeOf(m), Name: name, Kind: symstore.KindMethod,
			Signature:    w.text(findChild(m, "parameter_list")),
			ScopeContext: symstore.ScopeContext{Kind: symstore.ScopeClassMember, ParentName: ownerName, ParentKind: symstore.KindInterface},
		})
	}
}

func (w *walker) varOrConstDecl(node *sitter.Node, kind symstore.Kind) {
	specType := "var_spec"
	if kind == symstore.KindConstant {
		specType = "const_spec"
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		spec := node.NamedChild(i)
		if spec.Type() != specType {
			continue
		}
		for j := 0; j < int(spec.NamedChildCount()); j++ {
			c := spec.NamedChild(j)
			if c.Type() == "identifier" {
				sc := symstore.ScopeContext{Kind: symstore.ScopeModule}
				if w.scopes.InFunction() {
					sc = w.scopes.LocalScopeContext(false)
				}
				w.emit(symstore.Symbol{Range: rangeOf(c), Name: w.text(c), Kind: kind, ScopeContext: sc})
			}
		}
	}
}

// walkFunctionBody descends into a function/method body emitting local
// var/const/short-decls and recursing into nested control-flow blocks,
// whose init short-decls are Local per the Go edge-case row.
func (w *walker) walkFunctionBody(body *sitter.Node, fnNode *sitter.Node) {
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			switch c.Type() {
			case "var_declaration":
				w.varOrConstDecl(c, symstore.KindVariable)
			case "const_declaration":
				w.varOrConstDecl(c, symstore.KindConstant)
			case "short_var_declaration":
				w.shortVarDecl(c)
			case "function_literal":
				restore := w.scopes.PushFunction("", symstore.KindFunction)
				if b := findChild(c, "block"); b != nil {
					walk(b)
				}
				restore()
			case "if_statement", "for_statement", "expression_switch_statement", "type_switch_statement":
				restoreBlock := w.scopes.PushBlock()
				walk(c)
				restoreBlock()
			default:
				walk(c)
			}
		}
	}
	walk(body)
}

func (w *walker) shortVarDecl(node *sitter.Node) {
	left := findChild(node, "expression_list")
	if left == nil {
		return
	}
	sc := w.scopes.LocalScopeContext(false)
	for i := 0; i < int(left.NamedChildCount()); i++ {
		id := left.NamedChild(i)
		if id.Type() == "identifier" {
			w.emit(symstore.Symbol{Range: rangeOf(id), Name: w.text(id), Kind: symstore.KindVariable, ScopeContext: sc})
		}
	}
}

func findChild(node *sitter.Node, nodeType string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == nodeType {
			return child
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
