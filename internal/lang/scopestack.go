package lang

import "github.com/latticecode/lattice/internal/symstore"

// ScopeType tags one frame of a parser's traversal stack (spec §4.D
// "Parser context").
type ScopeType string

const (
	ScopeModule    ScopeType = "module"
	ScopeClass     ScopeType = "class"
	ScopeFunction  ScopeType = "function"
	ScopeBlock     ScopeType = "block"
	ScopeNamespace ScopeType = "namespace"
)

type frame struct {
	kind ScopeType
	name string
}

// ScopeStack is the shared traversal-state scaffolding every language
// parser pushes/pops while walking its AST: a stack of ScopeType frames
// plus the two "innermost enclosing function/class" slots the spec
// assigns Local-scope symbols. Save/restore on push/pop matches spec
// §4.D exactly ("Entering a function or class pushes a scope and sets
// the slot; exiting pops and restores the previously-saved slot").
type ScopeStack struct {
	frames          []frame
	currentFunction string
	currentFuncKind symstore.Kind
	currentClass    string
	currentClassKind symstore.Kind
}

func NewScopeStack() *ScopeStack {
	return &ScopeStack{frames: []frame{{kind: ScopeModule}}}
}

// PushFunction enters a function/method scope, saving the prior
// current-function slot for restoration on Pop.
func (s *ScopeStack) PushFunction(name string, kind symstore.Kind) (restore func()) {
	prevName, prevKind := s.currentFunction, s.currentFuncKind
	s.currentFunction, s.currentFuncKind = name, kind
	s.frames = append(s.frames, frame{kind: ScopeFunction, name: name})
	return func() {
		s.frames = s.frames[:len(s.frames)-1]
		s.currentFunction, s.currentFuncKind = prevName, prevKind
	}
}

// PushClass enters a class/struct/trait/interface scope.
func (s *ScopeStack) PushClass(name string, kind symstore.Kind) (restore func()) {
	prevName, prevKind := s.currentClass, s.currentClassKind
	s.currentClass, s.currentClassKind = name, kind
	s.frames = append(s.frames, frame{kind: ScopeClass, name: name})
	return func() {
		s.frames = s.frames[:len(s.frames)-1]
		s.currentClass, s.currentClassKind = prevName, prevKind
	}
}

// PushBlock enters a plain block scope (if/for/switch bodies) without
// touching either slot.
func (s *ScopeStack) PushBlock() (restore func()) {
	s.frames = append(s.frames, frame{kind: ScopeBlock})
	return func() { s.frames = s.frames[:len(s.frames)-1] }
}

// PushNamespace enters a namespace scope (PHP), without touching
// current_function/current_class.
func (s *ScopeStack) PushNamespace(name string) (restore func()) {
	s.frames = append(s.frames, frame{kind: ScopeNamespace, name: name})
	return func() { s.frames = s.frames[:len(s.frames)-1] }
}

// Top returns the innermost frame's kind.
func (s *ScopeStack) Top() ScopeType {
	return s.frames[len(s.frames)-1].kind
}

// InFunction reports whether a function scope is currently open.
func (s *ScopeStack) InFunction() bool { return s.currentFunction != "" }

// LocalScopeContext builds the ScopeContext a symbol declared at the
// current traversal point receives, per spec §4.D: the innermost of
// current_function/current_class (function wins when both are open,
// since a method body is the innermost container of its own locals).
func (s *ScopeStack) LocalScopeContext(hoisted bool) symstore.ScopeContext {
	if s.currentFunction != "" {
		return symstore.ScopeContext{
			Kind:       symstore.ScopeLocal,
			Hoisted:    hoisted,
			ParentName: s.currentFunction,
			ParentKind: s.currentFuncKind,
		}
	}
	if s.currentClass != "" {
		return symstore.ScopeContext{
			Kind:       symstore.ScopeLocal,
			Hoisted:    hoisted,
			ParentName: s.currentClass,
			ParentKind: s.currentClassKind,
		}
	}
	return symstore.ScopeContext{Kind: symstore.ScopeLocal, Hoisted: hoisted}
}
