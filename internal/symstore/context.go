package symstore

import "fmt"

// Relationships bundles every relationship a symbol participates in, as
// resolved edges rather than raw references. Each slice is nil when that
// relationship kind was not requested by the caller.
type Relationships struct {
	Implements    []Symbol
	ImplementedBy []Symbol
	Defines       []Symbol
	Calls         []CallEdge
	CalledBy      []CallEdge
}

// CallEdge pairs a symbol with the optional receiver/metadata string
// recorded on the edge that produced it.
type CallEdge struct {
	Symbol   Symbol
	Metadata string // "" if absent
}

// Context is a read-only, derived view aggregating a symbol with its file
// path and resolved relationships for display and RPC responses. It is a
// projection built on demand; it is never itself persisted (grounded on
// original_source/src/symbol/context.rs's SymbolContext).
type Context struct {
	Symbol        Symbol
	FilePath      string
	Relationships Relationships
}

// Location renders "<name> at <path>:<line>" the way a result line in the
// CLI or RPC output should read.
func (c Context) Location() string {
	return fmt.Sprintf("%s at %s:%d", c.Symbol.Name, c.FilePath, c.Symbol.Range.StartLine+1)
}

// LocationWithKind renders "<kind> <name> at <path>:<line>".
func (c Context) LocationWithKind() string {
	return fmt.Sprintf("%s %s at %s:%d", c.Symbol.Kind, c.Symbol.Name, c.FilePath, c.Symbol.Range.StartLine+1)
}
