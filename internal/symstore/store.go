package symstore

import (
	"sync"

	"github.com/latticecode/lattice/internal/ids"
)

// Store is a concurrent in-memory map of symbols keyed by SymbolId, with
// name and file secondary indexes (spec §4.B). Mutations are serialised by
// a single RWMutex; the store is small enough per indexing run that a
// sharded map buys nothing the teacher's services don't already forgo
// elsewhere for comparable in-memory indexes.
type Store struct {
	mu      sync.RWMutex
	symbols map[ids.SymbolId]Symbol
	byName  map[string][]ids.SymbolId
	byFile  map[ids.FileId][]ids.SymbolId
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		symbols: make(map[ids.SymbolId]Symbol),
		byName:  make(map[string][]ids.SymbolId),
		byFile:  make(map[ids.FileId][]ids.SymbolId),
	}
}

// Insert adds or replaces a symbol and returns its id.
func (s *Store) Insert(sym Symbol) ids.SymbolId {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertLocked(sym)
	return sym.ID
}

func (s *Store) insertLocked(sym Symbol) {
	if old, ok := s.symbols[sym.ID]; ok {
		s.byName[old.Name] = removeID(s.byName[old.Name], sym.ID)
		s.byFile[old.FileID] = removeID(s.byFile[old.FileID], sym.ID)
	}
	s.symbols[sym.ID] = sym
	s.byName[sym.Name] = append(s.byName[sym.Name], sym.ID)
	s.byFile[sym.FileID] = append(s.byFile[sym.FileID], sym.ID)
}

// InsertBatch inserts every symbol in syms under a single lock acquisition.
func (s *Store) InsertBatch(syms []Symbol) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sym := range syms {
		s.insertLocked(sym)
	}
}

// Get returns the symbol for id, if present.
func (s *Store) Get(id ids.SymbolId) (Symbol, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sym, ok := s.symbols[id]
	return sym, ok
}

// FindByName returns every symbol registered under name, in insertion order.
func (s *Store) FindByName(name string) []Symbol {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Symbol, 0, len(s.byName[name]))
	for _, id := range s.byName[name] {
		if sym, ok := s.symbols[id]; ok {
			out = append(out, sym)
		}
	}
	return out
}

// FindByFile returns every symbol belonging to fileID.
func (s *Store) FindByFile(fileID ids.FileId) []Symbol {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Symbol, 0, len(s.byFile[fileID]))
	for _, id := range s.byFile[fileID] {
		if sym, ok := s.symbols[id]; ok {
			out = append(out, sym)
		}
	}
	return out
}

// FindByKind returns every symbol of the given kind across all files.
func (s *Store) FindByKind(kind Kind) []Symbol {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Symbol
	for _, sym := range s.symbols {
		if sym.Kind == kind {
			out = append(out, sym)
		}
	}
	return out
}

// FindAtPosition returns the first symbol in fileID whose range contains
// (line, col), if any.
func (s *Store) FindAtPosition(fileID ids.FileId, line uint32, col uint16) (Symbol, bool) {
	for _, sym := range s.FindByFile(fileID) {
		if sym.Range.Contains(line, col) {
			return sym, true
		}
	}
	return Symbol{}, false
}

// Remove deletes a symbol and rewrites the secondary indexes. Cost is
// O(symbols in that file) due to the slice rewrite of the file index.
func (s *Store) Remove(id ids.SymbolId) (Symbol, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sym, ok := s.symbols[id]
	if !ok {
		return Symbol{}, false
	}
	delete(s.symbols, id)
	s.byName[sym.Name] = removeID(s.byName[sym.Name], id)
	s.byFile[sym.FileID] = removeID(s.byFile[sym.FileID], id)
	return sym, true
}

// RemoveFile deletes every symbol belonging to fileID, used when a file is
// re-parsed or removed from the index (spec §3 ownership rule).
func (s *Store) RemoveFile(fileID ids.FileId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range append([]ids.SymbolId(nil), s.byFile[fileID]...) {
		if sym, ok := s.symbols[id]; ok {
			delete(s.symbols, id)
			s.byName[sym.Name] = removeID(s.byName[sym.Name], id)
		}
	}
	delete(s.byFile, fileID)
}

// Len returns the number of symbols currently stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.symbols)
}

// Iter calls fn for every stored symbol; iteration order is unspecified.
func (s *Store) Iter(fn func(Symbol)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sym := range s.symbols {
		fn(sym)
	}
}

func removeID(list []ids.SymbolId, id ids.SymbolId) []ids.SymbolId {
	out := list[:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
