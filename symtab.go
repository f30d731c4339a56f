package yas6502

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// foldCase is the canonicalization used by both the symbol table and the
// opcode table for case-insensitive identifier lookup. Built once and
// reused rather than constructing a cases.Caser per call.
var foldCase = cases.Upper(language.Und)

func canonicalize(name string) string {
	return foldCase.String(name)
}

// Symbol is one entry of the symbol table: whether it has been given a
// value yet, and what that value is.
//
// Per spec's open question #1, the Value field of an undefined Symbol is an
// implementation-private placeholder (see SymbolTable.Lookup); callers must
// always test Defined before trusting Value.
type Symbol struct {
	Defined bool
	Value   int
}

// SymbolTable is a case-insensitive mapping from identifier to Symbol.
type SymbolTable struct {
	entries map[string]*Symbol
}

// NewSymbolTable returns an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{entries: make(map[string]*Symbol)}
}

// CanonicalName returns the case-folded form of name used as the table's
// internal key, so callers can report diagnostics using a consistent
// spelling regardless of how the symbol was originally written.
func (t *SymbolTable) CanonicalName(name string) string {
	return canonicalize(name)
}

// Lookup returns the named symbol, or the sentinel (Defined: false,
// Value: 1) if it has never been set. The sentinel value of 1 exists so
// that downstream arithmetic building an Undefined ExprResult never
// divides by a literal zero; it is not meaningful and must not be read by
// callers without checking Defined first.
func (t *SymbolTable) Lookup(name string) Symbol {
	if sym, ok := t.entries[canonicalize(name)]; ok {
		return *sym
	}
	return Symbol{Defined: false, Value: 1}
}

// SetValue upserts the named symbol. If the symbol is already defined with
// a different value, it fails with ErrSymbolRedefinition (I4's guarantee
// for SET symbols and, indirectly, for labels).
func (t *SymbolTable) SetValue(name string, value int) error {
	key := canonicalize(name)
	if sym, ok := t.entries[key]; ok {
		if sym.Defined && sym.Value != value {
			return &AssemblerError{
				Code:    ErrSymbolRedefinition,
				Message: "symbol '" + name + "' redefined with a different value",
			}
		}
		sym.Defined = true
		sym.Value = value
		return nil
	}
	t.entries[key] = &Symbol{Defined: true, Value: value}
	return nil
}

// Clear wipes all entries, for reuse of an assembler instance across runs.
func (t *SymbolTable) Clear() {
	t.entries = make(map[string]*Symbol)
}

// SymbolEntry is one (name, value) pair reported by All, using the symbol's
// canonical (upper-cased) spelling.
type SymbolEntry struct {
	Name  string
	Value int
}

// All returns every defined symbol as (name, value) pairs, in no particular
// order; callers that need name or value order (the listing's two symbol
// dumps) sort the result themselves.
func (t *SymbolTable) All() []SymbolEntry {
	out := make([]SymbolEntry, 0, len(t.entries))
	for name, sym := range t.entries {
		if sym.Defined {
			out = append(out, SymbolEntry{Name: name, Value: sym.Value})
		}
	}
	return out
}
