// symbol.go implements the assembler's symbol table, generalizing the LC-3 assembler's flat
// name-to-location map (internal/asm.SymbolTable) to the richer
// {value, type, defined-at-line} record each symbol carries.

package asm

import "strings"

// SymType flags the kind of a symbol.
type SymType uint8

//go:generate go run golang.org/x/tools/cmd/stringer -type SymType -linecomment -output symtype_string.go

const (
	// SymLabel is an ordinary code or data label, introduced by a trailing ':'.
	SymLabel SymType = iota // LABEL
	// SymPrivate is a symbol assigned with '==' (MACRO-10's private-assignment operator).
	SymPrivate // PRIVATE
	// SymInternal is a symbol assigned with '=:' (MACRO-10's internal-assignment operator).
	SymInternal // INTERNAL
	// SymPlain is a symbol assigned with plain '='.
	SymPlain // PLAIN
)

// maxSymbolLen is the number of significant characters in a MACRO-10 symbol name; MACRO-10
// truncates and uppercases any longer identifier.
const maxSymbolLen = 6

// normalizeSymbol upper-cases and truncates a raw identifier to the symbol name space.
func normalizeSymbol(name string) string {
	name = strings.ToUpper(name)
	if len(name) > maxSymbolLen {
		name = name[:maxSymbolLen]
	}

	return name
}

// Symbol is a named value in the assembler's symbol table.
type Symbol struct {
	Name  string
	Value Word
	Type  SymType
	Line  int
}

// SymbolTable maps a normalized symbol name to its record.
type SymbolTable map[string]*Symbol

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() SymbolTable {
	return make(SymbolTable)
}

// Lookup returns the symbol named sym, if any.
func (s SymbolTable) Lookup(sym string) (*Symbol, bool) {
	rec, ok := s[normalizeSymbol(sym)]
	return rec, ok
}

// Define adds or overwrites a symbol. Redefining an existing SymLabel is an error (§3
// invariant); any other symbol type may be freely reassigned, matching MACRO-10's semantics for
// re-executed '=' assignments.
func (s SymbolTable) Define(name string, value Word, typ SymType, line int) error {
	if name == "" {
		panic("asm: empty symbol name")
	}

	norm := normalizeSymbol(name)

	if existing, ok := s[norm]; ok && existing.Type == SymLabel {
		return &RedefinedLabelError{Name: norm, Line: line, PrevLine: existing.Line}
	}

	s[norm] = &Symbol{Name: norm, Value: value, Type: typ, Line: line}

	return nil
}

// Count returns the number of symbols defined.
func (s SymbolTable) Count() int {
	return len(s)
}
