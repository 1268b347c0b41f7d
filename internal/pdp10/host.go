// Package pdp10 is a reference implementation of the assembler's host collaborator (asm.Host):
// a signed-integer expression evaluator and a small PDP-10 instruction encoder, sufficient to
// drive end-to-end assembly of the diagnostic-style source the core targets. The split mirrors
// the LC-3 assembler's separation of its parser/VM packages (internal/parser, internal/vm) from
// the assembler core: encoding and evaluation are host concerns, kept out of internal/asm.
package pdp10

import (
	"strconv"
	"strings"

	"github.com/smoynes/macro10/internal/asm"
)

const undefinedMarker = "????"

// Host implements asm.Host against a simple name -> word variable table, an accumulator/index
// aware instruction encoder (see instr.go), and Go's strconv for base conversion.
type Host struct {
	vars     map[string]asm.Word
	snapshot map[string]asm.Word
}

// New returns a ready-to-use Host with an empty variable table.
func New() *Host {
	return &Host{vars: make(map[string]asm.Word)}
}

func (h *Host) lookup(name string) (asm.Word, bool) {
	v, ok := h.vars[name]
	return v, ok
}

// ParseExpression implements asm.Host.
func (h *Host) ParseExpression(text string, pass1 bool) (int64, bool) {
	return h.evalExpr(text, pass1)
}

// ToStrBase implements asm.Host, rendering n in the given base (octal when base is not one
// strconv recognizes).
func (h *Host) ToStrBase(n int64, base int) string {
	if base < 2 || base > 36 {
		base = 8
	}

	return strconv.FormatInt(n, base)
}

// Truncate implements asm.Host by delegating to the free function of the same semantics, so the
// core and this host never disagree about bit-width truncation.
func (h *Host) Truncate(n int64, bits uint, unsigned bool) int64 {
	return asm.Truncate(n, bits, unsigned)
}

// SetVariable implements asm.Host.
func (h *Host) SetVariable(name string, value asm.Word) {
	h.vars[name] = value
}

// ResetVariables implements asm.Host: it snapshots the current table so RestoreVariables can undo
// everything a run defines, keeping repeated assembly of the same source idempotent (§8.10).
func (h *Host) ResetVariables() {
	h.snapshot = make(map[string]asm.Word, len(h.vars))
	for k, v := range h.vars {
		h.snapshot[k] = v
	}
}

// RestoreVariables implements asm.Host.
func (h *Host) RestoreVariables() {
	h.vars = h.snapshot
	h.snapshot = nil
}

// Undefined implements asm.Host.
func (h *Host) Undefined() string {
	return undefinedMarker
}

// Println implements asm.Host by writing to the package-level console sink (see console.go).
func (h *Host) Println(s string) {
	defaultSink.Println(s)
}

// normalizeOp upper-cases and trims an opcode mnemonic for table lookup.
func normalizeOp(op string) string {
	return strings.ToUpper(strings.TrimSpace(op))
}
