// instr.go implements Host.ParseInstruction: a small, illustrative PDP-10 instruction encoder.
// It covers enough of the real opcode space (memory-reference instructions taking "AC,address"
// operands, the CAI compare-immediate family, and a handful of fixed-format control
// instructions) to drive the assembler's end-to-end behavior (§8's testable properties name
// HRRZI, CAIE and NOP explicitly); it does not claim to be a complete KA10/KL10 instruction set.
package pdp10

import (
	"strings"

	"github.com/smoynes/macro10/internal/asm"
)

// instrKind distinguishes the two operand shapes this encoder understands.
type instrKind int

const (
	kindMemRef  instrKind = iota // "AC,address" or just "address" (AC defaults to 0)
	kindNoOperand
)

type opcodeInfo struct {
	code Word9 // 9-bit opcode field
	kind instrKind
}

// Word9 is a 9-bit PDP-10 opcode, kept distinct from asm.Word for clarity in the table below.
type Word9 uint64

// opcodes is the illustrative table of recognized mnemonics. Real PDP-10 opcode assignments,
// used here for familiarity but not exhaustively.
var opcodes = map[string]opcodeInfo{
	"NOP":   {code: 0254, kind: kindNoOperand},
	"MOVE":  {code: 0200, kind: kindMemRef},
	"MOVEI": {code: 0201, kind: kindMemRef},
	"MOVEM": {code: 0202, kind: kindMemRef},
	"MOVS":  {code: 0204, kind: kindMemRef},
	"MOVSI": {code: 0205, kind: kindMemRef},
	"HRRZ":  {code: 0550, kind: kindMemRef},
	"HRRZI": {code: 0551, kind: kindMemRef},
	"HRRZM": {code: 0552, kind: kindMemRef},
	"HRLZI": {code: 0515, kind: kindMemRef},
	"HRROI": {code: 0561, kind: kindMemRef},
	"HLLZI": {code: 0511, kind: kindMemRef},
	"CAIL":  {code: 0301, kind: kindMemRef},
	"CAIE":  {code: 0302, kind: kindMemRef},
	"CAILE": {code: 0303, kind: kindMemRef},
	"CAIA":  {code: 0304, kind: kindMemRef},
	"CAIGE": {code: 0305, kind: kindMemRef},
	"CAIN":  {code: 0306, kind: kindMemRef},
	"CAIG":  {code: 0307, kind: kindMemRef},
	"SKIPE": {code: 0332, kind: kindMemRef},
	"SKIPN": {code: 0336, kind: kindMemRef},
	"JRST":  {code: 0254, kind: kindMemRef},
	"PUSHJ": {code: 0260, kind: kindMemRef},
	"POPJ":  {code: 0263, kind: kindMemRef},
	"PUSH":  {code: 0261, kind: kindMemRef},
	"POP":   {code: 0262, kind: kindMemRef},
	"JUMPE": {code: 0322, kind: kindMemRef},
	"JUMPN": {code: 0326, kind: kindMemRef},
	"ADD":   {code: 0270, kind: kindMemRef},
	"SUB":   {code: 0274, kind: kindMemRef},
	"AOS":   {code: 0350, kind: kindMemRef},
	"SOS":   {code: 0370, kind: kindMemRef},
}

// ParseInstruction implements asm.Host. It looks op up in the table above, defaulting AC to 0
// when only one operand is given, and parses the remaining operand as "[@]expr[(index)]".
func (h *Host) ParseInstruction(op string, operands []string, loc asm.Word, pass1 bool) (asm.Word, error) {
	info, ok := opcodes[normalizeOp(op)]
	if !ok {
		return 0, errUnknownOpcode(op)
	}

	base := asm.Word(uint64(info.code) << 27)

	if info.kind == kindNoOperand {
		return base, nil
	}

	var acText, addrText string

	switch len(operands) {
	case 1:
		acText, addrText = "0", operands[0]
	case 2:
		acText, addrText = operands[0], operands[1]
	default:
		return 0, errBadOperands(op)
	}

	ac, ok := h.evalExpr(strings.TrimSpace(acText), pass1)
	if !ok {
		return 0, errUnresolved(acText)
	}

	indirect, index, addr, ok := h.parseAddress(addrText, pass1)
	if !ok {
		return 0, errUnresolved(addrText)
	}

	w := base
	w |= asm.Word(uint64(asm.Truncate(ac, 4, true))) << 23

	if indirect {
		w |= 1 << 22
	}

	w |= asm.Word(uint64(asm.Truncate(index, 4, true))) << 18
	w |= asm.Word(uint64(asm.Truncate(addr, 18, true)))

	return w, nil
}

// parseAddress parses the PDP-10 memory-reference operand syntax "[@]expr[(index)]".
func (h *Host) parseAddress(text string, pass1 bool) (indirect bool, index, addr int64, ok bool) {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "@") {
		indirect = true
		text = text[1:]
	}

	exprText := text

	if open := strings.IndexByte(text, '('); open >= 0 && strings.HasSuffix(text, ")") {
		exprText = text[:open]
		idxText := text[open+1 : len(text)-1]

		idx, idxOK := h.evalExpr(strings.TrimSpace(idxText), pass1)
		if !idxOK {
			return false, 0, 0, false
		}

		index = idx
	}

	addr, ok = h.evalExpr(strings.TrimSpace(exprText), pass1)

	return indirect, index, addr, ok
}

type instrError struct {
	msg string
}

func (e *instrError) Error() string { return e.msg }

func errUnknownOpcode(op string) error { return &instrError{msg: "unknown opcode: " + op} }
func errBadOperands(op string) error   { return &instrError{msg: "bad operand count for " + op} }
func errUnresolved(text string) error  { return &instrError{msg: "unresolved operand: " + text} }
