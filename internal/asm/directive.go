// directive.go implements the per-line dispatch: label and assignment handling, the
// fixed pseudo-op table, and the fall-through to machine instructions. It is the generalization
// of the LC-3 assembler's Parser.parseLine/Generator.emit pairing into a single recursive-descent
// walk, since macro bodies captured entirely in memory no longer need a separate
// fetch-then-parse staging.
package asm

import (
	"strings"
)

// processLines walks lines (either the joined top-level source, or a macro body already split on
// "\n"), applying subst's parameter substitution to each line before tokenizing it. startLine is
// the source line number to report for lines[0]. It returns ErrEndOfProgram when an END statement
// is reached, which callers at every nesting level must propagate rather than swallow.
func (a *Assembler) processLines(lines []string, startLine int, subst *substContext) error {
	i := 0
	lineNo := startLine

	for i < len(lines) {
		raw := lines[i]
		i++
		a.line = lineNo
		lineNo++

		text := raw
		if subst != nil {
			text, _ = substituteParams(text, subst.Params, subst.Values)
		}

		ln, ok := parseLine(text)
		if !ok {
			return &SyntaxError{Line: a.line, Text: text}
		}

		if ln.HasColon {
			loc := a.currentLoc()

			if err := a.symbols.Define(ln.Label, loc, SymLabel, a.line); err != nil {
				return err
			}

			a.host.SetVariable(normalizeSymbol(ln.Label), loc)
		}

		if ln.Op == "" {
			continue
		}

		opU := strings.ToUpper(ln.Op)

		handled, err := a.tryAssignment(ln)
		if err != nil {
			return err
		}

		if handled {
			continue
		}

		switch opU {
		case "ASCII", "ASCIZ", "SIXBIT":
			if err := a.handleAsciiFamily(opU, ln.Operand, lines, &i, &lineNo); err != nil {
				return err
			}
		case "END":
			return a.handleEnd(ln.Operand)
		case "EXP":
			if err := a.handleExp(ln.Operand); err != nil {
				return err
			}
		case "LOC":
			if err := a.handleLoc(ln.Operand); err != nil {
				return err
			}
		case "XWD":
			if err := a.handleXwd(ln.Operand); err != nil {
				return err
			}
		case "DEFINE":
			if err := a.handleDefine(ln.Operand, lines, &i, &lineNo); err != nil {
				return err
			}
		case "OPDEF":
			if err := a.handleOpdef(ln.Operand, lines, &i, &lineNo); err != nil {
				return err
			}
		case "REPEAT":
			if err := a.handleRepeat(ln.Operand, lines, &i, &lineNo, subst); err != nil {
				return err
			}
		case "IFE", "IFG", "IFL", "IFN":
			if err := a.handleIf(opU, ln.Operand, lines, &i, &lineNo, subst); err != nil {
				return err
			}
		case "IRP":
			if err := a.handleIrp(ln.Operand, lines, &i, &lineNo, subst); err != nil {
				return err
			}
		case "IRPC":
			if err := a.handleIrpc(ln.Operand, lines, &i, &lineNo, subst); err != nil {
				return err
			}
		case "LALL", "LIST", "NOSYM", "PAGE", "SUBTTL", "TITLE", "XLIST":
			// Listing-control pseudo-ops are accepted and fully ignored (§4.5, SPEC_FULL
			// supplement): no listing facility exists, so there is nothing to do with their
			// operands.
			continue
		default:
			if m, ok := a.macros[opU]; ok && (m.Kind == KindDefine || m.Kind == KindOpdef) {
				if err := a.invokeNamedMacro(m, ln.Operand); err != nil {
					return err
				}

				continue
			}

			if err := a.emitInstructionLine(opU, ln.Operand); err != nil {
				return err
			}
		}
	}

	return nil
}

// tryAssignment recognizes the no-separator "SYM=expr" / "SYM==expr" / "SYM=:expr" assignment
// forms, where ln.Op is promoted from an apparent operator to a symbol name. It is liberal about
// interior whitespace ("SYM = expr" also qualifies) and treats a bare leading ':' the same as a
// bare leading '=' (both produce a plain value symbol); see DESIGN.md.
func (a *Assembler) tryAssignment(ln line) (handled bool, err error) {
	rest := strings.TrimLeft(ln.Operand, " \t")

	var typ SymType

	switch {
	case strings.HasPrefix(rest, "=="):
		typ = SymPrivate
		rest = rest[2:]
	case strings.HasPrefix(rest, "=:"):
		typ = SymInternal
		rest = rest[2:]
	case strings.HasPrefix(rest, "="):
		typ = SymPlain
		rest = rest[1:]
	case strings.HasPrefix(rest, ":"):
		typ = SymPlain
		rest = rest[1:]
	default:
		return false, nil
	}

	val, err := a.evalExprAt(rest, a.currentLoc(), true)
	if err != nil {
		return false, err
	}

	name := normalizeSymbol(ln.Op)
	w := Word(a.host.Truncate(val, 36, true))

	if err := a.symbols.Define(name, w, typ, a.line); err != nil {
		return false, err
	}

	a.host.SetVariable(name, w)

	return true, nil
}

// handleEnd implements END (§4.5): it resolves the optional start-address expression and returns
// the sentinel that unwinds every nesting level back to AssembleText.
func (a *Assembler) handleEnd(operand string) error {
	operand = strings.TrimSpace(operand)

	if operand != "" {
		val, err := a.evalExprAt(operand, a.currentLoc(), true)
		if err != nil {
			return err
		}

		a.start = Word(a.host.Truncate(val, 36, true))
		a.haveGoal = true
	}

	a.haveEnd = true

	return ErrEndOfProgram
}

// handleLoc implements LOC expr (§4.5): it sets the live location counter without emitting a
// word. LOC is not honored inside a pushed scope (literal/OPDEF bodies have their own private
// counter starting at 0; §3).
func (a *Assembler) handleLoc(operand string) error {
	val, err := a.evalExprAt(operand, a.loc, true)
	if err != nil {
		return err
	}

	if !a.scopes.empty() {
		return nil
	}

	a.loc = Word(val)

	return nil
}

// handleExp implements EXP (§4.5): a comma-separated list of expressions, each emitted as one
// word, with an "L,,R" pair within a single list element combined by halfword() rather than
// split across two words.
func (a *Assembler) handleExp(operand string) error {
	for _, tok := range splitExprList(operand) {
		w, fixup, err := a.deferredWord(tok)
		if err != nil {
			return err
		}

		a.emit(w, fixup)
	}

	return nil
}

// handleXwd implements XWD a,b (§4.5): equivalent to EXP a,,b, a single halfword word.
func (a *Assembler) handleXwd(operand string) error {
	parts := splitExprList(operand)
	if len(parts) != 2 {
		return &ExpressionError{Text: operand, Line: a.line}
	}

	w, fixup, err := a.deferredWord(parts[0] + ",," + parts[1])
	if err != nil {
		return err
	}

	a.emit(w, fixup)

	return nil
}

// handleAsciiFamily implements ASCII/ASCIZ/SIXBIT (§4.9): the delimiter is the first non-blank
// character of operand, and the packed text runs to the next occurrence of that delimiter,
// possibly consuming further physical lines (§4.9's "may span lines").
func (a *Assembler) handleAsciiFamily(op, operand string, lines []string, i, lineNo *int) error {
	content, err := a.captureDelimited(operand, lines, i, lineNo)
	if err != nil {
		return err
	}

	var words []Word

	switch op {
	case "ASCII":
		words = packAscii(content, false)
	case "ASCIZ":
		words = packAscii(content, true)
	case "SIXBIT":
		words = packSixbit(content)
	}

	for _, w := range words {
		a.emit(w, "")
	}

	return nil
}

// captureDelimited implements the shared delimiter-scan used by ASCII/ASCIZ/SIXBIT: the first
// non-blank character of operand is the delimiter, and capture runs (raw, unsubstituted,
// un-tokenized) until that byte recurs, spanning further lines if necessary.
func (a *Assembler) captureDelimited(operand string, lines []string, i, lineNo *int) (string, error) {
	trimmed := strings.TrimLeft(operand, " \t")
	if trimmed == "" {
		return "", &SyntaxError{Line: a.line, Text: operand, Err: errMissingDelimiter}
	}

	delim := trimmed[0]
	rest := trimmed[1:]

	if idx := strings.IndexByte(rest, delim); idx >= 0 {
		return rest[:idx], nil
	}

	var b strings.Builder
	b.WriteString(rest)

	for *i < len(lines) {
		next := lines[*i]
		*i++
		a.line = *lineNo
		*lineNo++

		if idx := strings.IndexByte(next, delim); idx >= 0 {
			b.WriteByte('\n')
			b.WriteString(next[:idx])

			return b.String(), nil
		}

		b.WriteByte('\n')
		b.WriteString(next)
	}

	return "", &SyntaxError{Line: a.line, Text: operand, Err: errUnterminatedString}
}

// emitInstructionLine implements the default case of §4.5's dispatch table: an unrecognized
// operator is a machine instruction, after operand scanning extracts any bracketed literal or
// hash-suffixed reserved symbol (§4.4).
func (a *Assembler) emitInstructionLine(op, operand string) error {
	operand, err := a.scanOperand(operand)
	if err != nil {
		return err
	}

	operands := splitExprList(operand)

	loc := a.currentLoc()

	w, err := a.host.ParseInstruction(op, operands, loc, true)
	if err != nil {
		a.emitInstr(0, op, operands, true)
		return nil
	}

	a.emitInstr(w, op, operands, false)

	return nil
}

// splitExprList splits a comma-separated expression list at the top level, treating a ",,"
// (MACRO-10's halfword operator) as part of the current element rather than as two empty
// elements separated by a list comma.
func splitExprList(text string) []string {
	var out []string

	depth := 0
	start := 0

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth != 0 {
				continue
			}

			if i+1 < len(text) && text[i+1] == ',' {
				i++
				continue
			}

			out = append(out, text[start:i])
			start = i + 1
		}
	}

	out = append(out, text[start:])

	return out
}
