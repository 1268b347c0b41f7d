// literalscan.go implements §4.4's operand scanning: hash-suffixed reserved symbols and the first
// bracketed literal region, each replaced in the operand text by an auto-generated name.
package asm

import (
	"strings"

	"github.com/smoynes/macro10/internal/asm/expr"
)

// scanOperand rewrites operand per §4.4: every NAME# token is replaced by NAME, registering (once
// per program) a RESERVED macro and queuing NAME for materialization; then the first bracketed
// region is captured, assembled immediately into a LITERAL, and replaced by the literal's
// auto-generated name.
func (a *Assembler) scanOperand(operand string) (string, error) {
	for {
		name, match, ok := expr.ExtractHash(operand)
		if !ok {
			break
		}

		operand = strings.Replace(operand, match, name, 1)

		sym := normalizeSymbol(name)
		if !a.reservedSeen[sym] {
			a.reservedSeen[sym] = true
			a.reservedQueue = append(a.reservedQueue, sym)
			a.macros["?"+sym] = &Macro{
				Name: "?" + sym,
				Kind: KindReserved,
				Body: sym + ": 0",
				Line: a.line,
			}
		}
	}

	inner, before, after, ok := expr.ExtractBracket(operand)
	if !ok {
		return operand, nil
	}

	name, words, fixups, err := a.assembleLiteral(inner)
	if err != nil {
		return "", err
	}

	a.literals.Add(&Literal{Name: name, Words: words, Fixups: fixups})

	return before + name + after, nil
}

// assembleLiteral assembles the text inside a bracketed literal region to a word/fixup list, in
// a pushed scope with its own zero-based location counter (§3, §4.4). Literal content is either
// a recognizable statement (most commonly ASCII/ASCIZ/SIXBIT, e.g. "[ASCIZ/TEST1/]") or, failing
// that, a bare expression list treated the way EXP treats one (§8.2 distinguishes literals by
// their exact word/fixup content, never by arithmetic equivalence).
func (a *Assembler) assembleLiteral(inner string) (name string, words []Word, fixups []string, err error) {
	name = a.nextAutoName()

	a.pushScope(name)

	if ln, ok := parseLine(inner); ok && ln.Op != "" {
		if err := a.processLines([]string{inner}, a.line, nil); err != nil {
			a.scopes.pop()
			return "", nil, nil, err
		}
	} else {
		for _, tok := range splitExprList(inner) {
			w, fixup, err := a.deferredWord(tok)
			if err != nil {
				a.scopes.pop()
				return "", nil, nil, err
			}

			a.emit(w, fixup)
		}
	}

	frame, err := a.popScope()
	if err != nil {
		return "", nil, nil, err
	}

	return name, frame.savedWords, frame.savedFixups, nil
}

// invokeReservedBody materializes a RESERVED variable's fixed body ("SYM: 0") at addr: a single
// zero word (§4.4, §4.10 step 4). The label itself is defined by the caller, uniformly with
// every other reserved variable.
func (a *Assembler) invokeReservedBody(m *Macro, addr Word) error {
	a.storeWord(addr, 0)
	a.loc++

	return nil
}
