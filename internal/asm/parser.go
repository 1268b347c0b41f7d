// parser.go implements the line tokenizer and the macro-parameter substitution.
// It is grounded in the LC-3 assembler's regexp-driven parser.go (labelPattern/commentPattern/
// directivePattern/instructionPattern), generalized from LC3ASM's identifier class to
// MACRO-10's `[A-Z$%.?][0-9A-Z$%.]*` symbol class and its no-separator assignment forms.

package asm

import (
	"regexp"
	"strings"
)

const identClass = `[A-Za-z$%.?][0-9A-Za-z$%.]*`

var (
	labelPattern = regexp.MustCompile(`^\s*(` + identClass + `)\s*:`)
	opPattern    = regexp.MustCompile(`^\s*(` + identClass + `)`)
)

// line is the result of tokenizing one source line per §4.1's grammar shape:
//
//	^\s*(LABEL:?)? \s* (OP)? (\s*) (OPERANDS) (;COMMENT?)$
//
// The raw operand-plus-comment tail is not available on line itself (Operand already has the
// comment split off), but Operand preserves everything else verbatim -- including, crucially,
// any leading "=" or ":" of a no-separator assignment (§4.3) -- so downstream stages see
// exactly the original text.
type line struct {
	Label    string
	HasColon bool
	Op       string
	Operand  string
	Comment  string
	HasText  bool // true if the line was non-blank, non-comment-only
}

// parseLine tokenizes one source line. ok is false only when the line fails to match the
// grammar and its trimmed text does not begin with ';' (§4.1: "a line that does not match,
// except where the tail begins with ';', is a fatal error").
func parseLine(text string) (ln line, ok bool) {
	rest := text

	if m := labelPattern.FindStringSubmatchIndex(rest); m != nil {
		ln.Label = rest[m[2]:m[3]]
		ln.HasColon = true
		rest = rest[m[1]:]
	}

	if m := opPattern.FindStringSubmatchIndex(rest); m != nil {
		ln.Op = rest[m[2]:m[3]]
		rest = rest[m[1]:]
	}

	if i := strings.IndexByte(rest, ';'); i >= 0 {
		ln.Operand = rest[:i]
		ln.Comment = rest[i+1:]
	} else {
		ln.Operand = rest
	}

	trimmed := strings.TrimSpace(text)

	switch {
	case ln.Label != "" || ln.Op != "":
		ln.HasText = true
		return ln, true
	case trimmed == "":
		return ln, true
	case strings.HasPrefix(trimmed, ";"):
		ln.Comment = strings.TrimPrefix(trimmed, ";")
		return ln, true
	default:
		return ln, false
	}
}

// isSymbolChar reports whether b may appear inside a MACRO-10 symbol name.
func isSymbolChar(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9':
		return true
	case b == '$' || b == '%' || b == '.' || b == '?':
		return true
	default:
		return false
	}
}

// substituteOnce replaces every flanked occurrence of param in text with value, consuming an
// adjacent "'" concatenation operator on either side, per §4.2. It returns the updated text and
// whether any replacement was made.
func substituteOnce(text, param, value string) (string, bool) {
	if param == "" {
		return text, false
	}

	up := strings.ToUpper(text)
	upParam := strings.ToUpper(param)

	var b strings.Builder

	did := false
	i := 0

	for i < len(text) {
		idx := strings.Index(up[i:], upParam)
		if idx < 0 {
			b.WriteString(text[i:])
			break
		}

		start := i + idx
		end := start + len(param)

		beforeOK := start == 0 || !isSymbolChar(text[start-1])
		afterOK := end == len(text) || !isSymbolChar(text[end])

		if !beforeOK || !afterOK {
			b.WriteString(text[i : start+1])
			i = start + 1

			continue
		}

		pre := text[i:start]

		apBefore := strings.HasSuffix(pre, "'")
		if apBefore {
			pre = pre[:len(pre)-1]
		}

		b.WriteString(pre)
		b.WriteString(value)

		next := end
		if next < len(text) && text[next] == '\'' {
			next++
		}

		i = next
		did = true
	}

	return b.String(), did
}

// maxSubstitutionPasses bounds the "iterate until stable" substitution loop of §4.2 so a
// pathological macro body (e.g. a parameter whose value contains its own name) cannot loop
// forever.
const maxSubstitutionPasses = 64

// substituteParams applies §4.2's parameter substitution to a macro body line, reparsing the
// result after each pass that produced a change, until a pass produces no further change.
func substituteParams(text string, params, values []string) (string, bool) {
	changedAny := false

	for pass := 0; pass < maxSubstitutionPasses; pass++ {
		changed := false

		for i, p := range params {
			if p == "" {
				continue
			}

			val := ""
			if i < len(values) {
				val = values[i]
			}

			next, did := substituteOnce(text, p, val)
			if did {
				text = next
				changed = true
			}
		}

		if !changed {
			break
		}

		changedAny = true
	}

	return text, changedAny
}
