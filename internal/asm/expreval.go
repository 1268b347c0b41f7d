// expreval.go applies the text rewrites of §4.8 (SIXBIT/ASCII quoting, current-location '.',
// "L,,R" halfword split) before delegating to the Host, and implements the additive-fixup
// convention used by EXP, XWD, and bracketed-literal bodies.
package asm

import (
	"strings"

	"github.com/smoynes/macro10/internal/asm/expr"
)

// evalExprAt rewrites text per §4.8 and resolves it through the Host, recursing on a top-level
// "L,,R" split and combining the two halves with halfword(). loc supplies the current-location
// value for '.' substitution.
func (a *Assembler) evalExprAt(text string, loc Word, pass1 bool) (int64, error) {
	text = expr.RewriteQuotes(text)
	text = expr.RewriteDot(text, int64(loc))

	if l, r, ok := expr.SplitHalfword(text); ok {
		lv, err := a.evalExprAt(l, loc, pass1)
		if err != nil {
			return 0, err
		}

		rv, err := a.evalExprAt(r, loc, pass1)
		if err != nil {
			return 0, err
		}

		return int64(halfword(lv, rv)), nil
	}

	v, ok := a.host.ParseExpression(text, pass1)
	if !ok {
		return 0, &ExpressionError{Text: text, Line: a.line}
	}

	return v, nil
}

// deferredWord implements EXP/XWD/literal-body-expression's deferral convention (§4.5): the
// expression text is never evaluated during the main pass, only stored as an additive fixup
// against a zero placeholder word, to be resolved once every symbol is known (§4.10 step 5).
func (a *Assembler) deferredWord(tok string) (Word, string, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return 0, "", &ExpressionError{Text: tok, Line: a.line}
	}

	return 0, tok, nil
}
