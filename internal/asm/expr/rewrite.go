// Package expr implements the MACRO-10-specific expression and literal text rewrites: the inline
// SIXBIT/ASCII quoting forms, the current-location '.' substitution, the "L,,R" double-comma
// halfword split, bracketed-literal extraction, and hash-suffixed reserved-symbol extraction.
// These are pure string/text operations with no assembler state, grounded in the same
// direct-match-then-dispatch style the LC-3 assembler's ops.go/parser.go use for instruction
// parsing, generalized to MACRO-10's richer operand grammar.
package expr

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	sixbitInline = regexp.MustCompile(`SIXBIT\s*/([^/]*)/`)
	asciiInline  = regexp.MustCompile(`ASCII\s*/([^/]*)/`)

	// dotToken matches a standalone '.' used as the current-location operator: not immediately
	// preceded or followed by a digit (which would make it a decimal point).
	dotToken = regexp.MustCompile(`(^|[^0-9])\.([^0-9]|$)`)
)

// RewriteQuotes replaces inline `SIXBIT/x…/` and `ASCII/x…/` forms with the quoted literal form
// the host expression parser understands ('x…' and "x…" respectively), per §4.8.
func RewriteQuotes(text string) string {
	text = sixbitInline.ReplaceAllString(text, `'$1'`)
	text = asciiInline.ReplaceAllString(text, `"$1"`)

	return text
}

// RewriteDot replaces every standalone '.' current-location token with the decimal rendering of
// loc, per §4.8. loc is the enclosing scope's saved location when inside a scope, else the live
// location counter (the caller decides which applies).
func RewriteDot(text string, loc int64) string {
	for {
		m := dotToken.FindStringSubmatchIndex(text)
		if m == nil {
			return text
		}

		// m[2]:m[3] is the first capture group (leading context), m[4]:m[5] the trailing one.
		pre := text[m[2]:m[3]]
		post := text[m[4]:m[5]]
		replacement := pre + fmt.Sprintf("%d", loc) + post

		text = text[:m[0]] + replacement + text[m[1]:]
	}
}

// SplitHalfword detects the MACRO-10 "L,,R" double-comma form at the top level of text (not
// nested inside parentheses or brackets) and returns the left and right operand text, per §4.8.
// ok is false if no top-level double comma is present.
func SplitHalfword(text string) (left, right string, ok bool) {
	depth := 0

	for i := 0; i < len(text)-1; i++ {
		switch text[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 && text[i+1] == ',' {
				return text[:i], text[i+2:], true
			}
		}
	}

	return "", "", false
}

// ExtractBracket finds the first bracketed region "[...]" in tail (matched with nesting, so
// that literals containing their own bracketed sub-expressions are captured whole), per §4.4.
// It returns the inner text (without the enclosing brackets), the text of tail before the '['
// and after the matching ']', and ok=true if a complete bracketed region was found.
func ExtractBracket(tail string) (inner, before, after string, ok bool) {
	start := strings.IndexByte(tail, '[')
	if start < 0 {
		return "", "", "", false
	}

	depth := 0

	for i := start; i < len(tail); i++ {
		switch tail[i] {
		case '[':
			depth++
		case ']':
			depth--

			if depth == 0 {
				return tail[start+1 : i], tail[:start], tail[i+1:], true
			}
		}
	}

	return "", "", "", false
}

var hashToken = regexp.MustCompile(`([A-Za-z$%.?][0-9A-Za-z$%.]*)#`)

// ExtractHash finds the first `NAME#` reserved-symbol reference in text, per §4.4.
func ExtractHash(text string) (name string, match string, ok bool) {
	loc := hashToken.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", "", false
	}

	return text[loc[2]:loc[3]], text[loc[0]:loc[1]], true
}
