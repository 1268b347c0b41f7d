package expr

import "testing"

func TestRewriteQuotesSixbitAndAscii(t *testing.T) {
	got := RewriteQuotes("SIXBIT/ABC/+ASCII/xyz/")
	want := "'ABC'+\"xyz\""

	if got != want {
		t.Errorf("RewriteQuotes() = %q, want %q", got, want)
	}
}

func TestRewriteQuotesLeavesOtherTextAlone(t *testing.T) {
	got := RewriteQuotes("FOO+1")
	if got != "FOO+1" {
		t.Errorf("RewriteQuotes() = %q, want unchanged", got)
	}
}

func TestRewriteDotReplacesStandaloneDot(t *testing.T) {
	got := RewriteDot(".+1", 100)
	want := "100+1"

	if got != want {
		t.Errorf("RewriteDot() = %q, want %q", got, want)
	}
}

func TestRewriteDotIgnoresDecimalPoint(t *testing.T) {
	got := RewriteDot("123.", 100)
	if got != "123." {
		t.Errorf("RewriteDot() = %q, want unchanged (123. is a decimal number, not current-location)", got)
	}
}

func TestRewriteDotMultipleOccurrences(t *testing.T) {
	got := RewriteDot(".+.+1", 5)
	want := "5+5+1"

	if got != want {
		t.Errorf("RewriteDot() = %q, want %q", got, want)
	}
}

func TestSplitHalfwordTopLevel(t *testing.T) {
	left, right, ok := SplitHalfword("FOO,,BAR")
	if !ok || left != "FOO" || right != "BAR" {
		t.Errorf("SplitHalfword() = %q,%q,%v, want FOO,BAR,true", left, right, ok)
	}
}

func TestSplitHalfwordIgnoresNestedComma(t *testing.T) {
	_, _, ok := SplitHalfword("F(A,,B)")
	if ok {
		t.Error("nested ,, inside parens should not split at the top level")
	}
}

func TestSplitHalfwordNoMatch(t *testing.T) {
	_, _, ok := SplitHalfword("FOO+BAR")
	if ok {
		t.Error("expected ok=false, no double comma present")
	}
}

func TestExtractBracketSimple(t *testing.T) {
	inner, before, after, ok := ExtractBracket("MOVE [5]")
	if !ok {
		t.Fatal("expected a bracketed region")
	}

	if inner != "5" || before != "MOVE " || after != "" {
		t.Errorf("inner=%q before=%q after=%q, want 5/\"MOVE \"/\"\"", inner, before, after)
	}
}

func TestExtractBracketNested(t *testing.T) {
	inner, _, _, ok := ExtractBracket("X [A[B]C] Y")
	if !ok {
		t.Fatal("expected a bracketed region")
	}

	if inner != "A[B]C" {
		t.Errorf("inner = %q, want A[B]C", inner)
	}
}

func TestExtractBracketNone(t *testing.T) {
	_, _, _, ok := ExtractBracket("MOVE 1,2")
	if ok {
		t.Error("expected ok=false, no bracket present")
	}
}

func TestExtractHashFindsFirstToken(t *testing.T) {
	name, match, ok := ExtractHash("MOVE FOO#,BAR#")
	if !ok {
		t.Fatal("expected a hash token")
	}

	if name != "FOO" || match != "FOO#" {
		t.Errorf("name=%q match=%q, want FOO/FOO#", name, match)
	}
}

func TestExtractHashNone(t *testing.T) {
	_, _, ok := ExtractHash("MOVE 1,2")
	if ok {
		t.Error("expected ok=false")
	}
}
