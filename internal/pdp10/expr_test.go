package pdp10

import "testing"

func TestEvalExprArithmetic(t *testing.T) {
	h := New()

	cases := []struct {
		text string
		want int64
	}{
		{"10", 0o10},       // default radix is octal
		{"10.", 10},        // trailing '.' forces decimal
		{"1+2*3", 7},       // '*' binds tighter than '+'
		{"(1+2)*3", 9},
		{"-5+10", 3},       // -5 + 0o10
		{"10/2", 4},        // 0o10 / 2
	}

	for _, c := range cases {
		got, ok := h.evalExpr(c.text, true)
		if !ok {
			t.Fatalf("evalExpr(%q) failed", c.text)
		}

		if got != c.want {
			t.Errorf("evalExpr(%q) = %d, want %d", c.text, got, c.want)
		}
	}
}

func TestEvalExprDivideByZeroFails(t *testing.T) {
	h := New()

	if _, ok := h.evalExpr("1/0", true); ok {
		t.Error("expected division by zero to fail")
	}
}

func TestEvalExprUndefinedSymbolFailsPass1(t *testing.T) {
	h := New()

	if _, ok := h.evalExpr("UNDEF", true); ok {
		t.Error("expected undefined symbol to fail")
	}
}

func TestEvalExprSymbolLookup(t *testing.T) {
	h := New()
	h.SetVariable("FOO", 42)

	got, ok := h.evalExpr("FOO+1", true)
	if !ok || got != 43 {
		t.Errorf("evalExpr(FOO+1) = %d,%v, want 43,true", got, ok)
	}
}

func TestEvalExprTrailingGarbageFails(t *testing.T) {
	h := New()

	if _, ok := h.evalExpr("1+2 extra", true); ok {
		t.Error("expected trailing garbage to fail")
	}
}

func TestEvalExprSixbitQuoted(t *testing.T) {
	h := New()

	got, ok := h.evalExpr("'A'", true)
	if !ok {
		t.Fatal("evalExpr('A') failed")
	}

	want := int64(packSixbitWords("A")[0])
	if got != want {
		t.Errorf("evalExpr('A') = %o, want %o", got, want)
	}
}

func TestEvalExprAsciiQuoted(t *testing.T) {
	h := New()

	got, ok := h.evalExpr(`"A"`, true)
	if !ok {
		t.Fatal(`evalExpr("A") failed`)
	}

	want := int64(packAsciiWords("A", false)[0])
	if got != want {
		t.Errorf(`evalExpr("A") = %o, want %o`, got, want)
	}
}

func TestResetRestoreVariablesRoundTrip(t *testing.T) {
	h := New()
	h.SetVariable("FOO", 1)

	h.ResetVariables()
	h.SetVariable("FOO", 2)
	h.SetVariable("BAR", 3)

	h.RestoreVariables()

	if v, ok := h.lookup("FOO"); !ok || v != 1 {
		t.Errorf("FOO = %d,%v, want 1,true after restore", v, ok)
	}

	if _, ok := h.lookup("BAR"); ok {
		t.Error("BAR should not exist after restore (it was defined after the snapshot)")
	}
}
