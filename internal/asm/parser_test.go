package asm

import "testing"

func TestParseLineLabelOpOperandComment(t *testing.T) {
	ln, ok := parseLine("START: MOVE 1,2 ;load")
	if !ok {
		t.Fatal("parseLine returned ok=false")
	}

	if ln.Label != "START" || !ln.HasColon {
		t.Errorf("Label = %q HasColon = %v, want START/true", ln.Label, ln.HasColon)
	}

	if ln.Op != "MOVE" {
		t.Errorf("Op = %q, want MOVE", ln.Op)
	}

	if ln.Operand != " 1,2 " {
		t.Errorf("Operand = %q, want %q", ln.Operand, " 1,2 ")
	}

	if ln.Comment != "load" {
		t.Errorf("Comment = %q, want load", ln.Comment)
	}
}

func TestParseLineBlankLine(t *testing.T) {
	ln, ok := parseLine("   ")
	if !ok {
		t.Fatal("blank line should parse ok")
	}

	if ln.HasText {
		t.Error("blank line should not set HasText")
	}
}

func TestParseLineCommentOnlyLine(t *testing.T) {
	ln, ok := parseLine("  ; a remark")
	if !ok {
		t.Fatal("comment-only line should parse ok")
	}

	if ln.Comment != " a remark" {
		t.Errorf("Comment = %q, want %q", ln.Comment, " a remark")
	}
}

func TestParseLineGarbageIsSyntaxError(t *testing.T) {
	_, ok := parseLine("@#$%^&*() not a valid line at all !!!")
	if ok {
		t.Error("expected ok=false for unparseable line")
	}
}

func TestParseLineOpOnlyNoLabel(t *testing.T) {
	ln, ok := parseLine("  NOP")
	if !ok {
		t.Fatal("parseLine returned ok=false")
	}

	if ln.Label != "" || ln.Op != "NOP" {
		t.Errorf("Label=%q Op=%q, want Label=\"\" Op=NOP", ln.Label, ln.Op)
	}
}

func TestParseLineAssignmentOperandPreservesLeadingOperator(t *testing.T) {
	ln, ok := parseLine("FOO==5")
	if !ok {
		t.Fatal("parseLine returned ok=false")
	}

	if ln.Op != "FOO" || ln.Operand != "==5" {
		t.Errorf("Op=%q Operand=%q, want Op=FOO Operand===5", ln.Op, ln.Operand)
	}
}

func TestSubstituteOnceWholeTokenOnly(t *testing.T) {
	out, did := substituteOnce("MOVE A,AB", "A", "42")
	if !did {
		t.Fatal("expected a substitution")
	}

	if out != "MOVE 42,AB" {
		t.Errorf("out = %q, want %q (AB must not match A)", out, "MOVE 42,AB")
	}
}

func TestSubstituteOnceApostropheConcatenation(t *testing.T) {
	out, did := substituteOnce("X'A'Y", "A", "Z") //nolint
	if !did {
		t.Fatal("expected a substitution")
	}

	if out != "XZY" {
		t.Errorf("out = %q, want XZY", out)
	}
}

func TestSubstituteParamsIteratesUntilStable(t *testing.T) {
	out, changed := substituteParams("A", []string{"A", "B"}, []string{"B", "9"})
	if !changed {
		t.Fatal("expected a change")
	}

	if out != "9" {
		t.Errorf("out = %q, want 9 (A -> B -> 9)", out)
	}
}

func TestSubstituteParamsNoMatchUnchanged(t *testing.T) {
	out, changed := substituteParams("NOP", []string{"A"}, []string{"1"})
	if changed {
		t.Error("expected no change")
	}

	if out != "NOP" {
		t.Errorf("out = %q, want NOP", out)
	}
}
