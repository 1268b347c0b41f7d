package htmlsrc

import "testing"

func TestExtractNoWrapperReturnsUnchanged(t *testing.T) {
	text := "\tMOVE 1,2\n"

	got, warn := Extract(text)
	if got != text {
		t.Errorf("Extract() = %q, want unchanged %q", got, text)
	}

	if warn != nil {
		t.Errorf("warn = %v, want nil", warn)
	}
}

func TestExtractStripsWrapper(t *testing.T) {
	got, _ := Extract("<html><body><pre>MOVE 1,2\nADD 3,4</pre></body></html>")
	want := "MOVE 1,2\nADD 3,4"

	if got != want {
		t.Errorf("Extract() = %q, want %q", got, want)
	}
}

func TestExtractCaseInsensitiveTag(t *testing.T) {
	got, _ := Extract("<PRE>HELLO</PRE>")
	if got != "HELLO" {
		t.Errorf("Extract() = %q, want HELLO", got)
	}
}

func TestExtractUnterminatedPreTakesRest(t *testing.T) {
	got, _ := Extract("<pre>MOVE 1,2")
	if got != "MOVE 1,2" {
		t.Errorf("Extract() = %q, want MOVE 1,2", got)
	}
}

func TestExtractDecodesKnownEntities(t *testing.T) {
	got, warn := Extract("<pre>A &lt; B &amp; C &gt; D</pre>")
	want := "A < B & C > D"

	if got != want {
		t.Errorf("Extract() = %q, want %q", got, want)
	}

	if len(warn) != 0 {
		t.Errorf("warn = %v, want none", warn)
	}
}

func TestExtractWarnsOnUnknownEntity(t *testing.T) {
	got, warn := Extract("<pre>A &nbsp; B</pre>")
	if got != "A &nbsp; B" {
		t.Errorf("Extract() = %q, want unchanged entity text", got)
	}

	if len(warn) != 1 {
		t.Fatalf("warn = %v, want exactly one warning", warn)
	}

	if warn[0].Entity != "&nbsp;" {
		t.Errorf("warn[0].Entity = %q, want &nbsp;", warn[0].Entity)
	}
}

func TestExtractEntityWarningLineNumber(t *testing.T) {
	_, warn := Extract("<pre>line one\nline &bogus; two</pre>")
	if len(warn) != 1 {
		t.Fatalf("warn = %v, want exactly one warning", warn)
	}

	if warn[0].Line != 2 {
		t.Errorf("warn[0].Line = %d, want 2", warn[0].Line)
	}
}

func TestEntityWarningErrorMessage(t *testing.T) {
	w := &EntityWarning{Entity: "&foo;", Line: 3}

	msg := w.Error()
	if msg == "" {
		t.Error("Error() should not be empty")
	}
}
