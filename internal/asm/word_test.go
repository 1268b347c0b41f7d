package asm

import "testing"

func TestWordString(t *testing.T) {
	got := Word(0o123456701234).String()
	want := "123456701234"

	if got != want {
		t.Errorf("Word.String() = %q, want %q", got, want)
	}
}

func TestTruncateSigned(t *testing.T) {
	cases := []struct {
		n    int64
		bits uint
		want int64
	}{
		{0, 36, 0},
		{1, 36, 1},
		{-1, 36, -1},
		{0o777777777777, 36, -1}, // all ones, 36 bits signed == -1
		{1 << 35, 36, -(1 << 35)},
		{(1 << 35) - 1, 36, (1 << 35) - 1},
		{1 << 36, 36, 0}, // wraps
	}

	for _, c := range cases {
		got := Truncate(c.n, c.bits, false)
		if got != c.want {
			t.Errorf("Truncate(%d, %d, false) = %d, want %d", c.n, c.bits, got, c.want)
		}
	}
}

func TestTruncateUnsigned(t *testing.T) {
	got := Truncate(-1, 4, true)
	want := int64(0o17)

	if got != want {
		t.Errorf("Truncate(-1, 4, true) = %d, want %d", got, want)
	}
}

func TestTruncateZeroBits(t *testing.T) {
	if got := Truncate(12345, 0, false); got != 0 {
		t.Errorf("Truncate(n, 0, _) = %d, want 0", got)
	}
}

func TestAddWordWraps(t *testing.T) {
	got := addWord(Word(WordLimit-1), 1)
	if got != 0 {
		t.Errorf("addWord at top of range = %o, want 0", got)
	}
}

func TestHalfword(t *testing.T) {
	got := halfword(0o777777, 0o000001)
	want := Word(0o777777<<18 | 1)

	if got != want {
		t.Errorf("halfword() = %o, want %o", got, want)
	}
}

func TestHalfwordTruncatesEachHalf(t *testing.T) {
	got := halfword(-1, -1)
	want := Word(1<<36 - 1)

	if got != want {
		t.Errorf("halfword(-1,-1) = %o, want %o", got, want)
	}
}
