package asm

import (
	"reflect"
	"testing"
)

func TestPackAsciiFivePerWord(t *testing.T) {
	words := packAscii("ABCDE", false)
	if len(words) != 1 {
		t.Fatalf("len(words) = %d, want 1", len(words))
	}

	var want Word
	for _, c := range []byte("ABCDE") {
		want = want<<7 | Word(c&0x7f)
	}

	want <<= 1 // bit 35 is the padding bit

	if words[0] != want {
		t.Errorf("packAscii(ABCDE) = %o, want %o", words[0], want)
	}
}

func TestPackAsciiPadsShortWord(t *testing.T) {
	words := packAscii("AB", false)
	if len(words) != 1 {
		t.Fatalf("len(words) = %d, want 1", len(words))
	}

	want := Word('A')<<(7*4+1) | Word('B')<<(7*3+1)
	if words[0] != want {
		t.Errorf("packAscii(AB) = %o, want %o", words[0], want)
	}
}

func TestPackAscizAppendsNUL(t *testing.T) {
	plain := packAscii("ABCDE", false)
	z5 := packAscii("ABCDE", true)

	if reflect.DeepEqual(plain, z5) {
		t.Error("ASCIZ packing of a full five-character word should differ from ASCII packing (the NUL spills into a second word)")
	}

	// "AB\0" still fits in one word; the NUL occupies the third 7-bit slot, which is zero either
	// way.
	z := packAscii("AB", true)
	want := Word('A')<<(7*4+1) | Word('B')<<(7*3+1)
	if z[0] != want {
		t.Errorf("packAscii(AB, asciz) = %o, want %o", z[0], want)
	}
}

func TestPackAsciiEmptyStringYieldsOneZeroWord(t *testing.T) {
	words := packAscii("", false)
	if len(words) != 1 || words[0] != 0 {
		t.Errorf("packAscii(\"\") = %v, want [0]", words)
	}
}

func TestPackSixbitUppercasesAndBiases(t *testing.T) {
	words := packSixbit("a")
	if len(words) != 1 {
		t.Fatalf("len(words) = %d, want 1", len(words))
	}

	// 'a' folds to 'A' (0o101), biased by 0o40 and masked to 6 bits: (0o101+0o40)&0o77 = 0o41.
	wantChar := Word(('A' + 0o40) & 0o77)
	want := wantChar << (6 * 5)

	if words[0] != want {
		t.Errorf("packSixbit(a) = %o, want %o", words[0], want)
	}
}

func TestPackSixbitSixPerWord(t *testing.T) {
	words := packSixbit("ABCDEFG")
	if len(words) != 2 {
		t.Fatalf("len(words) = %d, want 2 (6+1 chars)", len(words))
	}
}

func TestPackSixbitEmptyStringYieldsOneZeroWord(t *testing.T) {
	words := packSixbit("")
	if len(words) != 1 || words[0] != 0 {
		t.Errorf("packSixbit(\"\") = %v, want [0]", words)
	}
}
