package asm

import "testing"

func TestScopeStackPushPopLIFO(t *testing.T) {
	var s scopeStack

	if !s.empty() {
		t.Fatal("new stack should be empty")
	}

	s.push(&scopeFrame{Name: "outer"})
	s.push(&scopeFrame{Name: "inner"})

	top, ok := s.top()
	if !ok || top.Name != "inner" {
		t.Fatalf("top() = %+v, want inner", top)
	}

	f, ok := s.pop()
	if !ok || f.Name != "inner" {
		t.Fatalf("pop() = %+v, want inner", f)
	}

	f, ok = s.pop()
	if !ok || f.Name != "outer" {
		t.Fatalf("pop() = %+v, want outer", f)
	}

	if !s.empty() {
		t.Error("stack should be empty after popping everything")
	}
}

func TestScopeStackPopEmpty(t *testing.T) {
	var s scopeStack

	if _, ok := s.pop(); ok {
		t.Error("pop on empty stack should return ok=false")
	}
}
