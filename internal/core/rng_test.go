package core

import (
	"slices"
	"testing"
)

func TestSampleDistinctAndDeterministic(t *testing.T) {
	a := NewRNG(7).Sample(10, 6)
	b := NewRNG(7).Sample(10, 6)
	if !slices.Equal(a, b) {
		t.Fatalf("same seed produced %v and %v", a, b)
	}
	seen := map[int]bool{}
	for _, v := range a {
		if v < 0 || v >= 10 {
			t.Fatalf("sample %d out of range", v)
		}
		if seen[v] {
			t.Fatalf("duplicate sample %d in %v", v, a)
		}
		seen[v] = true
	}
	if got := NewRNG(1).Sample(3, 9); len(got) != 3 {
		t.Fatalf("expected sample size capped at 3, got %d", len(got))
	}
}
