package core

import (
	"slices"
	"testing"
)

func TestMooreNeighborsClampsToBounds(t *testing.T) {
	corner := MooreNeighbors(4, 3, Pt(0, 0), nil)
	want := []Point{{1, 0}, {0, 1}, {1, 1}}
	if !slices.Equal(corner, want) {
		t.Fatalf("corner neighbours = %v, want %v", corner, want)
	}

	inner := MooreNeighbors(4, 3, Pt(1, 1), nil)
	if len(inner) != 8 {
		t.Fatalf("expected 8 interior neighbours, got %d", len(inner))
	}
	if inner[0] != Pt(0, 0) || inner[7] != Pt(2, 2) {
		t.Fatalf("unexpected neighbour order %v", inner)
	}
	for _, p := range inner {
		if p == Pt(1, 1) {
			t.Fatal("neighbourhood must not contain the centre")
		}
	}
}

func TestGridBoundsAndIndex(t *testing.T) {
	g := NewGrid[int](5, 4)
	if g.InBounds(Pt(5, 0)) || g.InBounds(Pt(-1, 2)) || g.InBounds(Pt(0, 4)) {
		t.Fatal("out of range points reported in bounds")
	}
	p := Pt(3, 2)
	if got := g.PointAt(g.Index(p.X, p.Y)); got != p {
		t.Fatalf("PointAt(Index) = %v, want %v", got, p)
	}
	g.Add(p, 4)
	g.Add(p, 3)
	if g.At(p) != 7 || g.Max() != 7 {
		t.Fatalf("expected accumulated value 7, got %d (max %d)", g.At(p), g.Max())
	}
	c := g.Clone()
	g.Clear()
	if c.At(p) != 7 {
		t.Fatal("clone must not share storage")
	}
}

func TestNewGridClampsDimensions(t *testing.T) {
	g := NewGrid[uint8](0, -3)
	if g.W != 1 || g.H != 1 || len(g.Cells()) != 1 {
		t.Fatalf("expected 1x1 grid, got %dx%d", g.W, g.H)
	}
}
