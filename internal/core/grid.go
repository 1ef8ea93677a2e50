package core

// Point is an integer cell coordinate.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

// Number constrains the cell types a Grid can hold.
type Number interface {
	~uint8 | ~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Grid stores a bounded 2D layer of numeric cell values in row-major order.
// Unlike a toroidal automaton grid it never wraps: coordinates outside
// [0,W)x[0,H) are rejected.
type Grid[T Number] struct {
	W, H int
	data []T
}

// NewGrid allocates a grid with the given dimensions.
func NewGrid[T Number](w, h int) *Grid[T] {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Grid[T]{W: w, H: h, data: make([]T, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid[T]) Cells() []T { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid[T]) Index(x, y int) int { return y*g.W + x }

// PointAt is the inverse of Index.
func (g *Grid[T]) PointAt(idx int) Point { return Point{X: idx % g.W, Y: idx / g.W} }

// InBounds reports whether p lies on the grid.
func (g *Grid[T]) InBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.W && p.Y < g.H
}

// At returns the value at p. The caller must check bounds.
func (g *Grid[T]) At(p Point) T { return g.data[p.Y*g.W+p.X] }

// Set stores v at p. The caller must check bounds.
func (g *Grid[T]) Set(p Point, v T) { g.data[p.Y*g.W+p.X] = v }

// Add increments the value at p by delta.
func (g *Grid[T]) Add(p Point, delta T) { g.data[p.Y*g.W+p.X] += delta }

// Clear fills the grid with zeros.
func (g *Grid[T]) Clear() {
	for i := range g.data {
		g.data[i] = 0
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid[T]) Clone() *Grid[T] {
	return &Grid[T]{W: g.W, H: g.H, data: append([]T(nil), g.data...)}
}

// Max returns the largest value stored in the grid.
func (g *Grid[T]) Max() T {
	var best T
	for i, v := range g.data {
		if i == 0 || v > best {
			best = v
		}
	}
	return best
}

// MooreNeighbors appends the in-bounds Moore neighbours of p to buf and
// returns it. Order is fixed: rows top to bottom, columns left to right.
func MooreNeighbors(w, h int, p Point, buf []Point) []Point {
	for dy := -1; dy <= 1; dy++ {
		ny := p.Y + dy
		if ny < 0 || ny >= h {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx := p.X + dx
			if nx < 0 || nx >= w {
				continue
			}
			buf = append(buf, Point{X: nx, Y: ny})
		}
	}
	return buf
}
