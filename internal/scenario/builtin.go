package scenario

import (
	"fmt"

	"desire-paths/internal/core"
	"desire-paths/internal/sims/park"
)

type canvas struct {
	w, h  int
	kinds []park.Kind
}

func newCanvas(w, h int) *canvas {
	return &canvas{w: w, h: h, kinds: make([]park.Kind, w*h)}
}

func (c *canvas) in(x, y int) bool { return x >= 0 && y >= 0 && x < c.w && y < c.h }

func (c *canvas) set(x, y int, k park.Kind) {
	if c.in(x, y) {
		c.kinds[y*c.w+x] = k
	}
}

func (c *canvas) at(x, y int) park.Kind { return c.kinds[y*c.w+x] }

func (c *canvas) layout(entrances []core.Point) park.Layout {
	return park.Layout{Width: c.w, Height: c.h, Kinds: c.kinds, Entrances: entrances}
}

// TestPark is an open lawn crossed by two sidewalk strips: a vertical one
// at x=7 for y in [3,20) and a horizontal one at y=7 for x in [5,15).
// Pedestrians enter and leave at the four strip ends.
func TestPark(opts Options) (park.Layout, error) {
	w, h := sizeOr(opts, 100, 100)
	if w < 15 || h < 20 {
		return park.Layout{}, fmt.Errorf("testpark needs at least 15x20, got %dx%d: %w", w, h, park.ErrConfiguration)
	}
	c := newCanvas(w, h)
	for y := 3; y < 20; y++ {
		c.set(7, y, park.KindSidewalk)
	}
	for x := 5; x < 15; x++ {
		c.set(x, 7, park.KindSidewalk)
	}
	return c.layout([]core.Point{
		core.Pt(7, 3),
		core.Pt(7, 19),
		core.Pt(5, 7),
		core.Pt(14, 7),
	}), nil
}

// Plaza is a square park ringed by sidewalk with a pond in the middle.
// Gates sit at the middle of each side and at the corners.
func Plaza(opts Options) (park.Layout, error) {
	w, h := sizeOr(opts, 60, 60)
	if w < 9 || h < 9 {
		return park.Layout{}, fmt.Errorf("plaza needs at least 9x9, got %dx%d: %w", w, h, park.ErrConfiguration)
	}
	c := newCanvas(w, h)
	for x := 0; x < w; x++ {
		c.set(x, 0, park.KindSidewalk)
		c.set(x, h-1, park.KindSidewalk)
	}
	for y := 0; y < h; y++ {
		c.set(0, y, park.KindSidewalk)
		c.set(w-1, y, park.KindSidewalk)
	}

	cx, cy := float64(w-1)/2, float64(h-1)/2
	rx, ry := float64(w)/8, float64(h)/8
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			dx, dy := (float64(x)-cx)/rx, (float64(y)-cy)/ry
			if dx*dx+dy*dy <= 1 {
				c.set(x, y, park.KindObstacle)
			}
		}
	}
	markMargins(c)

	return c.layout([]core.Point{
		core.Pt(w/2, 0),
		core.Pt(w-1, h/2),
		core.Pt(w/2, h-1),
		core.Pt(0, h/2),
		core.Pt(0, 0),
		core.Pt(w-1, h-1),
	}), nil
}

// markMargins turns grass cells that touch an obstacle into obstacle
// margins.
func markMargins(c *canvas) {
	var buf []core.Point
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			if c.at(x, y) != park.KindGrass {
				continue
			}
			buf = core.MooreNeighbors(c.w, c.h, core.Pt(x, y), buf[:0])
			for _, n := range buf {
				if c.at(n.X, n.Y) == park.KindObstacle {
					c.set(x, y, park.KindObstacleMargin)
					break
				}
			}
		}
	}
}

func sizeOr(opts Options, w, h int) (int, int) {
	if opts.Width > 0 {
		w = opts.Width
	}
	if opts.Height > 0 {
		h = opts.Height
	}
	return w, h
}
