package park

import (
	"fmt"
	"math"

	"desire-paths/internal/core"
)

// Kind classifies a terrain cell. Every kind has its own discriminant; code
// never derives a classification by adding or comparing values across kinds.
type Kind uint8

const (
	KindGrass Kind = iota
	KindSidewalk
	KindObstacle
	KindObstacleMargin
)

const (
	// SidewalkValue is the fixed tile value of sidewalk cells.
	SidewalkValue = 100
	// GrassWearMax is the wear ceiling for grass.
	GrassWearMax = 100
	// MarginWearMax is the wear ceiling for obstacle margins.
	MarginWearMax = 40
)

func (k Kind) String() string {
	switch k {
	case KindGrass:
		return "grass"
	case KindSidewalk:
		return "sidewalk"
	case KindObstacle:
		return "obstacle"
	case KindObstacleMargin:
		return "obstacle_margin"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Valid reports whether k is one of the four known kinds.
func (k Kind) Valid() bool { return k <= KindObstacleMargin }

// Walkable reports whether pedestrians may step onto the kind.
func (k Kind) Walkable() bool { return k == KindGrass || k == KindSidewalk }

// WearCeiling is the highest wear a cell of this kind may hold.
func (k Kind) WearCeiling() int {
	switch k {
	case KindGrass:
		return GrassWearMax
	case KindObstacleMargin:
		return MarginWearMax
	default:
		return 0
	}
}

// Terrain is the park grid: a fixed kind per cell plus a mutable wear layer.
type Terrain struct {
	w, h  int
	kinds *core.Grid[Kind]
	wear  *core.Grid[int]
}

// NewTerrain builds a terrain from a row-major classification grid.
func NewTerrain(w, h int, kinds []Kind) (*Terrain, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("terrain size %dx%d: %w", w, h, ErrConfiguration)
	}
	if len(kinds) != w*h {
		return nil, fmt.Errorf("terrain has %d cells, want %d: %w", len(kinds), w*h, ErrConfiguration)
	}
	t := &Terrain{
		w:     w,
		h:     h,
		kinds: core.NewGrid[Kind](w, h),
		wear:  core.NewGrid[int](w, h),
	}
	for i, k := range kinds {
		if !k.Valid() {
			return nil, fmt.Errorf("cell %d has unknown kind %d: %w", i, k, ErrConfiguration)
		}
	}
	copy(t.kinds.Cells(), kinds)
	return t, nil
}

// Size reports the grid dimensions.
func (t *Terrain) Size() core.Size { return core.Size{W: t.w, H: t.h} }

// InBounds reports whether p lies on the grid.
func (t *Terrain) InBounds(p core.Point) bool { return t.kinds.InBounds(p) }

// Classify returns the kind of the cell at p.
func (t *Terrain) Classify(p core.Point) (Kind, error) {
	if !t.InBounds(p) {
		return 0, fmt.Errorf("classify %v: %w", p, ErrOutOfBounds)
	}
	return t.kinds.At(p), nil
}

// Wear returns the wear of the cell at p.
func (t *Terrain) Wear(p core.Point) (int, error) {
	if !t.InBounds(p) {
		return 0, fmt.Errorf("wear %v: %w", p, ErrOutOfBounds)
	}
	return t.wear.At(p), nil
}

// SetWear stores v at p clamped to [0, ceiling] of the cell's kind, so
// sidewalks and obstacles always stay at zero.
func (t *Terrain) SetWear(p core.Point, v int) error {
	if !t.InBounds(p) {
		return fmt.Errorf("set wear %v: %w", p, ErrOutOfBounds)
	}
	t.setWear(p, v)
	return nil
}

// Neighbors returns the Moore neighbourhood of p clipped to the grid.
func (t *Terrain) Neighbors(p core.Point) ([]core.Point, error) {
	if !t.InBounds(p) {
		return nil, fmt.Errorf("neighbors %v: %w", p, ErrOutOfBounds)
	}
	return t.neighbors(p), nil
}

// TileValue is the terrain desirability of the cell: 100 for sidewalk, the
// current wear for grass, zero otherwise.
func (t *Terrain) TileValue(p core.Point) int {
	if !t.InBounds(p) {
		return 0
	}
	switch t.kinds.At(p) {
	case KindSidewalk:
		return SidewalkValue
	case KindGrass:
		return t.wear.At(p)
	default:
		return 0
	}
}

// Walkable reports whether p is on the grid and is sidewalk or grass.
func (t *Terrain) Walkable(p core.Point) bool {
	return t.InBounds(p) && t.kinds.At(p).Walkable()
}

// Kinds exposes the classification layer. Callers must not modify it.
func (t *Terrain) Kinds() []Kind { return t.kinds.Cells() }

// WearLayer exposes the wear layer.
func (t *Terrain) WearLayer() *core.Grid[int] { return t.wear }

// ResetWear sets every cell back to zero wear.
func (t *Terrain) ResetWear() { t.wear.Clear() }

func (t *Terrain) kindAt(p core.Point) Kind { return t.kinds.At(p) }

func (t *Terrain) wearAt(p core.Point) int { return t.wear.At(p) }

func (t *Terrain) setWear(p core.Point, v int) {
	ceiling := t.kinds.At(p).WearCeiling()
	if v > ceiling {
		v = ceiling
	}
	if v < 0 {
		v = 0
	}
	t.wear.Set(p, v)
}

func (t *Terrain) neighbors(p core.Point) []core.Point {
	return core.MooreNeighbors(t.w, t.h, p, make([]core.Point, 0, 8))
}

func distance(a, b core.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
