package park

import (
	"math"

	"desire-paths/internal/core"
)

type visionFrame struct {
	cell core.Point
	nbrs []core.Point
	next int
}

// visionSearch flood-fills outward from the pedestrian through chains of
// admissible cells and returns the walkable cell with the highest
// affordance. The traversal is the depth-first order of a recursive walk
// over the neighbourhood, kept on an explicit stack; ties go to the cell
// seen first. Every admitted cell is counted in hits.
func (a *Pedestrian) visionSearch(t *Terrain, hits *core.Grid[int]) (core.Point, bool) {
	origin := a.cell
	hx := float64(a.target.X - origin.X)
	hy := float64(a.target.Y - origin.Y)
	heading := math.Hypot(hx, hy)
	if heading == 0 || a.params.VisionRadius <= 0 {
		return core.Point{}, false
	}
	cosLimit := math.Cos(a.params.VisionAngle * math.Pi / 180)

	admissible := func(p core.Point) bool {
		vx := float64(p.X - origin.X)
		vy := float64(p.Y - origin.Y)
		mag := math.Hypot(vx, vy)
		if mag == 0 || mag > a.params.VisionRadius {
			return false
		}
		if (vx*hx+vy*hy)/(mag*heading) < cosLimit {
			return false
		}
		return t.kindAt(p) != KindObstacle
	}

	var (
		best      core.Point
		bestScore float64
		found     bool
	)
	visited := map[core.Point]struct{}{origin: {}}
	stack := []visionFrame{{cell: origin, nbrs: t.neighbors(origin)}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.nbrs) {
			stack = stack[:len(stack)-1]
			continue
		}
		p := top.nbrs[top.next]
		top.next++

		if _, seen := visited[p]; seen {
			continue
		}
		visited[p] = struct{}{}
		if !admissible(p) {
			continue
		}
		if hits != nil {
			hits.Add(p, 1)
		}
		// Margins are seen through but cannot be stood on, so they never
		// become a waypoint.
		if t.kindAt(p).Walkable() {
			score := a.Affordance(t, p)
			if !found || score > bestScore {
				best, bestScore, found = p, score, true
			}
		}
		stack = append(stack, visionFrame{cell: p, nbrs: t.neighbors(p)})
	}
	return best, found
}
