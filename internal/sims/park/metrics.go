package park

import (
	"fmt"
	"math"
	"slices"

	"desire-paths/internal/core"
)

// GiveUpScore marks the single-entry ranking returned when no neighbour is
// a legal step.
const GiveUpScore = -1

// Candidate is a neighbouring cell and the score a metric assigned to it.
type Candidate struct {
	Cell  core.Point
	Score float64
}

// Metric orders the neighbours of a pedestrian by how good a next step
// toward dest they are. The best candidate comes first.
type Metric interface {
	Name() string
	Rank(a *Pedestrian, t *Terrain, dest core.Point) []Candidate
}

// IsGiveUp reports whether ranked is the no-candidate sentinel.
func IsGiveUp(ranked []Candidate) bool {
	return len(ranked) == 1 && ranked[0].Score == GiveUpScore
}

func giveUp(dest core.Point) []Candidate {
	return []Candidate{{Cell: dest, Score: GiveUpScore}}
}

// MetricNames lists the registered metric names in a stable order.
func MetricNames() []string {
	return []string{"closest", "affordance", "balanced", "mixed"}
}

// MetricByName resolves a metric from its configuration name. "normal" is
// accepted as an alias for "closest".
func MetricByName(name string) (Metric, error) {
	switch name {
	case "closest", "normal":
		return ClosestMetric{}, nil
	case "affordance":
		return AffordanceMetric{}, nil
	case "balanced":
		return BalancedMetric{}, nil
	case "mixed":
		return MixedMetric{}, nil
	default:
		return nil, fmt.Errorf("unknown metric %q: %w", name, ErrConfiguration)
	}
}

func walkableNeighbors(a *Pedestrian, t *Terrain) []core.Point {
	nbrs := t.neighbors(a.cell)
	out := nbrs[:0]
	for _, p := range nbrs {
		if t.kindAt(p).Walkable() {
			out = append(out, p)
		}
	}
	return out
}

// progressNeighbors keeps the walkable neighbours that are not farther from
// dest than the pedestrian already is.
func progressNeighbors(a *Pedestrian, t *Terrain, dest core.Point) []core.Point {
	current := distance(dest, a.cell)
	nbrs := walkableNeighbors(a, t)
	out := nbrs[:0]
	for _, p := range nbrs {
		if distance(dest, p) <= current {
			out = append(out, p)
		}
	}
	return out
}

func sortAscending(c []Candidate) {
	slices.SortStableFunc(c, func(x, y Candidate) int {
		switch {
		case x.Score < y.Score:
			return -1
		case x.Score > y.Score:
			return 1
		default:
			return 0
		}
	})
}

func sortDescending(c []Candidate) {
	slices.SortStableFunc(c, func(x, y Candidate) int {
		switch {
		case x.Score > y.Score:
			return -1
		case x.Score < y.Score:
			return 1
		default:
			return 0
		}
	})
}

func closestOrder(cells []core.Point, dest core.Point) []Candidate {
	out := make([]Candidate, 0, len(cells))
	for _, p := range cells {
		out = append(out, Candidate{Cell: p, Score: distance(dest, p)})
	}
	sortAscending(out)
	return out
}

func affordanceOrder(a *Pedestrian, t *Terrain, cells []core.Point) []Candidate {
	out := make([]Candidate, 0, len(cells))
	for _, p := range cells {
		out = append(out, Candidate{Cell: p, Score: a.Affordance(t, p)})
	}
	sortDescending(out)
	return out
}

// ClosestMetric ranks walkable neighbours by straight-line distance to the
// destination, ignoring terrain.
type ClosestMetric struct{}

func (ClosestMetric) Name() string { return "closest" }

func (ClosestMetric) Rank(a *Pedestrian, t *Terrain, dest core.Point) []Candidate {
	ranked := closestOrder(walkableNeighbors(a, t), dest)
	if len(ranked) == 0 {
		return giveUp(dest)
	}
	return ranked
}

// AffordanceMetric ranks non-regressing neighbours by affordance, highest
// first. It falls back to ClosestMetric when every neighbour would move the
// pedestrian away from the destination, and steps straight onto a walkable
// destination that is already adjacent.
type AffordanceMetric struct{}

func (AffordanceMetric) Name() string { return "affordance" }

func (AffordanceMetric) Rank(a *Pedestrian, t *Terrain, dest core.Point) []Candidate {
	if t.Walkable(dest) && slices.Contains(t.neighbors(a.cell), dest) {
		return []Candidate{{Cell: dest, Score: a.Affordance(t, dest)}}
	}
	ranked := affordanceOrder(a, t, progressNeighbors(a, t, dest))
	if len(ranked) == 0 {
		return ClosestMetric{}.Rank(a, t, dest)
	}
	return ranked
}

// BalancedMetric sums each candidate's position in the distance ranking and
// in the affordance ranking; the lowest sum wins.
type BalancedMetric struct{}

func (BalancedMetric) Name() string { return "balanced" }

func (BalancedMetric) Rank(a *Pedestrian, t *Terrain, dest core.Point) []Candidate {
	cells := progressNeighbors(a, t, dest)
	byDistance := closestOrder(cells, dest)
	byAffordance := affordanceOrder(a, t, append([]core.Point(nil), cells...))

	distRank := make(map[core.Point]int, len(byDistance))
	for i, c := range byDistance {
		distRank[c.Cell] = i
	}
	out := make([]Candidate, 0, len(byAffordance))
	for i, c := range byAffordance {
		dr, ok := distRank[c.Cell]
		if !ok {
			continue
		}
		out = append(out, Candidate{Cell: c.Cell, Score: float64(dr + i)})
	}
	if len(out) == 0 {
		return giveUp(dest)
	}
	sortAscending(out)
	return out
}

// MixedMetric min-max normalises distance and affordance over the unvisited
// walkable neighbours and scores each by normalised distance divided by
// normalised affordance; lower is better.
type MixedMetric struct{}

func (MixedMetric) Name() string { return "mixed" }

func (MixedMetric) Rank(a *Pedestrian, t *Terrain, dest core.Point) []Candidate {
	type entry struct {
		cell core.Point
		dist float64
		aff  float64
	}
	var entries []entry
	for _, p := range t.neighbors(a.cell) {
		k := t.kindAt(p)
		if !k.Walkable() || k == KindObstacleMargin || a.Visited(p) {
			continue
		}
		entries = append(entries, entry{cell: p, dist: distance(dest, p), aff: a.Affordance(t, p)})
	}
	if len(entries) == 0 {
		return giveUp(dest)
	}

	minDist, maxDist := entries[0].dist, entries[0].dist
	minAff, maxAff := entries[0].aff, entries[0].aff
	for _, e := range entries[1:] {
		minDist = math.Min(minDist, e.dist)
		maxDist = math.Max(maxDist, e.dist)
		minAff = math.Min(minAff, e.aff)
		maxAff = math.Max(maxAff, e.aff)
	}
	spreadDist := maxDist - minDist
	spreadAff := maxAff - minAff

	out := make([]Candidate, 0, len(entries))
	for _, e := range entries {
		nd := 0.0
		if spreadDist > 0 {
			nd = (e.dist - minDist) / spreadDist
		}
		score := nd
		if spreadAff > 0 {
			na := (e.aff - minAff) / spreadAff
			if na == 0 {
				score = math.Inf(1)
			} else {
				score = nd / na
			}
		}
		out = append(out, Candidate{Cell: e.cell, Score: score})
	}
	sortAscending(out)
	return out
}
