package park

import (
	"fmt"
	"math"

	"desire-paths/internal/core"
)

// AgentParams configures how a pedestrian perceives and weighs terrain.
type AgentParams struct {
	// VisionAngle is the cone half-width in degrees around the heading to
	// the target.
	VisionAngle float64
	// VisionRadius bounds the vision search in cells.
	VisionRadius float64
	// TileWeight scales the terrain value in the affordance score.
	TileWeight float64
	// DistanceWeight scales the detour penalty. A zero weight lets agents
	// circle their destination forever, so it is rejected.
	DistanceWeight float64
}

// Validate reports configuration errors in p.
func (p AgentParams) Validate() error {
	if p.DistanceWeight == 0 {
		return fmt.Errorf("distance_weight must be non-zero: %w", ErrConfiguration)
	}
	if p.VisionRadius < 0 {
		return fmt.Errorf("vision_radius %v is negative: %w", p.VisionRadius, ErrConfiguration)
	}
	if p.VisionAngle < 0 || p.VisionAngle > 180 {
		return fmt.Errorf("vision_angle %v outside [0,180]: %w", p.VisionAngle, ErrConfiguration)
	}
	return nil
}

// State is the wayfinding phase of a pedestrian.
type State uint8

const (
	// StateSeeking means no subtarget is held.
	StateSeeking State = iota
	// StateRouting means the pedestrian walks toward a subtarget.
	StateRouting
	// StateArrived means the pedestrian stands on its target.
	StateArrived
)

func (s State) String() string {
	switch s {
	case StateSeeking:
		return "seeking"
	case StateRouting:
		return "routing"
	case StateArrived:
		return "arrived"
	default:
		return "unknown"
	}
}

// Pedestrian walks from an entrance to a target, choosing one neighbouring
// cell per tick.
type Pedestrian struct {
	id     int
	cell   core.Point
	target core.Point

	subtarget    core.Point
	hasSubtarget bool

	params AgentParams
	metric Metric

	previous    core.Point
	hasPrevious bool
	history     []core.Point
	visited     map[core.Point]struct{}
}

// NewPedestrian creates a pedestrian at cell heading for target.
func NewPedestrian(id int, cell, target core.Point, params AgentParams, metric Metric) (*Pedestrian, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if metric == nil {
		return nil, fmt.Errorf("pedestrian %d has no metric: %w", id, ErrConfiguration)
	}
	return &Pedestrian{
		id:      id,
		cell:    cell,
		target:  target,
		params:  params,
		metric:  metric,
		visited: map[core.Point]struct{}{},
	}, nil
}

// ID returns the pedestrian identifier.
func (a *Pedestrian) ID() int { return a.id }

// Cell returns the current position.
func (a *Pedestrian) Cell() core.Point { return a.cell }

// Target returns the final destination.
func (a *Pedestrian) Target() core.Point { return a.target }

// Subtarget returns the current waypoint, if any.
func (a *Pedestrian) Subtarget() (core.Point, bool) { return a.subtarget, a.hasSubtarget }

// Previous returns the last vacated cell, if any.
func (a *Pedestrian) Previous() (core.Point, bool) { return a.previous, a.hasPrevious }

// History returns the vacated cells in visiting order.
func (a *Pedestrian) History() []core.Point { return append([]core.Point(nil), a.history...) }

// Params returns the pedestrian configuration.
func (a *Pedestrian) Params() AgentParams { return a.params }

// Visited reports whether the pedestrian has already left p behind.
func (a *Pedestrian) Visited(p core.Point) bool {
	_, ok := a.visited[p]
	return ok
}

// State reports the wayfinding phase.
func (a *Pedestrian) State() State {
	switch {
	case a.cell == a.target:
		return StateArrived
	case a.hasSubtarget:
		return StateRouting
	default:
		return StateSeeking
	}
}

// Destination is the subtarget when one is held, otherwise the target.
func (a *Pedestrian) Destination() core.Point {
	if a.hasSubtarget {
		return a.subtarget
	}
	return a.target
}

// Affordance scores cell c for this pedestrian: weighted tile value minus
// the weighted detour that stepping through c adds on the way to the
// target. The score never drops below zero.
func (a *Pedestrian) Affordance(t *Terrain, c core.Point) float64 {
	detour := distance(c, a.cell) + distance(a.target, c) - distance(a.target, a.cell)
	score := a.params.TileWeight*float64(t.TileValue(c)) - a.params.DistanceWeight*detour
	return math.Max(0, score)
}

// Act runs one tick of the state machine: drop a reached subtarget, look
// for a new one when none is held, then step to the best ranked neighbour.
// A sentinel-only ranking leaves the pedestrian in place for this tick.
func (a *Pedestrian) Act(w *World) {
	if a.cell == a.target {
		return
	}
	if a.targetAdjacent(w.terrain) {
		w.releaseSubtarget(a)
		a.moveTo(a.target)
		return
	}
	if a.hasSubtarget && a.cell == a.subtarget {
		w.releaseSubtarget(a)
	}
	if !a.hasSubtarget {
		if sub, ok := a.visionSearch(w.terrain, w.vision); ok {
			a.subtarget = sub
			a.hasSubtarget = true
			w.subtargets.Add(sub, 1)
		}
	}

	dest := a.Destination()
	ranked := a.metric.Rank(a, w.terrain, dest)
	if IsGiveUp(ranked) {
		w.log.Debug("no walkable step", "agent", a.id, "cell", a.cell, "destination", dest, "metric", a.metric.Name())
		return
	}
	a.moveTo(ranked[0].Cell)
}

// targetAdjacent reports whether the target is one walkable step away. No
// waypoint can beat arriving, so Act skips the search and steps onto it.
func (a *Pedestrian) targetAdjacent(t *Terrain) bool {
	dx, dy := a.target.X-a.cell.X, a.target.Y-a.cell.Y
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 {
		return false
	}
	return t.Walkable(a.target)
}

func (a *Pedestrian) moveTo(next core.Point) {
	a.previous = a.cell
	a.hasPrevious = true
	a.history = append(a.history, a.cell)
	a.visited[a.cell] = struct{}{}
	a.cell = next
}
