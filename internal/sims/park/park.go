package park

import (
	"fmt"
	"log/slog"

	"desire-paths/internal/accuracy"
	"desire-paths/internal/core"
)

// Layout is the static description of a park: its classification grid and
// the entrance cells pedestrians spawn at and head for.
type Layout struct {
	Name      string
	Width     int
	Height    int
	Kinds     []Kind
	Entrances []core.Point
}

// World runs the pedestrian simulation on one park.
//
// A World is single-threaded. Each Step finishes agent movement, terrain
// feedback and bookkeeping before returning; agents act one after another
// in a shuffled order and later agents see the moves of earlier ones.
type World struct {
	cfg    Config
	layout Layout

	terrain *Terrain
	metric  Metric
	agents  []*Pedestrian
	nextID  int
	tick    int

	heatmap    *core.Grid[int]
	vision     *core.Grid[int]
	subtargets *core.Grid[int]
	occupied   []bool
	display    []uint8

	rng *core.RNG
	log *slog.Logger
}

// NewWorld validates cfg against layout and returns a World reset to the
// configured seed.
func NewWorld(cfg Config, layout Layout) (*World, error) {
	cfg.Width = layout.Width
	cfg.Height = layout.Height
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	terrain, err := NewTerrain(layout.Width, layout.Height, layout.Kinds)
	if err != nil {
		return nil, err
	}
	metric, err := MetricByName(cfg.Metric)
	if err != nil {
		return nil, err
	}
	if err := validateEntrances(cfg, terrain, layout.Entrances); err != nil {
		return nil, err
	}

	total := layout.Width * layout.Height
	w := &World{
		cfg:        cfg,
		layout:     layout,
		terrain:    terrain,
		metric:     metric,
		heatmap:    core.NewGrid[int](layout.Width, layout.Height),
		vision:     core.NewGrid[int](layout.Width, layout.Height),
		subtargets: core.NewGrid[int](layout.Width, layout.Height),
		occupied:   make([]bool, total),
		display:    make([]uint8, total),
		log:        slog.Default(),
	}
	w.Reset(0)
	return w, nil
}

func validateEntrances(cfg Config, t *Terrain, entrances []core.Point) error {
	if len(entrances) < 2 {
		return fmt.Errorf("park needs at least two entrances, has %d: %w", len(entrances), ErrConfiguration)
	}
	seen := make(map[core.Point]struct{}, len(entrances))
	for _, p := range entrances {
		if !t.InBounds(p) {
			return fmt.Errorf("entrance %v: %w", p, ErrOutOfBounds)
		}
		if !t.Walkable(p) {
			return fmt.Errorf("entrance %v is %s, not walkable: %w", p, t.kindAt(p), ErrConfiguration)
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("duplicate entrance %v: %w", p, ErrConfiguration)
		}
		seen[p] = struct{}{}
	}
	if cfg.Params.SpawnCount > len(entrances) {
		return fmt.Errorf("spawn_count %d exceeds %d entrances: %w", cfg.Params.SpawnCount, len(entrances), ErrConfiguration)
	}
	if cfg.Params.InitialAgents > len(entrances) {
		return fmt.Errorf("initial_agents %d exceeds %d entrances: %w", cfg.Params.InitialAgents, len(entrances), ErrConfiguration)
	}
	return nil
}

// SetLogger replaces the logger used for per-tick diagnostics.
func (w *World) SetLogger(l *slog.Logger) {
	if l != nil {
		w.log = l
	}
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "park" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return w.terrain.Size() }

// Cells exposes the current display buffer.
func (w *World) Cells() []uint8 { return w.display }

// Config returns the configuration the world runs with.
func (w *World) Config() Config { return w.cfg }

// Layout returns the park layout.
func (w *World) Layout() Layout { return w.layout }

// Terrain exposes the terrain grid.
func (w *World) Terrain() *Terrain { return w.terrain }

// Metric returns the ranking strategy handed to new pedestrians.
func (w *World) Metric() Metric { return w.metric }

// Tick returns the number of completed steps.
func (w *World) Tick() int { return w.tick }

// Agents returns the active pedestrians.
func (w *World) Agents() []*Pedestrian { return append([]*Pedestrian(nil), w.agents...) }

// Heatmap exposes the cumulative visitation counts.
func (w *World) Heatmap() *core.Grid[int] { return w.heatmap }

// VisionLayer counts how often each cell was admitted by a vision search.
func (w *World) VisionLayer() *core.Grid[int] { return w.vision }

// SubtargetLayer counts the pedestrians currently holding each cell as
// their subtarget.
func (w *World) SubtargetLayer() *core.Grid[int] { return w.subtargets }

// Reset prepares the initial world using deterministic randomness. A zero
// seed selects the configured one.
func (w *World) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	w.rng = core.NewRNG(effective)
	w.terrain.ResetWear()
	w.heatmap.Clear()
	w.vision.Clear()
	w.subtargets.Clear()
	w.agents = nil
	w.nextID = 0
	w.tick = 0
	w.spawnAgents(w.cfg.Params.InitialAgents)
	w.rebuildDisplay()
}

// Step advances the simulation by one tick.
func (w *World) Step() {
	for _, a := range w.agents {
		w.heatmap.Add(a.cell, 1)
	}

	w.tick++
	p := w.cfg.Params
	if p.SpawnEvery > 0 && w.tick%p.SpawnEvery == 0 && len(w.agents) < p.MaxAgents {
		w.spawnAgents(p.SpawnCount)
	}

	w.removeArrived()

	w.rng.Shuffle(len(w.agents), func(i, j int) {
		w.agents[i], w.agents[j] = w.agents[j], w.agents[i]
	})
	for _, a := range w.agents {
		a.Act(w)
	}

	w.applyFeedback()
	w.rebuildDisplay()
}

// AddAgent places a pedestrian at cell heading for target using the
// configured agent parameters and metric.
func (w *World) AddAgent(cell, target core.Point) (*Pedestrian, error) {
	if !w.terrain.InBounds(cell) || !w.terrain.InBounds(target) {
		return nil, fmt.Errorf("agent %v -> %v: %w", cell, target, ErrOutOfBounds)
	}
	a, err := NewPedestrian(w.nextID, cell, target, w.cfg.Params.AgentParams(), w.metric)
	if err != nil {
		return nil, err
	}
	w.nextID++
	w.agents = append(w.agents, a)
	return a, nil
}

// spawnAgents starts n pedestrians on distinct entrances, each heading for
// a different entrance than the one it starts on.
func (w *World) spawnAgents(n int) {
	entrances := w.layout.Entrances
	if n <= 0 || len(entrances) < 2 {
		return
	}
	for _, start := range w.rng.Sample(len(entrances), n) {
		target := w.rng.IntN(len(entrances) - 1)
		if target >= start {
			target++
		}
		a, err := w.AddAgent(entrances[start], entrances[target])
		if err != nil {
			w.log.Error("spawn failed", "err", err)
			continue
		}
		w.log.Debug("agent spawned", "agent", a.id, "cell", a.cell, "target", a.target, "tick", w.tick)
	}
}

func (w *World) removeArrived() {
	kept := w.agents[:0]
	for _, a := range w.agents {
		if a.cell == a.target {
			w.releaseSubtarget(a)
			w.log.Debug("agent arrived", "agent", a.id, "cell", a.cell, "tick", w.tick, "steps", len(a.history))
			continue
		}
		kept = append(kept, a)
	}
	for i := len(kept); i < len(w.agents); i++ {
		w.agents[i] = nil
	}
	w.agents = kept
}

func (w *World) releaseSubtarget(a *Pedestrian) {
	if !a.hasSubtarget {
		return
	}
	if w.subtargets.At(a.subtarget) > 0 {
		w.subtargets.Add(a.subtarget, -1)
	}
	a.hasSubtarget = false
}

// Accuracy scores the current wear layer against a reference path mask
// using the configured threshold and dilation.
func (w *World) Accuracy(reference []bool) (accuracy.Result, error) {
	size := w.Size()
	return accuracy.Evaluate(w.terrain.WearLayer().Cells(), size.W, size.H, reference, accuracy.Options{
		Threshold: w.cfg.Params.AccuracyThreshold,
		Dilate:    w.cfg.Params.AccuracyDilate,
	})
}
