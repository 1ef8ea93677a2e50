package park

import "desire-paths/internal/core"

// Snapshot is a read-only copy of the model state for viewers and reports.
type Snapshot struct {
	Tick    int          `json:"tick"`
	Width   int          `json:"width"`
	Height  int          `json:"height"`
	Kinds   []Kind       `json:"kinds"`
	Wear    []int        `json:"wear"`
	Heatmap []int        `json:"heatmap"`
	Agents  []core.Point `json:"agents"`
}

// Snapshot copies the current kinds, wear, heatmap and agent positions.
func (w *World) Snapshot() Snapshot {
	size := w.Size()
	agents := make([]core.Point, len(w.agents))
	for i, a := range w.agents {
		agents[i] = a.cell
	}
	return Snapshot{
		Tick:    w.tick,
		Width:   size.W,
		Height:  size.H,
		Kinds:   append([]Kind(nil), w.terrain.Kinds()...),
		Wear:    append([]int(nil), w.terrain.WearLayer().Cells()...),
		Heatmap: append([]int(nil), w.heatmap.Cells()...),
		Agents:  agents,
	}
}

// MaxHeat returns the largest visitation count in the snapshot.
func (s Snapshot) MaxHeat() int {
	best := 0
	for _, v := range s.Heatmap {
		best = max(best, v)
	}
	return best
}
