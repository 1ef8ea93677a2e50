package park

import "math"

const (
	regrowthBandLow  = 40
	regrowthBandHigh = 80
)

// applyFeedback wears down the cells pedestrians stand on and lets
// moderately worn grass elsewhere grow back.
func (w *World) applyFeedback() {
	for i := range w.occupied {
		w.occupied[i] = false
	}
	for _, a := range w.agents {
		w.occupied[w.heatmap.Index(a.cell.X, a.cell.Y)] = true
	}

	p := w.cfg.Params
	t := w.terrain
	kinds := t.kinds.Cells()
	wear := t.wear.Cells()
	for idx, occupied := range w.occupied {
		if !occupied {
			continue
		}
		switch kinds[idx] {
		case KindGrass:
			wear[idx] = min(GrassWearMax, wear[idx]+wearIncrement(p.GrassDecayRate, wear[idx]))
		case KindObstacleMargin:
			inc := int(math.Ceil(float64(wearIncrement(p.GrassDecayRate, wear[idx])) * p.ObstacleMarginPercentage))
			wear[idx] = min(MarginWearMax, wear[idx]+inc)
		}
	}

	for idx, kind := range kinds {
		if kind != KindGrass || w.occupied[idx] {
			continue
		}
		v := wear[idx]
		if v > regrowthBandLow && v < regrowthBandHigh && w.rng.Float64() < p.GrassGrowthProbability {
			wear[idx] = v - 1
		}
	}
}

// wearIncrement is max(1, ceil(rate*current)).
func wearIncrement(rate float64, current int) int {
	return max(1, int(math.Ceil(rate*float64(current))))
}
