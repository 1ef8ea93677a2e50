package ui

import "desire-paths/internal/core"

// Layer names shown by the overlay.
const (
	LayerHeatmap    = "heatmap"
	LayerVision     = "vision"
	LayerSubtargets = "subtargets"
)

type layerProvider interface {
	Heatmap() *core.Grid[int]
	VisionLayer() *core.Grid[int]
	SubtargetLayer() *core.Grid[int]
}

func layerValues(p layerProvider, name string) []int {
	var g *core.Grid[int]
	switch name {
	case LayerHeatmap:
		g = p.Heatmap()
	case LayerVision:
		g = p.VisionLayer()
	case LayerSubtargets:
		g = p.SubtargetLayer()
	}
	if g == nil {
		return nil
	}
	return g.Cells()
}
