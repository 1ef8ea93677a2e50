//go:build ebiten

package ui

import (
	"image/color"

	"desire-paths/internal/core"
	"desire-paths/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay draws the optional analysis layers on top of the park.
type Overlay struct {
	sim     core.Sim
	scale   int
	painter *render.GridPainter
	layers  []overlayLayer
}

type overlayLayer struct {
	key  ebiten.Key
	name string
	tint color.RGBA
	on   bool
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	size := sim.Size()
	return &Overlay{
		sim:     sim,
		scale:   scale,
		painter: render.NewGridPainter(size.W, size.H),
		layers: []overlayLayer{
			{key: ebiten.KeyDigit1, name: LayerHeatmap, tint: color.RGBA{R: 255, G: 90, B: 40}},
			{key: ebiten.KeyDigit2, name: LayerVision, tint: color.RGBA{R: 64, G: 164, B: 223}},
			{key: ebiten.KeyDigit3, name: LayerSubtargets, tint: color.RGBA{R: 230, G: 60, B: 220}},
		},
	}
}

// Update toggles layers from the number keys.
func (o *Overlay) Update() {
	for i := range o.layers {
		if inpututil.IsKeyJustPressed(o.layers[i].key) {
			o.layers[i].on = !o.layers[i].on
		}
	}
}

// Active names the layers currently shown.
func (o *Overlay) Active() []string {
	var names []string
	for _, l := range o.layers {
		if l.on {
			names = append(names, l.name)
		}
	}
	return names
}

// Draw renders the enabled layers onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	provider, ok := o.sim.(layerProvider)
	if !ok {
		return
	}
	for _, l := range o.layers {
		if !l.on {
			continue
		}
		if values := layerValues(provider, l.name); values != nil {
			o.painter.BlitLayer(screen, values, l.tint, o.scale)
		}
	}
}
