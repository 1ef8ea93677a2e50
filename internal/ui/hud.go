//go:build ebiten

package ui

import (
	"fmt"
	"image/color"
	"strings"

	"desire-paths/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the parameter panel to the right of the simulation view.
type HUD struct {
	sim        core.Sim
	width      int
	panel      *ebiten.Image
	lastHeight int
	lines      []hudLine
	title      string
	status     string
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{sim: sim, width: width, title: buildTitle(sim)}
}

// Update refreshes the cached parameter snapshot from the simulation.
func (h *HUD) Update(status string) {
	if h == nil {
		return
	}
	h.status = status
	provider, ok := h.sim.(core.ParameterProvider)
	if !ok {
		h.lines = nil
		return
	}
	h.lines = snapshotLines(provider.Parameters())
}

// Draw paints the HUD panel anchored to the right edge of the simulation view.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	height := h.sim.Size().H * scale
	if height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dx() != h.width || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawLines()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func buildTitle(sim core.Sim) string {
	if sim == nil || sim.Name() == "" {
		return "Parameters"
	}
	name := sim.Name()
	return fmt.Sprintf("%s%s parameters", strings.ToUpper(name[:1]), name[1:])
}

func (h *HUD) drawLines() {
	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, h.title, face, panelPadding, y, headerColor)
	if h.status != "" {
		y += lineHeight
		text.Draw(h.panel, h.status, face, panelPadding, y, statusColor)
	}
	if len(h.lines) == 0 {
		text.Draw(h.panel, "No parameters", face, panelPadding, y+lineHeight, mutedColor)
		return
	}
	for _, line := range h.lines {
		y += lineHeight
		if line.group {
			y += groupGap
			text.Draw(h.panel, line.label, face, panelPadding, y, headerColor)
			continue
		}
		text.Draw(h.panel, line.label, face, panelPadding, y, labelColor)
		bounds := text.BoundString(face, line.value)
		text.Draw(h.panel, line.value, face, h.width-panelPadding-bounds.Dx(), y, valueColor)
	}
}

var (
	headerColor = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	statusColor = color.RGBA{R: 240, G: 200, B: 90, A: 255}
	labelColor  = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	valueColor  = color.RGBA{R: 150, G: 220, B: 170, A: 255}
	mutedColor  = color.RGBA{R: 160, G: 160, B: 170, A: 255}
)

const (
	panelPadding   = 12
	lineHeight     = 16
	groupGap       = 8
	headerBaseline = 18
)
