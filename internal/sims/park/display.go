package park

import "image/color"

const (
	displayKindMask  = 0x03
	displayWearShift = 2
	displayWearMask  = 0x3c
	displayAgentBit  = 0x40
	wearBuckets      = 11
)

var parkPalette = buildParkPalette()

// Palette exposes the color palette used for rendering the park.
func (w *World) Palette() []color.RGBA {
	return parkPalette
}

func buildParkPalette() []color.RGBA {
	palette := make([]color.RGBA, 128)
	for i := range palette {
		kind := Kind(i & displayKindMask)
		bucket := (i & displayWearMask) >> displayWearShift
		agent := (i & displayAgentBit) != 0
		palette[i] = toRGBA(paletteColorFor(kind, bucket, agent))
	}
	return palette
}

func toRGBA(c color.NRGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func paletteColorFor(kind Kind, bucket int, agent bool) color.NRGBA {
	if agent {
		return color.NRGBA{R: 220, G: 40, B: 40, A: 255}
	}
	switch kind {
	case KindSidewalk:
		return color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	case KindObstacle:
		return color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	case KindObstacleMargin:
		base := color.NRGBA{R: 40, G: 60, B: 40, A: 255}
		return blendColors(base, trodden, float64(bucket)/float64(wearBuckets-1))
	default:
		base := color.NRGBA{R: 0, G: 128, B: 102, A: 255}
		return blendColors(base, trodden, float64(bucket)/float64(wearBuckets-1))
	}
}

var trodden = color.NRGBA{R: 255, G: 255, B: 102, A: 255}

func blendColors(base, overlay color.NRGBA, overlayWeight float64) color.NRGBA {
	if overlayWeight <= 0 {
		return base
	}
	if overlayWeight >= 1 {
		return overlay
	}
	br, bg, bb, ba := float64(base.R), float64(base.G), float64(base.B), float64(base.A)
	or, og, ob, oa := float64(overlay.R), float64(overlay.G), float64(overlay.B), float64(overlay.A)
	w := overlayWeight
	inv := 1 - w
	return color.NRGBA{
		R: uint8(br*inv + or*w + 0.5),
		G: uint8(bg*inv + og*w + 0.5),
		B: uint8(bb*inv + ob*w + 0.5),
		A: uint8(ba*inv + oa*w + 0.5),
	}
}

func encodeDisplayValue(kind Kind, wear int, agent bool) uint8 {
	value := uint8(kind) & displayKindMask
	bucket := min(wearBuckets-1, max(0, wear/10))
	value |= (uint8(bucket) << displayWearShift) & displayWearMask
	if agent {
		value |= displayAgentBit
	}
	return value
}

func (w *World) rebuildDisplay() {
	kinds := w.terrain.Kinds()
	wear := w.terrain.WearLayer().Cells()
	for i := range w.display {
		w.display[i] = encodeDisplayValue(kinds[i], wear[i], false)
	}
	for _, a := range w.agents {
		idx := w.heatmap.Index(a.cell.X, a.cell.Y)
		w.display[idx] |= displayAgentBit
	}
}
