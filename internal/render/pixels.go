package render

import (
	"image/color"
	"math"
)

// fillBinaryRGBA converts binary cell data (0/1) into RGBA pixels in buf.
func fillBinaryRGBA(buf []byte, cells []uint8, on, off color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	rOff, gOff, bOff, aOff := off.RGBA()
	for i, c := range cells {
		base := i * 4
		if c != 0 {
			buf[base+0] = uint8(rOn >> 8)
			buf[base+1] = uint8(gOn >> 8)
			buf[base+2] = uint8(bOn >> 8)
			buf[base+3] = uint8(aOn >> 8)
			continue
		}
		buf[base+0] = uint8(rOff >> 8)
		buf[base+1] = uint8(gOff >> 8)
		buf[base+2] = uint8(bOff >> 8)
		buf[base+3] = uint8(aOff >> 8)
	}
}

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := min(int(c), last)
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

const layerMaxAlpha = 170.0

// FillLayerRGBA tints each cell by its value relative to the layer maximum.
// Zero cells stay transparent; the tint's alpha is ignored. Pixels are
// premultiplied, as ebiten expects.
func FillLayerRGBA(buf []byte, values []int, tint color.RGBA) {
	peak := 0
	for _, v := range values {
		peak = max(peak, v)
	}
	for i, v := range values {
		base := i * 4
		if v <= 0 || peak == 0 {
			buf[base+0], buf[base+1], buf[base+2], buf[base+3] = 0, 0, 0, 0
			continue
		}
		intensity := math.Sqrt(float64(v) / float64(peak))
		a := layerMaxAlpha * (0.25 + 0.75*intensity)
		buf[base+0] = uint8(math.Round(float64(tint.R) * a / 255))
		buf[base+1] = uint8(math.Round(float64(tint.G) * a / 255))
		buf[base+2] = uint8(math.Round(float64(tint.B) * a / 255))
		buf[base+3] = uint8(math.Round(a))
	}
}
