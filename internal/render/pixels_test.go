package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillBinaryRGBA(t *testing.T) {
	buf := make([]byte, 8)
	fillBinaryRGBA(buf, []uint8{1, 0}, color.White, color.Black)
	assert.Equal(t, []byte{255, 255, 255, 255, 0, 0, 0, 255}, buf)
}

func TestFillPaletteRGBAClampsToLastColor(t *testing.T) {
	palette := []color.RGBA{{R: 1, A: 255}, {G: 2, A: 255}}
	buf := make([]byte, 12)
	fillPaletteRGBA(buf, []uint8{0, 1, 9}, palette)
	assert.Equal(t, []byte{1, 0, 0, 255, 0, 2, 0, 255, 0, 2, 0, 255}, buf)

	fillPaletteRGBA(buf, []uint8{0, 1, 9}, nil)
	assert.Equal(t, make([]byte, 12), buf)
}

func TestFillLayerRGBA(t *testing.T) {
	buf := make([]byte, 12)
	FillLayerRGBA(buf, []int{0, 1, 4}, color.RGBA{R: 255})

	assert.Equal(t, []byte{0, 0, 0, 0}, buf[0:4])
	assert.Equal(t, byte(170), buf[11], "peak cell gets full layer alpha")
	assert.Equal(t, buf[8], buf[11], "premultiplied red equals alpha for a pure red tint")
	assert.Less(t, buf[7], buf[11])
	assert.Positive(t, buf[7])

	FillLayerRGBA(buf, []int{0, 0, 0}, color.RGBA{R: 255})
	assert.Equal(t, make([]byte, 12), buf)
}
