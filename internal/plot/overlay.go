package plot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"desire-paths/internal/accuracy"
)

var (
	overlayNone      = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	overlayMatch     = color.RGBA{R: 60, G: 200, B: 80, A: 255}
	overlayMissed    = color.RGBA{R: 210, G: 50, B: 50, A: 255}
	overlaySimulated = color.RGBA{R: 230, G: 210, B: 90, A: 255}
)

// OverlayImage paints the simulated and reference masks of an accuracy
// result, scale pixels per cell: matched paths green, missed reference
// paths red, extra simulated paths yellow.
func OverlayImage(res accuracy.Result, scale int) (*image.RGBA, error) {
	w, h := res.Width, res.Height
	if w <= 0 || h <= 0 || len(res.Simulated) != w*h || len(res.Reference) != w*h {
		return nil, fmt.Errorf("overlay %dx%d: %w", w, h, ErrNoData)
	}
	if scale <= 0 {
		scale = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			c := overlayNone
			switch {
			case res.Simulated[i] && res.Reference[i]:
				c = overlayMatch
			case res.Reference[i]:
				c = overlayMissed
			case res.Simulated[i]:
				c = overlaySimulated
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetRGBA(x*scale+dx, y*scale+dy, c)
				}
			}
		}
	}
	return img, nil
}

// MaskOverlay saves OverlayImage as a PNG.
func MaskOverlay(path string, res accuracy.Result, scale int) error {
	img, err := OverlayImage(res, scale)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
