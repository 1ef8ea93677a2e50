package scenario

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"

	"desire-paths/internal/core"
	"desire-paths/internal/sims/park"
)

// Grayscale bands used to classify park images.
const (
	grassMinLevel    = 151
	sidewalkMinLevel = 146
	pathMinLevel     = 128
)

var imageParks = []string{"blackheath", "hampstead", "doria_pamphil"}

var imageExts = []string{".png", ".bmp"}

// ErrNoImage is returned when a park has no image in the data directory.
var ErrNoImage = errors.New("park image not found")

func imageLoader(name string) Loader {
	return func(opts Options) (park.Layout, error) {
		path, err := findImage(opts.DataDir, name)
		if err != nil {
			return park.Layout{}, err
		}
		f, err := os.Open(path)
		if err != nil {
			return park.Layout{}, err
		}
		defer f.Close()
		w, h := sizeOr(opts, 100, 100)
		return DecodeLayout(f, w, h)
	}
}

func findImage(dir, base string) (string, error) {
	for _, ext := range imageExts {
		path := filepath.Join(dir, base+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s in %q: %w", base, dir, ErrNoImage)
}

// DecodeLayout reads a PNG or BMP park image, resamples it to w x h and
// classifies each pixel by gray level: light pixels are grass, a narrow
// band below that is sidewalk and anything darker is an obstacle. Grass
// touching an obstacle becomes margin. Every run of sidewalk on the image
// border yields one entrance at its middle cell.
func DecodeLayout(r io.Reader, w, h int) (park.Layout, error) {
	gray, err := decodeGray(r, w, h)
	if err != nil {
		return park.Layout{}, err
	}
	c := newCanvas(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c.set(x, y, classifyLevel(gray.GrayAt(x, y).Y))
		}
	}
	markMargins(c)

	entrances := borderEntrances(c)
	if len(entrances) < 2 {
		return park.Layout{}, fmt.Errorf("image has %d border sidewalk gates, need 2: %w", len(entrances), park.ErrConfiguration)
	}
	return c.layout(entrances), nil
}

func classifyLevel(v uint8) park.Kind {
	switch {
	case v >= grassMinLevel:
		return park.KindGrass
	case v >= sidewalkMinLevel:
		return park.KindSidewalk
	default:
		return park.KindObstacle
	}
}

// decodeGray decodes r and resamples it to w x h gray pixels. Nearest
// neighbour keeps the narrow sidewalk band intact where smoothing would
// blend it into its surroundings.
func decodeGray(r io.Reader, w, h int) (*image.Gray, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("image grid %dx%d: %w", w, h, park.ErrConfiguration)
	}
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	gray := image.NewGray(image.Rect(0, 0, w, h))
	if b := src.Bounds(); b.Dx() == w && b.Dy() == h {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				gray.SetGray(x, y, color.GrayModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray))
			}
		}
		return gray, nil
	}
	xdraw.NearestNeighbor.Scale(gray, gray.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return gray, nil
}

// borderCells walks the grid border clockwise from the top-left corner.
func borderCells(w, h int) []core.Point {
	var out []core.Point
	for x := 0; x < w; x++ {
		out = append(out, core.Pt(x, 0))
	}
	for y := 1; y < h; y++ {
		out = append(out, core.Pt(w-1, y))
	}
	if h > 1 {
		for x := w - 2; x >= 0; x-- {
			out = append(out, core.Pt(x, h-1))
		}
	}
	if w > 1 {
		for y := h - 2; y > 0; y-- {
			out = append(out, core.Pt(0, y))
		}
	}
	return out
}

func borderEntrances(c *canvas) []core.Point {
	ring := borderCells(c.w, c.h)
	isWalk := func(i int) bool {
		p := ring[i%len(ring)]
		return c.at(p.X, p.Y) == park.KindSidewalk
	}
	start := -1
	for i := range ring {
		if !isWalk(i) {
			start = i
			break
		}
	}
	if start < 0 {
		// Fully paved border: one gate per side.
		return []core.Point{
			core.Pt(c.w/2, 0),
			core.Pt(c.w-1, c.h/2),
			core.Pt(c.w/2, c.h-1),
			core.Pt(0, c.h/2),
		}
	}
	var out []core.Point
	run := 0
	for i := start + 1; i <= start+len(ring); i++ {
		if isWalk(i) {
			run++
			continue
		}
		if run > 0 {
			mid := i - run + (run-1)/2
			out = append(out, ring[mid%len(ring)])
			run = 0
		}
	}
	return out
}

// LoadReferenceMask reads <dir>/<name>_paths.png (or .bmp), resamples it to
// w x h and marks pixels brighter than mid-gray as observed paths.
func LoadReferenceMask(dir, name string, w, h int) ([]bool, error) {
	path, err := findImage(dir, name+"_paths")
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeMask(f, w, h)
}

// DecodeMask decodes a reference path image into a row-major mask.
func DecodeMask(r io.Reader, w, h int) ([]bool, error) {
	gray, err := decodeGray(r, w, h)
	if err != nil {
		return nil, err
	}
	mask := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mask[y*w+x] = gray.GrayAt(x, y).Y >= pathMinLevel
		}
	}
	return mask, nil
}
