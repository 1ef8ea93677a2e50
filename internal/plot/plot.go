package plot

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"desire-paths/internal/sims/park"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no data to plot")

// grid adapts a row-major cell layer to plotter.GridXYZ. Row 0 is drawn at
// the top, matching the simulation view.
type grid struct {
	w, h   int
	values []int
}

func (g grid) Dims() (c, r int)   { return g.w, g.h }
func (g grid) Z(c, r int) float64 { return float64(g.values[(g.h-1-r)*g.w+c]) }
func (g grid) X(c int) float64    { return float64(c) }
func (g grid) Y(r int) float64    { return float64(r) }

// Grid saves a heat map of a w x h layer to path. The image format follows
// the file extension. Both sides need at least two cells.
func Grid(path, title string, w, h int, values []int) error {
	if w < 2 || h < 2 || len(values) != w*h {
		return fmt.Errorf("grid %dx%d with %d values: %w", w, h, len(values), ErrNoData)
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	hm := plotter.NewHeatMap(grid{w: w, h: h, values: values}, palette.Heat(12, 1))
	if hm.Max <= hm.Min {
		hm.Max = hm.Min + 1
	}
	p.Add(hm)

	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}

// Heatmap saves the cumulative visitation counts of a snapshot.
func Heatmap(path string, snap park.Snapshot) error {
	return Grid(path, fmt.Sprintf("Visits after %d ticks", snap.Tick), snap.Width, snap.Height, snap.Heatmap)
}

// Wear saves the wear layer of a snapshot.
func Wear(path string, snap park.Snapshot) error {
	return Grid(path, fmt.Sprintf("Wear after %d ticks", snap.Tick), snap.Width, snap.Height, snap.Wear)
}

// AccuracyHistogram saves the distribution of sweep accuracy scores.
func AccuracyHistogram(path string, scores []float64, bins int) error {
	if len(scores) == 0 {
		return ErrNoData
	}
	if bins <= 0 {
		bins = 10
	}
	p := plot.New()
	p.Title.Text = "Accuracy"
	p.X.Label.Text = "Accuracy"
	p.Y.Label.Text = "Runs"

	h, err := plotter.NewHist(plotter.Values(scores), bins)
	if err != nil {
		return err
	}
	p.Add(h)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// TuneTrace saves the accuracy of each successive tuning improvement.
func TuneTrace(path string, scores []float64) error {
	if len(scores) == 0 {
		return ErrNoData
	}
	p := plot.New()
	p.Title.Text = "Tuning"
	p.X.Label.Text = "Improvement"
	p.Y.Label.Text = "Accuracy"

	pts := make(plotter.XYs, len(scores))
	for i, s := range scores {
		pts[i].X = float64(i)
		pts[i].Y = s
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)
	p.Legend.Add("accuracy", line)
	p.Legend.Top = true

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
