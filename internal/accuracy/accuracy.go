// Package accuracy scores simulated desire paths against a reference mask
// of paths observed in the real park.
package accuracy

import (
	"errors"
	"fmt"
)

// ErrShape is returned when a mask does not match the grid dimensions.
var ErrShape = errors.New("mask shape mismatch")

// Options tune how simulated wear is turned into a path mask.
type Options struct {
	// Threshold is the wear a cell must exceed to count as path.
	Threshold int
	// Dilate grows the simulated mask by one cell (4-connected) before
	// comparison to tolerate small spatial offsets.
	Dilate bool
}

// Result holds the recall score and the masks it was computed from.
type Result struct {
	Score          float64
	TruePositives  int
	ReferencePaths int
	Width          int
	Height         int
	Simulated      []bool
	Reference      []bool
}

// Evaluate binarizes wear, optionally dilates it, and returns the fraction
// of reference path cells that the simulation also marked as path. It is
// recall, not a symmetric similarity: extra simulated paths are not
// penalised. An empty reference scores zero.
func Evaluate(wear []int, w, h int, reference []bool, opts Options) (Result, error) {
	if w <= 0 || h <= 0 {
		return Result{}, fmt.Errorf("grid %dx%d: %w", w, h, ErrShape)
	}
	if len(wear) != w*h {
		return Result{}, fmt.Errorf("wear has %d cells, want %d: %w", len(wear), w*h, ErrShape)
	}
	if len(reference) != w*h {
		return Result{}, fmt.Errorf("reference has %d cells, want %d: %w", len(reference), w*h, ErrShape)
	}

	sim := PathMask(wear, opts.Threshold)
	if opts.Dilate {
		sim = Dilate(sim, w, h)
	}
	tp, total := Overlap(sim, reference)
	res := Result{
		TruePositives:  tp,
		ReferencePaths: total,
		Width:          w,
		Height:         h,
		Simulated:      sim,
		Reference:      append([]bool(nil), reference...),
	}
	if total > 0 {
		res.Score = float64(tp) / float64(total)
	}
	return res, nil
}

// PathMask marks cells whose wear exceeds threshold.
func PathMask(wear []int, threshold int) []bool {
	mask := make([]bool, len(wear))
	for i, v := range wear {
		mask[i] = v > threshold
	}
	return mask
}

// Dilate applies one iteration of binary dilation with a cross-shaped
// structuring element (the cell and its four orthogonal neighbours).
func Dilate(mask []bool, w, h int) []bool {
	out := make([]bool, len(mask))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if !mask[idx] {
				continue
			}
			out[idx] = true
			if x > 0 {
				out[idx-1] = true
			}
			if x < w-1 {
				out[idx+1] = true
			}
			if y > 0 {
				out[idx-w] = true
			}
			if y < h-1 {
				out[idx+w] = true
			}
		}
	}
	return out
}

// Overlap counts reference cells that are also set in sim, and the number
// of reference cells overall.
func Overlap(sim, reference []bool) (truePositives, referencePaths int) {
	for i, ref := range reference {
		if !ref {
			continue
		}
		referencePaths++
		if i < len(sim) && sim[i] {
			truePositives++
		}
	}
	return truePositives, referencePaths
}
