package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDiagonalMask(t *testing.T, path string, n int) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, n, n))
	for i := 0; i < n; i++ {
		img.SetGray(i, i, color.Gray{Y: 255})
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestSweepCommand(t *testing.T) {
	data := t.TempDir()
	out := filepath.Join(t.TempDir(), "plots")
	writeDiagonalMask(t, filepath.Join(data, "plaza_paths.png"), 20)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{
		"-runs", "4", "-steps", "40", "-workers", "2",
		"-w", "20", "-h", "20",
		"-parks", "plaza", "-metrics", "closest,mixed",
		"-data", data, "-min", "0", "-out", out, "-log", "error",
		"-set", "spawn_every=4",
	}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	assert.Contains(t, stdout.String(), "Sweeping 4 of")
	assert.Contains(t, stdout.String(), "4 runs, 4 scored, 0 failed")
	assert.Contains(t, stdout.String(), " 1) acc=")
	for _, name := range []string{"accuracy.png", "best_heatmap.png", "best_wear.png", "best_overlay.png"} {
		info, err := os.Stat(filepath.Join(out, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}
}

func TestSweepCommandRejectsBadFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Error(t, run(context.Background(), []string{"-set", "oops"}, &stdout, &stderr))
	assert.Error(t, run(context.Background(), []string{"-runs", "1", "-store", "mongo", "-parks", "plaza", "-w", "20", "-h", "20", "-steps", "1", "-log", "error"}, &stdout, &stderr))
}
