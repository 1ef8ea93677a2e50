package accuracy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func maskFrom(rows ...string) []bool {
	var out []bool
	for _, row := range rows {
		for _, c := range row {
			out = append(out, c == '#')
		}
	}
	return out
}

func TestEvaluateRecall(t *testing.T) {
	wear := []int{
		0, 50, 0, 0,
		0, 50, 5, 0,
		0, 0, 0, 0,
	}
	ref := maskFrom(
		".#..",
		".##.",
		"..#.",
	)

	res, err := Evaluate(wear, 4, 3, ref, Options{Threshold: 10})
	require.NoError(t, err)
	assert.Equal(t, 4, res.ReferencePaths)
	assert.Equal(t, 2, res.TruePositives)
	assert.InDelta(t, 0.5, res.Score, 1e-12)
	assert.Equal(t, maskFrom(".#..", ".#..", "...."), res.Simulated)
}

func TestEvaluateDilationTolerance(t *testing.T) {
	wear := []int{
		0, 0, 0,
		0, 9, 0,
		0, 0, 0,
	}
	ref := maskFrom(
		"...",
		"..#",
		"...",
	)

	plain, err := Evaluate(wear, 3, 3, ref, Options{})
	require.NoError(t, err)
	assert.Zero(t, plain.Score)

	dilated, err := Evaluate(wear, 3, 3, ref, Options{Dilate: true})
	require.NoError(t, err)
	assert.Equal(t, 1.0, dilated.Score)
	assert.Equal(t, maskFrom(".#.", "###", ".#."), dilated.Simulated)
}

func TestEvaluateIdempotent(t *testing.T) {
	wear := []int{3, 80, 41, 0, 100, 12}
	ref := maskFrom("##.", ".##")
	first, err := Evaluate(wear, 3, 2, ref, Options{Threshold: 40, Dilate: true})
	require.NoError(t, err)
	second, err := Evaluate(wear, 3, 2, ref, Options{Threshold: 40, Dilate: true})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, []int{3, 80, 41, 0, 100, 12}, wear, "wear must not be mutated")
}

func TestEvaluateEmptyReferenceScoresZero(t *testing.T) {
	res, err := Evaluate([]int{100, 100}, 2, 1, []bool{false, false}, Options{})
	require.NoError(t, err)
	assert.Zero(t, res.Score)
	assert.Zero(t, res.ReferencePaths)
}

func TestEvaluateShapeMismatch(t *testing.T) {
	_, err := Evaluate([]int{1, 2, 3}, 2, 2, make([]bool, 4), Options{})
	assert.ErrorIs(t, err, ErrShape)

	_, err = Evaluate(make([]int, 4), 2, 2, make([]bool, 3), Options{})
	assert.ErrorIs(t, err, ErrShape)
}

func TestDilateClipsAtEdges(t *testing.T) {
	got := Dilate(maskFrom("#..", "...", "..."), 3, 3)
	assert.Equal(t, maskFrom("##.", "#..", "..."), got)
}
