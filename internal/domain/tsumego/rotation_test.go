package tsumego

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsumego_lab/internal/domain/board"
	errs "tsumego_lab/internal/errors"
)

func emptyGrid(t *testing.T, w, h int) *board.Grid {
	t.Helper()
	g, err := board.NewGrid(w, h)
	require.NoError(t, err)
	return g
}

func place(t *testing.T, g *board.Grid, c board.Color, pts ...board.Point) *board.Grid {
	t.Helper()
	for _, p := range pts {
		require.NoError(t, g.Set(p, c))
	}
	return g
}

var canonicalizeTests = []struct {
	name  string
	black []board.Point
	want  RotationSpec
	at    []board.Point // where the stones end up
}{
	{"already canonical", []board.Point{{0, 0}, {1, 2}}, RotationSpec{}, []board.Point{{0, 0}, {1, 2}}},
	{"far corner", []board.Point{{18, 18}, {17, 16}}, RotationSpec{FlipX: true, FlipY: true}, []board.Point{{0, 0}, {1, 2}}},
	{"right edge", []board.Point{{18, 0}, {17, 2}}, RotationSpec{FlipX: true}, []board.Point{{0, 0}, {1, 2}}},
	{"tall spread", []board.Point{{0, 0}, {5, 0}}, RotationSpec{Transpose: true}, []board.Point{{0, 0}, {0, 5}}},
}

func TestCanonicalize(t *testing.T) {
	for _, tc := range canonicalizeTests {
		t.Run(tc.name, func(t *testing.T) {
			g := place(t, emptyGrid(t, 19, 19), board.Black, tc.black...)
			before := g.Clone()

			got, spec, err := Canonicalize(g)
			require.NoError(t, err)
			assert.Equal(t, tc.want, spec)
			assert.True(t, g.Equal(before), "input must not change")
			for _, p := range tc.at {
				assert.Equal(t, board.Black, got.At(p), "%v\n%s", p, got)
			}
			assert.Equal(t, len(tc.black), got.StoneCount())

			again, spec2, err := Canonicalize(got)
			require.NoError(t, err)
			assert.True(t, spec2.IsIdentity(), "second pass %+v", spec2)
			assert.True(t, again.Equal(got))

			restored := spec.Restore(got)
			assert.True(t, restored.Equal(g), "%s", restored)
			for _, p := range tc.at {
				q := spec.RestorePoint(p, got.Width(), got.Height())
				assert.Equal(t, board.Black, g.At(q), "%v -> %v", p, q)
			}
		})
	}
}

func TestCanonicalize_NonSquare(t *testing.T) {
	g := place(t, emptyGrid(t, 9, 5), board.White, board.Point{8, 4}, board.Point{8, 3})
	got, spec, err := Canonicalize(g)
	require.NoError(t, err)
	assert.Equal(t, RotationSpec{FlipX: true, FlipY: true}, spec)
	assert.Equal(t, board.White, got.At(board.Point{0, 0}))
	assert.Equal(t, board.White, got.At(board.Point{0, 1}))
	assert.True(t, spec.Restore(got).Equal(g))
}

func TestCanonicalize_Empty(t *testing.T) {
	_, _, err := Canonicalize(emptyGrid(t, 9, 9))
	assert.True(t, errors.Is(err, errs.ErrMalformedInput))
}

func TestRestoreMask(t *testing.T) {
	spec := RotationSpec{FlipX: true, Transpose: true}
	m := Rect(3, 2, 0, 0, 1, 1) // (0,0) on a 3x2 canonical board
	got := spec.RestoreMask(m)
	assert.Equal(t, 2, got.Width())
	assert.Equal(t, 3, got.Height())
	assert.True(t, got.Get(board.Point{1, 0}), "%s", got)
	assert.Equal(t, 1, got.Count())
}
