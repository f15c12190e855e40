package tsumego

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"tsumego_lab/internal/domain/board"
)

func TestMask_Dilate(t *testing.T) {
	centre := Occupancy(board.MustGrid(
		".....",
		".....",
		"..X..",
		".....",
		".....",
	))
	assert.Equal(t, 1, centre.Count())
	assert.Equal(t, 9, centre.Dilate(1).Count())
	assert.Equal(t, 25, centre.Dilate(2).Count())
	assert.True(t, centre.Dilate(0).Equal(centre))

	corner := Occupancy(board.MustGrid(
		"O....",
		".....",
		".....",
	))
	want := []board.Point{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	if diff := cmp.Diff(want, corner.Dilate(1).Points()); diff != "" {
		t.Errorf("dilated corner (-want +got):\n%s", diff)
	}
}

func TestMask_Ops(t *testing.T) {
	a := Rect(4, 4, 0, 0, 2, 4)
	b := Rect(4, 4, 1, 0, 4, 1)

	assert.Equal(t, 8, a.Count())
	assert.Equal(t, 3, b.Count())
	assert.Equal(t, 1, a.And(b).Count())
	assert.Equal(t, 10, a.Or(b).Count())
	assert.Equal(t, 7, a.AndNot(b).Count())
	assert.Equal(t, 8, a.Not().Count())

	assert.True(t, a.And(b).SubsetOf(a))
	assert.False(t, a.SubsetOf(b))
	assert.True(t, a.Disjoint(a.Not()))
	assert.False(t, a.Disjoint(b))

	assert.Panics(t, func() { a.And(Rect(3, 4, 0, 0, 1, 1)) })
}

func TestRect_Clips(t *testing.T) {
	m := Rect(3, 3, -2, 1, 10, 2)
	want := []board.Point{{0, 1}, {1, 1}, {2, 1}}
	if diff := cmp.Diff(want, m.Points()); diff != "" {
		t.Errorf("clipped rect (-want +got):\n%s", diff)
	}
	assert.False(t, m.Get(board.Point{-1, 1}))
}

func TestMask_Format(t *testing.T) {
	m := Rect(2, 2, 1, 0, 2, 1)
	assert.Equal(t, ". # \n. . \n", fmt.Sprintf("%s", m))
}
