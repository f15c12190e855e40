package tsumego

import (
	"github.com/pkg/errors"

	"tsumego_lab/internal/domain/board"
	errs "tsumego_lab/internal/errors"
)

// RotationSpec records how a diagram was brought into canonical orientation.
type RotationSpec struct {
	FlipX     bool `json:"flip_x"`
	FlipY     bool `json:"flip_y"`
	Transpose bool `json:"transpose"`
}

// IsIdentity is true when the diagram was already canonical.
func (r RotationSpec) IsIdentity() bool { return !r.FlipX && !r.FlipY && !r.Transpose }

// Canonicalize mirrors the stones towards the origin and puts the longer
// spread on the first axis. The centroid offsets are kept as integer sums of
// 2x-(W-1), so flips never introduce rounding and a second pass is a no-op.
func Canonicalize(g *board.Grid) (*board.Grid, RotationSpec, error) {
	var offX, offY, n int
	for _, p := range g.Points() {
		if g.At(p) == board.Empty {
			continue
		}
		offX += 2*p.X - (g.Width() - 1)
		offY += 2*p.Y - (g.Height() - 1)
		n++
	}
	if n == 0 {
		return nil, RotationSpec{}, errors.WithMessage(errs.ErrMalformedInput, "no stones on the board")
	}

	var spec RotationSpec
	out := g.Clone()
	if offX > 0 {
		spec.FlipX = true
		out = out.FlipX()
	}
	if offY > 0 {
		spec.FlipY = true
		out = out.FlipY()
	}
	if abs(offY) > abs(offX) {
		spec.Transpose = true
		out = out.Transpose()
	}
	return out, spec, nil
}

// Restore maps a canonical grid back to the caller's orientation.
func (r RotationSpec) Restore(g *board.Grid) *board.Grid {
	out := g
	if r.Transpose {
		out = out.Transpose()
	}
	if r.FlipY {
		out = out.FlipY()
	}
	if r.FlipX {
		out = out.FlipX()
	}
	if out == g {
		out = g.Clone()
	}
	return out
}

// RestorePoint maps a point of a canonical width × height grid back to the
// caller's orientation.
func (r RotationSpec) RestorePoint(p board.Point, width, height int) board.Point {
	if r.Transpose {
		p = board.Point{X: p.Y, Y: p.X}
		width, height = height, width
	}
	if r.FlipY {
		p.Y = height - 1 - p.Y
	}
	if r.FlipX {
		p.X = width - 1 - p.X
	}
	return p
}

// RestoreMask maps a canonical mask back to the caller's orientation.
func (r RotationSpec) RestoreMask(m *Mask) *Mask {
	w, h := m.width, m.height
	if r.Transpose {
		w, h = h, w
	}
	out := newMask(w, h)
	for _, p := range m.Points() {
		out.set(r.RestorePoint(p, m.width, m.height), true)
	}
	return out
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
