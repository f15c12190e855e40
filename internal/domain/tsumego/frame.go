// Package tsumego turns a local life-and-death diagram into a sealed
// full-board position and judges an engine's ownership estimate of it.
package tsumego

import (
	"github.com/pkg/errors"

	"tsumego_lab/internal/domain/board"
	errs "tsumego_lab/internal/errors"
)

const (
	DefaultWallDistance       = 4
	DefaultOwnershipThreshold = 2.0 / 3.0
)

// Black moves first and solves: it kills a white group inside a black frame
// and saves a black group inside a white one.
const (
	Attacker = board.Black
	Defender = board.White
)

// Options of a frame synthesis.
type Options struct {
	KoAllowed    bool
	WallDistance int
}

// Frame is a canonicalized diagram dressed with a wall, filler stones and a
// ko threat, together with the masks used to build and judge it. All fields
// are derived once in Synthesize and must be treated as read-only.
type Frame struct {
	Board      *board.Grid // canonical stones of the problem, undressed
	Stones     *board.Grid // the finished frame
	Rotation   RotationSpec
	FrameColor board.Color
	KoAllowed  bool

	Inside       *Mask
	Outside      *Mask
	Wall         *Mask
	KoPlacement  *Mask
	KoCheck      *Mask
	AllowedMoves *Mask
}

// ToKill reports whether the solver plays to kill, which is the case when
// the frame is Black.
func (f *Frame) ToKill() bool { return f.FrameColor == Attacker }

// GroupColor is the color of the group inside the frame.
func (f *Frame) GroupColor() board.Color { return f.FrameColor.Opponent() }

// Width and Height of the canonical board.
func (f *Frame) Width() int  { return f.Stones.Width() }
func (f *Frame) Height() int { return f.Stones.Height() }

// Synthesize builds the frame for g. It never modifies g.
func Synthesize(g *board.Grid, opts Options) (*Frame, error) {
	if opts.WallDistance < 1 {
		return nil, errors.WithMessagef(errs.ErrMalformedInput, "wall distance %d", opts.WallDistance)
	}
	canonical, rotation, err := Canonicalize(g)
	if err != nil {
		return nil, err
	}

	f := &Frame{
		Board:      canonical,
		Rotation:   rotation,
		FrameColor: frameColor(canonical),
		KoAllowed:  opts.KoAllowed,
	}
	w, h := canonical.Width(), canonical.Height()

	ko := selectKoThreat(opts.KoAllowed, f.FrameColor)
	if f.KoPlacement, err = ko.placement(w, h); err != nil {
		return nil, err
	}
	f.KoCheck = ko.check(w, h, opts.KoAllowed)

	f.Inside = Occupancy(canonical).Dilate(opts.WallDistance)
	f.Outside = f.Inside.Not().Dilate(1)
	f.Wall = f.Inside.And(f.Outside)

	if f.Stones, err = f.assemble(ko); err != nil {
		return nil, err
	}
	f.AllowedMoves = f.Inside.AndNot(f.Wall).Or(f.KoPlacement).AndNot(f.Wall)
	return f, nil
}

func (f *Frame) assemble(ko koThreat) (*board.Grid, error) {
	out := f.Board.Clone()
	for _, p := range out.Points() {
		filler := f.Outside.Get(p) && p.X%2+p.Y%2 == 1
		if filler || f.Wall.Get(p) {
			if err := out.Set(p, f.FrameColor); err != nil {
				return nil, err
			}
		}
	}
	if err := ko.stamp(out, f.FrameColor); err != nil {
		return nil, err
	}
	return out, nil
}

// frameColor picks the color whose stones lie farther from the origin. A
// color without stones is infinitely far.
func frameColor(g *board.Grid) board.Color {
	black, okB := centroidDistance(g.Stones(board.Black))
	white, okW := centroidDistance(g.Stones(board.White))
	switch {
	case !okW:
		return board.White
	case !okB:
		return board.Black
	case black > white:
		return board.Black
	}
	return board.White
}

func centroidDistance(stones []board.Point) (float64, bool) {
	if len(stones) == 0 {
		return 0, false
	}
	var sx, sy float64
	for _, p := range stones {
		sx += float64(p.X)
		sy += float64(p.Y)
	}
	n := float64(len(stones))
	cx, cy := sx/n, sy/n
	return cx*cx + cy*cy, true
}
