package tsumego

import (
	"github.com/pkg/errors"

	"tsumego_lab/internal/domain/board"
	errs "tsumego_lab/internal/errors"
)

// koThreat is a hand-made stone pattern in frame-color units: 1 is a frame
// stone, -1 a stone of the other color. Row i lies on x = W-rows+i and
// column j on y = H-cols+j, i.e. the pattern fills the corner opposite the
// canonical origin.
type koThreat [][]int8

// offenceKoThreat gives the side inside the frame a ko threat to find.
var offenceKoThreat = koThreat{
	{1, 1, 1, 1, 1, 1, 1, 1, 1},
	{1, 0, 0, 0, -1, -1, -1, -1, -1},
	{1, 0, 0, 1, 1, 1, 0, -1, 0},
}

// defenceKoThreat is the larger pattern that hands the frame color a threat.
var defenceKoThreat = koThreat{
	{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	{1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{1, -1, 0, 0, 0, 1, 1, 1, 1, 1, 1, -1, 0, -1},
	{1, -1, 0, 0, -1, -1, -1, 0, 1, 0, 1, -1, -1, 0},
}

func (k koThreat) rows() int { return len(k) }
func (k koThreat) cols() int { return len(k[0]) }

// selectKoThreat picks the offence pattern when exactly one of koAllowed and
// "the frame color is black" holds.
func selectKoThreat(koAllowed bool, frameColor board.Color) koThreat {
	if koAllowed != (frameColor == board.Black) {
		return offenceKoThreat
	}
	return defenceKoThreat
}

// placement is the corner rectangle the pattern is stamped into.
func (k koThreat) placement(width, height int) (*Mask, error) {
	if width < k.rows() || height < k.cols() {
		return nil, errors.WithMessagef(errs.ErrMalformedInput,
			"board %dx%d is too small for a %dx%d ko threat", width, height, k.rows(), k.cols())
	}
	return Rect(width, height, width-k.rows(), height-k.cols(), width, height), nil
}

// check is the part of the placement whose ownership decides the ko fight.
// With ko allowed that is the whole pattern; otherwise the frame-colored
// border row and column are left out.
func (k koThreat) check(width, height int, koAllowed bool) *Mask {
	x0, y0 := width-k.rows(), height-k.cols()
	if !koAllowed {
		x0++
		y0++
	}
	return Rect(width, height, x0, y0, width, height)
}

// stamp writes the pattern, scaled by frameColor, over the corner of g.
func (k koThreat) stamp(g *board.Grid, frameColor board.Color) error {
	x0, y0 := g.Width()-k.rows(), g.Height()-k.cols()
	for i, row := range k {
		for j, v := range row {
			p := board.Point{X: x0 + i, Y: y0 + j}
			if err := g.Set(p, board.Color(v)*frameColor); err != nil {
				return err
			}
		}
	}
	return nil
}
