package tsumego

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"tsumego_lab/internal/domain/board"
	errs "tsumego_lab/internal/errors"
)

// Ownership is an engine estimate in [-1, 1] per point, positive for Black.
type Ownership struct {
	t *tensor.Dense // shape (height, width)
}

// NewOwnership reshapes a flat row-major ownership array (index y*width+x) as
// reported by the analysis engine.
func NewOwnership(values []float64, width, height int) (*Ownership, error) {
	if width <= 0 || height <= 0 || len(values) != width*height {
		return nil, errors.WithMessagef(errs.ErrShapeMismatch,
			"%d ownership values for a %dx%d board", len(values), width, height)
	}
	backing := make([]float64, len(values))
	copy(backing, values)
	return &Ownership{t: tensor.New(tensor.WithShape(height, width), tensor.WithBacking(backing))}, nil
}

func (o *Ownership) Width() int  { return o.t.Shape()[1] }
func (o *Ownership) Height() int { return o.t.Shape()[0] }

// At returns the estimate at p, 0 off the board.
func (o *Ownership) At(p board.Point) float64 {
	if p.X < 0 || p.Y < 0 || p.X >= o.Width() || p.Y >= o.Height() {
		return 0
	}
	v, err := o.t.At(p.Y, p.X)
	if err != nil {
		return 0
	}
	return v.(float64)
}

// Values returns the flat row-major estimates.
func (o *Ownership) Values() []float64 {
	data := o.t.Data().([]float64)
	retVal := make([]float64, len(data))
	copy(retVal, data)
	return retVal
}
