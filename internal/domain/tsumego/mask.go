package tsumego

import (
	"fmt"

	"tsumego_lab/internal/domain/board"
)

// structure is the 3×3 full-connectivity structuring element used for dilation.
var structure = [9]board.Point{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {0, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Mask is a boolean view co-indexed with a board.Grid. Masks are never
// edited once a Frame is built; every operation returns a new mask.
type Mask struct {
	width  int
	height int
	bits   []bool // x*height + y
}

func newMask(width, height int) *Mask {
	return &Mask{width: width, height: height, bits: make([]bool, width*height)}
}

// Occupancy marks every stone of g.
func Occupancy(g *board.Grid) *Mask {
	m := newMask(g.Width(), g.Height())
	for _, p := range g.Points() {
		m.set(p, g.At(p) != board.Empty)
	}
	return m
}

// Rect marks the points with x0 <= x < x1 and y0 <= y < y1, clipped to the mask.
func Rect(width, height, x0, y0, x1, y1 int) *Mask {
	m := newMask(width, height)
	for x := max(x0, 0); x < min(x1, width); x++ {
		for y := max(y0, 0); y < min(y1, height); y++ {
			m.set(board.Point{X: x, Y: y}, true)
		}
	}
	return m
}

func (m *Mask) Width() int  { return m.width }
func (m *Mask) Height() int { return m.height }

func (m *Mask) index(p board.Point) int { return p.X*m.height + p.Y }

func (m *Mask) inBounds(p board.Point) bool {
	return p.X >= 0 && p.X < m.width && p.Y >= 0 && p.Y < m.height
}

// Get reports whether p is marked. Points off the mask are unmarked.
func (m *Mask) Get(p board.Point) bool {
	if !m.inBounds(p) {
		return false
	}
	return m.bits[m.index(p)]
}

func (m *Mask) set(p board.Point, v bool) { m.bits[m.index(p)] = v }

func (m *Mask) clone() *Mask {
	out := newMask(m.width, m.height)
	copy(out.bits, m.bits)
	return out
}

// Dilate grows the marked region by the structuring element n times. The
// area beyond the edge counts as unmarked.
func (m *Mask) Dilate(n int) *Mask {
	cur := m.clone()
	for i := 0; i < n; i++ {
		next := newMask(m.width, m.height)
		for x := 0; x < m.width; x++ {
			for y := 0; y < m.height; y++ {
				p := board.Point{X: x, Y: y}
				for _, off := range structure {
					if cur.Get(p.Add(off)) {
						next.set(p, true)
						break
					}
				}
			}
		}
		cur = next
	}
	return cur
}

func (m *Mask) combine(other *Mask, op func(a, b bool) bool) *Mask {
	if m.width != other.width || m.height != other.height {
		panic(fmt.Sprintf("tsumego: mask size mismatch %dx%d vs %dx%d", m.width, m.height, other.width, other.height))
	}
	out := newMask(m.width, m.height)
	for i := range m.bits {
		out.bits[i] = op(m.bits[i], other.bits[i])
	}
	return out
}

func (m *Mask) And(other *Mask) *Mask {
	return m.combine(other, func(a, b bool) bool { return a && b })
}

func (m *Mask) Or(other *Mask) *Mask {
	return m.combine(other, func(a, b bool) bool { return a || b })
}

// AndNot keeps the points of m that are not in other.
func (m *Mask) AndNot(other *Mask) *Mask {
	return m.combine(other, func(a, b bool) bool { return a && !b })
}

func (m *Mask) Not() *Mask {
	out := newMask(m.width, m.height)
	for i, b := range m.bits {
		out.bits[i] = !b
	}
	return out
}

// Count is the number of marked points.
func (m *Mask) Count() int {
	var n int
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Points lists the marked points in X-major order.
func (m *Mask) Points() []board.Point {
	var retVal []board.Point
	for x := 0; x < m.width; x++ {
		for y := 0; y < m.height; y++ {
			if p := (board.Point{X: x, Y: y}); m.Get(p) {
				retVal = append(retVal, p)
			}
		}
	}
	return retVal
}

// SubsetOf reports whether every point of m is also in other.
func (m *Mask) SubsetOf(other *Mask) bool {
	return m.AndNot(other).Count() == 0
}

// Disjoint reports whether m and other share no point.
func (m *Mask) Disjoint(other *Mask) bool {
	return m.And(other).Count() == 0
}

func (m *Mask) Equal(other *Mask) bool {
	if m.width != other.width || m.height != other.height {
		return false
	}
	for i, b := range m.bits {
		if other.bits[i] != b {
			return false
		}
	}
	return true
}

// Format implements fmt.Formatter. %s prints one board row per line.
func (m *Mask) Format(s fmt.State, verb rune) {
	switch verb {
	case 's', 'v':
		for y := 0; y < m.height; y++ {
			for x := 0; x < m.width; x++ {
				if m.Get(board.Point{X: x, Y: y}) {
					fmt.Fprint(s, "# ")
				} else {
					fmt.Fprint(s, ". ")
				}
			}
			fmt.Fprint(s, "\n")
		}
	}
}
